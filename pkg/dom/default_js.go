//go:build js && wasm

package dom

import (
	"sync"

	"github.com/go-drift/fiber/pkg/core"
	"github.com/go-drift/fiber/pkg/host/jshost"
)

var (
	once          sync.Once
	globalEnv     *Environment
	globalBinding *Environment
)

// Bind replaces the default environment. The browser has a single thread,
// so the binding is global.
func Bind(env *Environment) (unbind func()) {
	globalBinding = env
	return func() {
		if globalBinding == env {
			globalBinding = nil
		}
	}
}

// Default returns the bound environment, or one rendering into the page's
// document with the browser's requestIdleCallback.
func Default() *Environment {
	if globalBinding != nil {
		return globalBinding
	}
	once.Do(func() {
		doc := jshost.Global()
		globalEnv = NewEnvironment(core.Config{Host: doc, Scheduler: doc})
	})
	return globalEnv
}
