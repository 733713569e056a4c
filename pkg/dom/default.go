//go:build !(js && wasm)

package dom

import (
	"errors"
	"sync"

	"github.com/petermattis/goid"
)

// ErrNoEnvironment is the panic value of Default when no environment is
// bound to the calling goroutine.
var ErrNoEnvironment = errors.New("dom: no environment bound to this goroutine")

var environments sync.Map

// Bind makes env the default environment of the calling goroutine, the one
// that must drive its scheduler. It returns a function removing the binding.
func Bind(env *Environment) (unbind func()) {
	gid := goid.Get()
	environments.Store(gid, env)
	return func() {
		environments.CompareAndDelete(gid, env)
	}
}

// Default returns the environment bound to the calling goroutine. It
// panics with ErrNoEnvironment when there is none.
func Default() *Environment {
	if env, ok := environments.Load(goid.Get()); ok {
		return env.(*Environment)
	}
	panic(ErrNoEnvironment)
}
