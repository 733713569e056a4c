// Package dom is the public entry point for mounting node trees into host
// containers.
//
//	root := dom.CreateRoot(container)
//	root.Render(core.CreateElement(App, nil))
//
// Roots belong to an Environment, which pairs a host with its idle
// scheduler. Render and CreateRoot use the default environment of the
// calling goroutine; see Bind.
package dom

import (
	"fmt"
	"reflect"

	"github.com/go-drift/fiber/pkg/core"
	"github.com/go-drift/fiber/pkg/host"
)

// Environment creates roots sharing one host, scheduler and set of
// observers. Each container gets at most one root. An Environment is not
// safe for concurrent use.
type Environment struct {
	cfg   core.Config
	roots map[host.Node]*Root
}

// NewEnvironment returns an environment whose roots are configured by cfg.
// cfg.Host and cfg.Scheduler are required.
func NewEnvironment(cfg core.Config) *Environment {
	if cfg.Host == nil || cfg.Scheduler == nil {
		panic("dom: an environment requires a host and a scheduler")
	}
	return &Environment{cfg: cfg, roots: make(map[host.Node]*Root)}
}

// Host returns the environment's host.
func (e *Environment) Host() host.Host {
	return e.cfg.Host
}

// CreateRoot returns the root rendering into container, creating it on
// first use. container must be a comparable host node.
func (e *Environment) CreateRoot(container host.Node) *Root {
	if container == nil {
		panic("dom: nil container")
	}
	if t := reflect.TypeOf(container); !t.Comparable() {
		panic(fmt.Sprintf("dom: container of type %s is not comparable", t))
	}
	if r, ok := e.roots[container]; ok {
		return r
	}
	r := &Root{session: core.NewSession(container, e.cfg)}
	e.roots[container] = r
	return r
}

// Render mounts or re-renders node into container.
func (e *Environment) Render(node *core.Node, container host.Node) {
	e.CreateRoot(container).Render(node)
}

// Roots returns the number of roots created.
func (e *Environment) Roots() int {
	return len(e.roots)
}

// Root renders node trees into one container.
type Root struct {
	session *core.Session
}

// Render schedules node to replace the root's tree.
func (r *Root) Render(node *core.Node) {
	r.session.Render(node)
}

// Session returns the root's render session.
func (r *Root) Session() *core.Session {
	return r.session
}

// Render mounts or re-renders node into container using the default
// environment.
func Render(node *core.Node, container host.Node) {
	Default().Render(node, container)
}

// CreateRoot returns the root for container in the default environment.
func CreateRoot(container host.Node) *Root {
	return Default().CreateRoot(container)
}
