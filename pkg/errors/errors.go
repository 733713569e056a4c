// Package errors provides structured error handling for the fiber renderer.
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindRender indicates a failure while performing a unit of work.
	KindRender
	// KindCommit indicates a failure while mutating the host tree.
	KindCommit
	// KindEffect indicates a failing effect callback or cleanup.
	KindEffect
	// KindHook indicates a misuse of the hook store.
	KindHook
	// KindHost indicates a host-level fault such as an invalid node type.
	KindHost
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindRender:
		return "render"
	case KindCommit:
		return "commit"
	case KindEffect:
		return "effect"
	case KindHook:
		return "hook"
	case KindHost:
		return "host"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// RuntimeError represents a structured error raised by the renderer.
type RuntimeError struct {
	// Op is the operation that failed (e.g., "core.commit").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Fiber describes the fiber being worked on, if any.
	Fiber string
	// Err is the underlying error.
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *RuntimeError) Error() string {
	if e.Fiber != "" {
		return fmt.Sprintf("%s [%s] fiber=%s: %v", e.Op, e.Kind, e.Fiber, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "core.workLoop").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap exposes a panic value that is itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// ComponentError represents a failure while invoking a component function.
type ComponentError struct {
	// Component is the name of the component that failed.
	Component string
	// Recovered is the panic value (nil for regular errors).
	Recovered any
	// Err is the underlying error (nil for panics).
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *ComponentError) Error() string {
	if e.Recovered != nil {
		return fmt.Sprintf("panic in component %s: %v", e.Component, e.Recovered)
	}
	if e.Err != nil {
		return fmt.Sprintf("error in component %s: %v", e.Component, e.Err)
	}
	return fmt.Sprintf("unknown error in component %s", e.Component)
}

func (e *ComponentError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	if err, ok := e.Recovered.(error); ok {
		return err
	}
	return nil
}

// HookOrderError reports that a component called its hooks in a different
// shape than in its previous generation.
type HookOrderError struct {
	// Component is the name of the offending component.
	Component string
	// Hook is "state" or "effect".
	Hook string
	// Index is the call index of the mismatching hook.
	Index int
	// Detail names what was compared ("hook count", "dependency count",
	// "state type").
	Detail string
	// Want and Got describe the previous and current shape.
	Want, Got string
}

func (e *HookOrderError) Error() string {
	return fmt.Sprintf("component %s: %s hook %d: %s changed from %s to %s between renders",
		e.Component, e.Hook, e.Index, e.Detail, e.Want, e.Got)
}

// InvalidTypeError reports a node type that is neither a host tag nor a
// component function.
type InvalidTypeError struct {
	Value any
}

func (e *InvalidTypeError) Error() string {
	return fmt.Sprintf("invalid node type %T (%v): want a host tag or a component", e.Value, e.Value)
}

// ErrorHandler receives errors reported by the renderer.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *RuntimeError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
	// HandleComponentError is called when a component invocation fails.
	HandleComponentError(err *ComponentError)
}
