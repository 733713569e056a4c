package testing

import (
	"sync"
	"testing"

	"github.com/go-drift/fiber/pkg/errors"
)

// ErrorRecorder is an errors.ErrorHandler keeping every report. Installing
// one replaces the process-wide handler, so tests using it must not run in
// parallel.
type ErrorRecorder struct {
	mu         sync.Mutex
	errs       []*errors.RuntimeError
	panics     []*errors.PanicError
	components []*errors.ComponentError
}

var _ errors.ErrorHandler = (*ErrorRecorder)(nil)

// RecordErrors installs a recorder for the duration of the test.
func RecordErrors(tb testing.TB) *ErrorRecorder {
	r := &ErrorRecorder{}
	prev := errors.SetHandler(r)
	tb.Cleanup(func() { errors.SetHandler(prev) })
	return r
}

// HandleError implements errors.ErrorHandler.
func (r *ErrorRecorder) HandleError(err *errors.RuntimeError) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

// HandlePanic implements errors.ErrorHandler.
func (r *ErrorRecorder) HandlePanic(err *errors.PanicError) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.panics = append(r.panics, err)
}

// HandleComponentError implements errors.ErrorHandler.
func (r *ErrorRecorder) HandleComponentError(err *errors.ComponentError) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.components = append(r.components, err)
}

// Errors returns the runtime errors reported so far.
func (r *ErrorRecorder) Errors() []*errors.RuntimeError {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*errors.RuntimeError(nil), r.errs...)
}

// Panics returns the panics reported so far.
func (r *ErrorRecorder) Panics() []*errors.PanicError {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*errors.PanicError(nil), r.panics...)
}

// ComponentErrors returns the component failures reported so far.
func (r *ErrorRecorder) ComponentErrors() []*errors.ComponentError {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*errors.ComponentError(nil), r.components...)
}

// Count returns the number of reports of any kind.
func (r *ErrorRecorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.errs) + len(r.panics) + len(r.components)
}
