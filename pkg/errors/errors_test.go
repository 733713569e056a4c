package errors

import (
	"bytes"
	stderrors "errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestRuntimeErrorString(t *testing.T) {
	err := &RuntimeError{
		Op:   "core.commit",
		Kind: KindCommit,
		Err:  stderrors.New("host refused"),
	}
	want := "core.commit [commit]: host refused"
	if got := err.Error(); got != want {
		t.Errorf("RuntimeError.Error() = %q, want %q", got, want)
	}
}

func TestRuntimeErrorWithFiber(t *testing.T) {
	err := &RuntimeError{
		Op:    "core.performUnitOfWork",
		Kind:  KindHost,
		Fiber: "int#3",
		Err:   &InvalidTypeError{Value: 7},
	}
	got := err.Error()
	if !strings.Contains(got, "fiber=int#3") {
		t.Errorf("error string %q should contain fiber", got)
	}
	var invalid *InvalidTypeError
	if !stderrors.As(err, &invalid) {
		t.Fatal("expected RuntimeError to unwrap to InvalidTypeError")
	}
	if invalid.Value != 7 {
		t.Errorf("Value = %v, want 7", invalid.Value)
	}
}

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindUnknown, "unknown"},
		{KindRender, "render"},
		{KindCommit, "commit"},
		{KindEffect, "effect"},
		{KindHook, "hook"},
		{KindHost, "host"},
		{KindPanic, "panic"},
		{ErrorKind(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestPanicErrorString(t *testing.T) {
	err := &PanicError{Value: "boom"}
	if got, want := err.Error(), "panic: boom"; got != want {
		t.Errorf("PanicError.Error() = %q, want %q", got, want)
	}
	err.Op = "core.workLoop"
	if got, want := err.Error(), "panic in core.workLoop: boom"; got != want {
		t.Errorf("PanicError.Error() = %q, want %q", got, want)
	}
}

func TestPanicErrorUnwrap(t *testing.T) {
	cause := stderrors.New("cause")
	if got := (&PanicError{Value: cause}).Unwrap(); got != cause {
		t.Errorf("Unwrap() = %v, want %v", got, cause)
	}
	if got := (&PanicError{Value: 42}).Unwrap(); got != nil {
		t.Errorf("Unwrap() = %v, want nil", got)
	}
}

func TestComponentErrorString(t *testing.T) {
	err := &ComponentError{Component: "app.Counter", Recovered: "nil map"}
	if got, want := err.Error(), "panic in component app.Counter: nil map"; got != want {
		t.Errorf("ComponentError.Error() = %q, want %q", got, want)
	}

	cause := stderrors.New("bad props")
	err2 := &ComponentError{Component: "app.Counter", Err: cause}
	if got := err2.Error(); !strings.Contains(got, "error in component app.Counter") {
		t.Errorf("ComponentError.Error() = %q, should contain 'error in component'", got)
	}
	if !stderrors.Is(err2, cause) {
		t.Error("expected ComponentError to unwrap to its cause")
	}

	err3 := &ComponentError{Component: "app.Counter"}
	if got, want := err3.Error(), "unknown error in component app.Counter"; got != want {
		t.Errorf("ComponentError.Error() = %q, want %q", got, want)
	}
}

func TestComponentErrorUnwrapsHookOrder(t *testing.T) {
	order := &HookOrderError{Component: "app.List", Hook: "state", Index: 1, Detail: "hook count", Want: "1", Got: "2"}
	err := &ComponentError{Component: "app.List", Recovered: order}

	var got *HookOrderError
	if !stderrors.As(err, &got) {
		t.Fatal("expected ComponentError to unwrap to HookOrderError")
	}
	want := "component app.List: state hook 1: hook count changed from 1 to 2 between renders"
	if got.Error() != want {
		t.Errorf("HookOrderError.Error() = %q, want %q", got.Error(), want)
	}
}

func TestInvalidTypeErrorString(t *testing.T) {
	got := (&InvalidTypeError{Value: 3.5}).Error()
	want := "invalid node type float64 (3.5): want a host tag or a component"
	if got != want {
		t.Errorf("InvalidTypeError.Error() = %q, want %q", got, want)
	}
}

func TestReport(t *testing.T) {
	var capturedErr *RuntimeError
	handler := &testHandler{
		onError: func(err *RuntimeError) {
			capturedErr = err
		},
	}

	oldHandler := SetHandler(handler)
	defer SetHandler(oldHandler)

	Report(&RuntimeError{
		Op:   "core.runEffect",
		Kind: KindEffect,
		Err:  stderrors.New("effect failed"),
	})
	Report(nil)

	if capturedErr == nil {
		t.Fatal("expected error to be captured")
	}
	if capturedErr.Op != "core.runEffect" {
		t.Errorf("Op = %q, want %q", capturedErr.Op, "core.runEffect")
	}
	if capturedErr.Timestamp.IsZero() {
		t.Error("expected Timestamp to be set")
	}
}

func TestReportPanic(t *testing.T) {
	var capturedPanic *PanicError
	handler := &testHandler{
		onPanic: func(err *PanicError) {
			capturedPanic = err
		},
	}

	oldHandler := SetHandler(handler)
	defer SetHandler(oldHandler)

	stamp := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ReportPanic(&PanicError{
		Value:     "test panic value",
		Timestamp: stamp,
	})

	if capturedPanic == nil {
		t.Fatal("expected panic to be captured")
	}
	if capturedPanic.Value != "test panic value" {
		t.Errorf("Value = %v, want %q", capturedPanic.Value, "test panic value")
	}
	if !capturedPanic.Timestamp.Equal(stamp) {
		t.Errorf("Timestamp = %v, want it preserved", capturedPanic.Timestamp)
	}
}

func TestReportComponentError(t *testing.T) {
	var capturedErr *ComponentError
	handler := &testHandler{
		onComponentError: func(err *ComponentError) {
			capturedErr = err
		},
	}

	oldHandler := SetHandler(handler)
	defer SetHandler(oldHandler)

	ReportComponentError(&ComponentError{
		Component: "app.Test",
		Recovered: "test panic",
	})

	if capturedErr == nil {
		t.Fatal("expected component error to be captured")
	}
	if capturedErr.Component != "app.Test" {
		t.Errorf("Component = %q, want %q", capturedErr.Component, "app.Test")
	}
	if capturedErr.Timestamp.IsZero() {
		t.Error("expected Timestamp to be set")
	}
}

func TestRecover(t *testing.T) {
	var capturedPanic *PanicError
	handler := &testHandler{
		onPanic: func(err *PanicError) {
			capturedPanic = err
		},
	}

	oldHandler := SetHandler(handler)
	defer SetHandler(oldHandler)

	func() {
		defer Recover("test.recover")
		panic("intentional test panic")
	}()

	if capturedPanic == nil {
		t.Fatal("expected panic to be recovered and captured")
	}
	if capturedPanic.Value != "intentional test panic" {
		t.Errorf("Value = %v, want %q", capturedPanic.Value, "intentional test panic")
	}
	if capturedPanic.Op != "test.recover" {
		t.Errorf("Op = %q, want %q", capturedPanic.Op, "test.recover")
	}
	if capturedPanic.StackTrace == "" {
		t.Error("expected StackTrace to be captured")
	}
}

func TestRecoverWithCallback(t *testing.T) {
	oldHandler := SetHandler(&testHandler{})
	defer SetHandler(oldHandler)

	var got any
	func() {
		defer RecoverWithCallback("test.callback", func(r any) { got = r })
		panic(17)
	}()

	if got != 17 {
		t.Errorf("callback received %v, want 17", got)
	}
}

func TestCaptureStack(t *testing.T) {
	stack := CaptureStack()
	if stack == "" {
		t.Fatal("expected non-empty stack trace")
	}
	if !strings.Contains(stack, "TestCaptureStack") {
		t.Errorf("stack trace should contain the caller, got: %s", stack)
	}
	if strings.Contains(stack, "errors.CaptureStack") {
		t.Errorf("stack trace should skip CaptureStack itself, got: %s", stack)
	}
}

func TestSetHandlerNil(t *testing.T) {
	oldHandler := SetHandler(nil)
	defer SetHandler(oldHandler)

	if DefaultHandler == nil {
		t.Fatal("SetHandler(nil) should set default LogHandler, not nil")
	}
	if _, ok := DefaultHandler.(*LogHandler); !ok {
		t.Errorf("SetHandler(nil) should set LogHandler, got %T", DefaultHandler)
	}
}

func TestLogHandler(t *testing.T) {
	var buf bytes.Buffer
	h := &LogHandler{
		Logger:  slog.New(slog.NewTextHandler(&buf, nil)),
		Verbose: true,
	}

	h.HandleError(&RuntimeError{Op: "core.commit", Kind: KindCommit, Fiber: "div#2", Err: stderrors.New("x"), StackTrace: "frames"})
	h.HandlePanic(&PanicError{Op: "idle.Loop", Value: "boom"})
	h.HandleComponentError(&ComponentError{Component: "app.Row", Recovered: "bad"})
	h.HandleError(nil)

	out := buf.String()
	for _, want := range []string{
		`msg="fiber error"`, "kind=commit", "fiber=div#2", "stack=frames",
		`msg="fiber panic"`, "op=idle.Loop",
		`msg="component failed"`, "component=app.Row",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

type testHandler struct {
	onError          func(*RuntimeError)
	onPanic          func(*PanicError)
	onComponentError func(*ComponentError)
}

func (h *testHandler) HandleError(err *RuntimeError) {
	if h.onError != nil {
		h.onError(err)
	}
}

func (h *testHandler) HandlePanic(err *PanicError) {
	if h.onPanic != nil {
		h.onPanic(err)
	}
}

func (h *testHandler) HandleComponentError(err *ComponentError) {
	if h.onComponentError != nil {
		h.onComponentError(err)
	}
}
