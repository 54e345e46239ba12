package errors

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestErrorString(t *testing.T) {
	err := &Error{
		Op:   "entries.RemoveRange",
		Kind: KindArgument,
		Err:  errors.New("from 3 > to 1"),
	}
	want := "entries.RemoveRange [argument]: from 3 > to 1"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindUnknown, "unknown"},
		{KindIndex, "index"},
		{KindArgument, "argument"},
		{KindPrecondition, "precondition"},
		{KindConfig, "config"},
		{KindPanic, "panic"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestSentinels(t *testing.T) {
	if !errors.Is(Argument("op", "bad"), ErrInvalidArgument) {
		t.Error("argument error should match ErrInvalidArgument")
	}
	if errors.Is(Argument("op", "bad"), ErrPrecondition) {
		t.Error("argument error should not match ErrPrecondition")
	}
	pre := Precondition("op", "missing list")
	if !errors.Is(pre, ErrPrecondition) {
		t.Error("precondition error should match ErrPrecondition")
	}
	if pre.StackTrace == "" {
		t.Error("expected precondition error to capture a stack trace")
	}
	if !errors.Is(CheckIndex("op", 3, 3), ErrIndexOutOfRange) {
		t.Error("index error should match ErrIndexOutOfRange")
	}
}

func TestCheckIndex(t *testing.T) {
	tests := []struct {
		i, size int
		ok      bool
	}{
		{0, 1, true},
		{-1, 1, false},
		{1, 1, false},
		{0, 0, false},
	}
	for _, tt := range tests {
		err := CheckIndex("op", tt.i, tt.size)
		if (err == nil) != tt.ok {
			t.Errorf("CheckIndex(%d, %d) = %v, want ok=%v", tt.i, tt.size, err, tt.ok)
		}
	}
	if err := CheckPosition("op", 1, 1); err != nil {
		t.Errorf("CheckPosition(1, 1) = %v, want nil", err)
	}
	got := CheckPosition("list.Insert", 5, 2).Error()
	if got != "list.Insert: index 5 out of range [0, 2]" {
		t.Errorf("unexpected message %q", got)
	}
}

func TestCheckRange(t *testing.T) {
	var e *Error
	if err := CheckRange("op", 2, 1, 5); !errors.As(err, &e) || e.Kind != KindArgument {
		t.Errorf("CheckRange(2, 1) = %v, want argument error", err)
	}
	if err := CheckRange("op", 0, 6, 5); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("CheckRange(0, 6) = %v, want index error", err)
	}
	if err := CheckRange("op", 5, 5, 5); err != nil {
		t.Errorf("CheckRange(5, 5) = %v, want nil", err)
	}
}

func TestPanicErrorString(t *testing.T) {
	err := &PanicError{Value: "boom", Timestamp: time.Now()}
	if got, want := err.Error(), "panic: boom"; got != want {
		t.Errorf("PanicError.Error() = %q, want %q", got, want)
	}
	err.Op = "cmd.diff"
	if got, want := err.Error(), "panic in cmd.diff: boom"; got != want {
		t.Errorf("PanicError.Error() = %q, want %q", got, want)
	}
}

func TestReport(t *testing.T) {
	var captured *Error
	SetHandler(&testHandler{onError: func(err *Error) { captured = err }})
	defer SetHandler(nil)

	Report(&Error{Op: "test.op", Kind: KindConfig, Err: errors.New("bad")})

	if captured == nil {
		t.Fatal("expected error to be captured")
	}
	if captured.Op != "test.op" {
		t.Errorf("Op = %q, want %q", captured.Op, "test.op")
	}
	if captured.Timestamp.IsZero() {
		t.Error("expected Timestamp to be set")
	}
}

func TestReportWrapsPlainErrors(t *testing.T) {
	var captured []*Error
	SetHandler(&testHandler{onError: func(err *Error) { captured = append(captured, err) }})
	defer SetHandler(nil)

	Report(nil)
	Report(CheckIndex("entries.ItemAt", 4, 2))
	Report(errors.New("plain"))

	if len(captured) != 2 {
		t.Fatalf("captured %d errors, want 2", len(captured))
	}
	if captured[0].Kind != KindIndex || captured[0].Op != "entries.ItemAt" {
		t.Errorf("index error reported as %v", captured[0])
	}
	if !errors.Is(captured[0], ErrIndexOutOfRange) {
		t.Error("wrapped index error should match ErrIndexOutOfRange")
	}
	if captured[1].Kind != KindUnknown || captured[1].Err.Error() != "plain" {
		t.Errorf("plain error reported as %v", captured[1])
	}
}

func TestRecoverWithCallback(t *testing.T) {
	var captured *PanicError
	var value any
	SetHandler(&testHandler{onPanic: func(err *PanicError) { captured = err }})
	defer SetHandler(nil)

	func() {
		defer RecoverWithCallback("test.recover", func(r any) { value = r })
		panic("intentional test panic")
	}()

	if captured == nil || captured.Op != "test.recover" {
		t.Fatalf("expected panic to be reported, got %+v", captured)
	}
	if value != "intentional test panic" {
		t.Errorf("callback value = %v", value)
	}
}

func TestSetHandlerNil(t *testing.T) {
	SetHandler(nil)
	if _, ok := DefaultHandler.(*LogHandler); !ok {
		t.Errorf("SetHandler(nil) should set LogHandler, got %T", DefaultHandler)
	}
}

func TestLogHandler(t *testing.T) {
	var buf bytes.Buffer
	h := &LogHandler{Logger: slog.New(slog.NewTextHandler(&buf, nil)), Verbose: true}
	h.HandleError(&Error{Op: "cmd.diff", Kind: KindConfig, Err: errors.New("no such kind"), StackTrace: "frame"})
	h.HandlePanic(&PanicError{Op: "cmd.replay", Value: "boom"})
	out := buf.String()
	for _, want := range []string{"op=cmd.diff", "kind=config", "no such kind", "stack=frame", "op=cmd.replay", "value=boom"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %q should contain %q", out, want)
		}
	}
}

func TestCaptureStack(t *testing.T) {
	stack := CaptureStack()
	if !strings.Contains(stack, "testing") && !strings.Contains(stack, "runtime") {
		t.Errorf("stack trace should contain testing or runtime frames, got: %s", stack)
	}
}

type testHandler struct {
	onError func(*Error)
	onPanic func(*PanicError)
}

func (h *testHandler) HandleError(err *Error) {
	if h.onError != nil {
		h.onError(err)
	}
}

func (h *testHandler) HandlePanic(err *PanicError) {
	if h.onPanic != nil {
		h.onPanic(err)
	}
}
