package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"
)

var (
	// DefaultHandler receives every reported error. SetHandler replaces it.
	DefaultHandler ErrorHandler = &LogHandler{}

	handlerMu sync.RWMutex
)

// SetHandler installs h as the global handler. Nil restores a LogHandler
// writing to slog.Default().
func SetHandler(h ErrorHandler) {
	if h == nil {
		h = &LogHandler{}
	}
	handlerMu.Lock()
	DefaultHandler = h
	handlerMu.Unlock()
}

func handler() ErrorHandler {
	handlerMu.RLock()
	defer handlerMu.RUnlock()
	return DefaultHandler
}

// Report delivers err to the global handler. Errors that are not an *Error
// are wrapped: an IndexError keeps its op under KindIndex, anything else is
// KindUnknown. A zero Timestamp is set to now.
func Report(err error) {
	if err == nil {
		return
	}
	e := classify(err)
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	handler().HandleError(e)
}

func classify(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	var ie *IndexError
	if errors.As(err, &ie) {
		return &Error{Op: ie.Op, Kind: KindIndex, Err: err}
	}
	return &Error{Kind: KindUnknown, Err: err}
}

// RecoverWithCallback reports a panic, if any, and then calls callback with
// the panic value. It must be deferred directly.
//
//	defer errors.RecoverWithCallback("cmd.diff", func(any) { os.Exit(2) })
func RecoverWithCallback(op string, callback func(r any)) {
	r := recover()
	if r == nil {
		return
	}
	handler().HandlePanic(&PanicError{
		Op:         op,
		Value:      r,
		StackTrace: CaptureStack(),
		Timestamp:  time.Now(),
	})
	if callback != nil {
		callback(r)
	}
}

// CaptureStack formats the stack of its caller's caller, one
// "function\n\tfile:line" pair per frame.
func CaptureStack() string {
	var pcs [32]uintptr
	n := runtime.Callers(3, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	var sb strings.Builder
	for n > 0 {
		f, more := frames.Next()
		fmt.Fprintf(&sb, "%s\n\t%s:%d\n", f.Function, f.File, f.Line)
		if !more {
			break
		}
	}
	return sb.String()
}
