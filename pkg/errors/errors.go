// Package errors provides structured error handling for delegapter.
//
// Mutating operations return these errors before touching any state.
// Read accessors and precondition checks panic with them instead, the same
// way slice indexing panics: those are programming errors, not conditions a
// caller is expected to recover from.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindIndex indicates an index outside of the valid range.
	KindIndex
	// KindArgument indicates an invalid argument, such as a zero search step.
	KindArgument
	// KindPrecondition indicates a violated precondition, such as running
	// the differ without both lists.
	KindPrecondition
	// KindConfig indicates an invalid configuration or scenario file.
	KindConfig
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindIndex:
		return "index"
	case KindArgument:
		return "argument"
	case KindPrecondition:
		return "precondition"
	case KindConfig:
		return "config"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

var (
	// ErrIndexOutOfRange is matched by every IndexError.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrInvalidArgument is the default cause of KindArgument errors.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrPrecondition is the default cause of KindPrecondition errors.
	ErrPrecondition = errors.New("precondition violated")
)

// Error represents a structured error in delegapter.
type Error struct {
	// Op is the operation that failed (e.g., "entries.RemoveRange").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// StackTrace contains the call stack at the time of the error, if captured.
	StackTrace string
	// Timestamp is when the error was reported.
	Timestamp time.Time
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel belonging to e's kind.
func (e *Error) Is(target error) bool {
	switch e.Kind {
	case KindArgument:
		return target == ErrInvalidArgument
	case KindPrecondition:
		return target == ErrPrecondition
	case KindIndex:
		return target == ErrIndexOutOfRange
	}
	return false
}

// Argument returns a KindArgument error for op.
func Argument(op, format string, args ...any) *Error {
	return &Error{Op: op, Kind: KindArgument, Err: fmt.Errorf(format, args...)}
}

// Precondition returns a KindPrecondition error for op with a stack trace.
func Precondition(op, format string, args ...any) *Error {
	return &Error{
		Op:         op,
		Kind:       KindPrecondition,
		Err:        fmt.Errorf(format, args...),
		StackTrace: CaptureStack(),
	}
}

// IndexError reports an index outside of [0, Size), or outside of
// [0, Size] for insertion points.
type IndexError struct {
	// Op is the operation that was called.
	Op string
	// Index is the offending index.
	Index int
	// Size is the list size at the time of the call.
	Size int
	// Inclusive is set when Size itself was a valid index (insertion).
	Inclusive bool
}

func (e *IndexError) Error() string {
	bound := ")"
	if e.Inclusive {
		bound = "]"
	}
	return fmt.Sprintf("%s: index %d out of range [0, %d%s", e.Op, e.Index, e.Size, bound)
}

// Is makes errors.Is(err, ErrIndexOutOfRange) hold.
func (e *IndexError) Is(target error) bool {
	return target == ErrIndexOutOfRange
}

// CheckIndex returns an IndexError unless 0 <= i < size.
func CheckIndex(op string, i, size int) error {
	if i < 0 || i >= size {
		return &IndexError{Op: op, Index: i, Size: size}
	}
	return nil
}

// CheckPosition returns an IndexError unless 0 <= i <= size.
func CheckPosition(op string, i, size int) error {
	if i < 0 || i > size {
		return &IndexError{Op: op, Index: i, Size: size, Inclusive: true}
	}
	return nil
}

// CheckRange validates a half-open range [from, to) against size.
// from > to is an argument error; bounds outside [0, size] are index errors.
func CheckRange(op string, from, to, size int) error {
	if from > to {
		return Argument(op, "from %d > to %d", from, to)
	}
	if err := CheckPosition(op, from, size); err != nil {
		return err
	}
	return CheckPosition(op, to, size)
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "cmd.diff").
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

// ErrorHandler receives errors passed to Report and panics recovered by
// RecoverWithCallback.
type ErrorHandler interface {
	// HandleError is called when an error is reported.
	HandleError(err *Error)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
