package errors

import (
	stdErrors "errors"
	"fmt"

	"github.com/pkg/errors"
)

// ErrorTracer carries a message, an optional ErrorCode and the underlying
// error with its stack trace.
type ErrorTracer struct {
	Message string
	Code    ErrorCode
	Err     error
}

// StackTracer is an interface that requires a StackTrace method.
type StackTracer interface {
	StackTrace() errors.StackTrace
}

// NewTracer creates a new ErrorTracer with the provided message.
func NewTracer(message string) *ErrorTracer {
	return &ErrorTracer{
		Message: message,
	}
}

// TracerFromError creates a new ErrorTracer from an existing error, preserving the stack trace.
func TracerFromError(err error) *ErrorTracer {
	return NewTracer(err.Error()).Wrap(err)
}

// TracerWithCode wraps err under a coded message. The message is prefixed to
// the underlying error text the same way fmt.Errorf("%s: %w") would.
func TracerWithCode(code ErrorCode, message string, err error) *ErrorTracer {
	tracer := NewTracer(fmt.Sprintf("%s: %s", message, err.Error())).Wrap(err)
	tracer.Code = code
	return tracer
}

func (e *ErrorTracer) Error() string {
	return e.Message
}

func (e *ErrorTracer) Unwrap() error {
	return e.Err
}

// Wrap wraps an existing error into the ErrorTracer, preserving the stack trace.
func (e *ErrorTracer) Wrap(err error) *ErrorTracer {
	e.Err = err
	if _, ok := err.(StackTracer); !ok {
		e.Err = errors.WithStack(err)
	}

	return e
}

// StackTrace returns the stack trace of the underlying error if it implements StackTracer.
func (e *ErrorTracer) StackTrace() errors.StackTrace {
	errWithStack, ok := e.Unwrap().(StackTracer)
	if ok {
		return errWithStack.StackTrace()
	}
	return nil
}

// CodeOf returns the code of the first ErrorTracer in err's chain.
func CodeOf(err error) (ErrorCode, bool) {
	var tracer *ErrorTracer
	if !stdErrors.As(err, &tracer) {
		return "", false
	}
	return tracer.Code, true
}
