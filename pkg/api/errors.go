package api

import (
	"errors"
	"fmt"
)

var (
	// ErrClosed is returned when work is submitted to a worker whose
	// shutdown has already begun. The rejected work is never executed.
	ErrClosed = errors.New("exclusive: worker is closed")

	// ErrInvalidRate is returned for a negative, NaN or infinite maximum
	// task rate.
	ErrInvalidRate = errors.New("exclusive: invalid max tasks per second")
)

// PanicError is delivered through a task's future when the task function
// panicked. The worker recovers the panic and keeps running.
type PanicError struct {
	// Value is the value passed to panic.
	Value any

	// Stack is the worker goroutine's stack at the time of the panic.
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("exclusive: task panicked: %v", e.Value)
}

// Unwrap returns the panic value when it is itself an error, so runtime
// errors such as integer division by zero can be matched with errors.As.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// IsPanic reports whether err (or any error it wraps) is a *PanicError.
func IsPanic(err error) bool {
	var pe *PanicError
	return errors.As(err, &pe)
}
