package errors

import (
	"errors"
)

// An error marking a blocking wait that was ended by the caller
// rather than by the stream it was waiting on.
type InterruptError struct {
	base error
}

// Implementation of an error interface for interruption.
func (e InterruptError) Error() string {
	return "interrupted: " + e.base.Error()
}

// Get the underlying cause of the interruption.
func (e InterruptError) Reason() error {
	return e.base
}

// Expose the underlying cause to errors.Is and errors.As from the standart library.
func (e InterruptError) Unwrap() error {
	return e.base
}

// Mark an error as an interruption.
// This function doesn't do anything with nil errors and errors which are already interruptions.
func Interrupted(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(InterruptError); ok {
		return err
	}
	return InterruptError{err}
}

// Check if any error in the chain is an interruption.
func IsInterrupted(err error) bool {
	var v InterruptError
	return errors.As(err, &v)
}
