// Package errors provides helper functions and structures for more natural error handling in some situations.
package errors

import (
	"errors"
	"fmt"
)

// Convenience function to call errors.New() from the standart library.
func New(text string) error {
	return errors.New(text)
}

// Convenience function to create an error from a format string.
func Newf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}
