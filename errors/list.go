package errors

import (
	"fmt"
)

/*
An error which is a list of errors.
It's intended to be used locally in a function to aggregate errors from different calls.
Here is a typical use case:

		type aggregator struct {
			val1 io.Closer
			val2 io.Closer
			vals []io.Closer
		}

		func (a *aggregator) Close() error {
			errs := errors.List().
				Add(a.val1.Close()).
				Add(a.val2.Close())
			for _, v := range a.vals {
				errs.Add(v.Close())
			}
			return errs.Err()
		}
*/
type ErrorList struct {
	errs []error
}

// Add an error to the list.
// This function ignores nil errors
// and inlines other error lists so that you don't have error lists of error lists.
func (l *ErrorList) Add(err error) *ErrorList {
	if err == nil {
		return l
	}

	if v, ok := err.(*ErrorList); ok {
		return l.AddAll(v.errs)
	}

	l.errs = append(l.errs, err)
	return l
}

// Add all errors from the array to the error list.
// Nil errors and other error lists are added as in Add.
func (l *ErrorList) AddAll(errs []error) *ErrorList {
	if errs == nil {
		return l
	}

	for _, e := range errs {
		l.Add(e)
	}
	return l
}

// Simplify the error list.
// This function gives nil for empty error list
// and a single error for the error list of length one.
func (l *ErrorList) Err() error {
	if len(l.errs) == 0 {
		return nil
	}
	if len(l.errs) == 1 {
		return l.errs[0]
	}
	return l
}

// Implementation of an error interface for error list.
func (l *ErrorList) Error() string {
	err := l.Err()
	if err == nil {
		return fmt.Sprintf("%v", nil)
	}
	if v, ok := err.(*ErrorList); ok {
		return fmt.Sprintf("%v", v.errs)
	}
	return fmt.Sprintf("%v", err)
}

// Expose the collected errors to errors.Is and errors.As from the standart library.
func (l *ErrorList) Unwrap() []error {
	return l.errs
}

func (l *ErrorList) copy() *ErrorList {
	return AsList(l.errs...)
}

// Create an empty error list.
func List() *ErrorList {
	return &ErrorList{}
}

// Create an error list from errors.
// Nil errors and other error lists are added as in Add.
func AsList(errs ...error) *ErrorList {
	return List().AddAll(errs)
}
