package jira

import "fmt"

// NotFoundErr wraps the Jira issue-not-found error
type NotFoundErr struct {
	Err error
}

// Error prints the wrapped error and the original one
func (n NotFoundErr) Error() string {
	err := fmt.Errorf("the given issue was not found: %w", n.Err)
	return err.Error()
}

// Is ignores the internal error, thus making errors.Is work (as by default it compares the internal objects)
func (n NotFoundErr) Is(target error) bool {
	_, ok := target.(NotFoundErr)
	return ok
}

// TransportErr wraps any Jira api failure that is not a not-found
type TransportErr struct {
	Err error
}

// Error prints the wrapped error only
func (t TransportErr) Error() string {
	return t.Err.Error()
}

// Is ignores the internal error, thus making errors.Is work (as by default it compares the internal objects)
func (t TransportErr) Is(target error) bool {
	_, ok := target.(TransportErr)
	return ok
}

// Unwrap exposes the inner error for errors.As chains
func (t TransportErr) Unwrap() error {
	return t.Err
}
