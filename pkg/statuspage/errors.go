package statuspage

import "fmt"

// TransportErr wraps failures to reach the service or read a response
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

// APIErr is an application-level error the service reported inside an
// otherwise-delivered response
type APIErr struct {
	Message string
}

// Error prints the service-reported message
func (a APIErr) Error() string {
	return fmt.Sprintf("statuspage.io reported an error: %s", a.Message)
}

// Is ignores the message, thus making errors.Is work against a zero APIErr
func (a APIErr) Is(target error) bool {
	_, ok := target.(APIErr)
	return ok
}
