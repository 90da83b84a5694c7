package mailer

// DeliveryErr wraps any failure to hand the message to the relay
type DeliveryErr struct {
	Err error
}

// Error prints the wrapped error only
func (d DeliveryErr) Error() string {
	return d.Err.Error()
}

// Is ignores the internal error, thus making errors.Is work (as by default it compares the internal objects)
func (d DeliveryErr) Is(target error) bool {
	_, ok := target.(DeliveryErr)
	return ok
}

// Unwrap exposes the inner error for errors.As chains
func (d DeliveryErr) Unwrap() error {
	return d.Err
}
