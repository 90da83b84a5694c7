package archive

// UploadErr wraps a failure to store the record in object storage
type UploadErr struct {
	Err error
}

// Error prints the wrapped error only
func (u UploadErr) Error() string {
	return u.Err.Error()
}

// Is ignores the internal error, thus making errors.Is work (as by default it compares the internal objects)
func (u UploadErr) Is(target error) bool {
	_, ok := target.(UploadErr)
	return ok
}

// Unwrap exposes the inner error for errors.As chains
func (u UploadErr) Unwrap() error {
	return u.Err
}
