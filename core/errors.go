package core

import "github.com/pkg/errors"

// FieldError pins a validation failure to a single input field. The API
// layer renders a list of these as the 400 response body.
type FieldError struct {
	Field string
	Error string
}

// ValidationError wraps a request-level error together with the per-field
// failures collected while validating the input.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{Err: err, Fields: flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// shutdown signals that the service cannot carry on and should stop
// gracefully, for example when the data dir becomes unwritable.
type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

// IsShutdown reports whether err, at its root cause, asks for a shutdown.
func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
