package errors

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrOrderNotDeletable = errors.New("order not in a deletable status")
	ErrStoreUnavailable  = errors.New("store unavailable")
	ErrInvalidToken      = errors.New("invalid auth token")
)

// ValidationError signals rejected client input. The reason is safe to
// surface verbatim in the HTTP response.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

var (
	ErrMissingFields     = &ValidationError{Reason: "Missing required fields"}
	ErrMissingBookFields = &ValidationError{Reason: "Missing required fields in books"}
	ErrInvalidStatus     = &ValidationError{Reason: "Invalid status format"}
	ErrInvalidDateFormat = &ValidationError{Reason: "Invalid date format"}
	ErrMissingAddress    = &ValidationError{Reason: "Missing delivery address"}
	ErrInvalidParam      = &ValidationError{Reason: "Invalid query parameter"}
)

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}
