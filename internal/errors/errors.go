package errors

import "fmt"

// ErrorCode represents a Vitalog error code.
type ErrorCode string

const (
	ErrEmptySeries    ErrorCode = "EMPTY_SERIES"    // 422
	ErrInvalidRequest ErrorCode = "INVALID_REQUEST" // 400
	ErrNotFound       ErrorCode = "NOT_FOUND"       // 404
	ErrDuplicateDate  ErrorCode = "DUPLICATE_DATE"  // 409
	ErrBadDate        ErrorCode = "BAD_DATE"        // 400
	ErrInternal       ErrorCode = "INTERNAL"        // 500
)

// VitaError represents a structured error with code, status, and details.
type VitaError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *VitaError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewEmptySeries creates a 422 error for when no day records are available.
// Aggregations treat this as "no data" and return empty outputs; only
// operations that need at least one day surface it to the caller.
func NewEmptySeries() *VitaError {
	return &VitaError{
		Code:    ErrEmptySeries,
		Status:  422,
		Message: "no day records in series",
	}
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *VitaError {
	return &VitaError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for a missing day or exercise.
func NewNotFound(identifier string) *VitaError {
	return &VitaError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewDuplicateDate creates a 409 error when a day record already exists.
func NewDuplicateDate(date string) *VitaError {
	return &VitaError{
		Code:    ErrDuplicateDate,
		Status:  409,
		Message: fmt.Sprintf("day record already exists for %s", date),
		Details: map[string]any{"date": date},
	}
}

// NewBadDate creates a 400 error for a date that is not YYYY-MM-DD.
func NewBadDate(date string) *VitaError {
	return &VitaError{
		Code:    ErrBadDate,
		Status:  400,
		Message: fmt.Sprintf("date must be YYYY-MM-DD: %q", date),
		Details: map[string]any{"date": date},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *VitaError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &VitaError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a VitaError with the given code.
func Is(err error, code ErrorCode) bool {
	if vErr, ok := err.(*VitaError); ok {
		return vErr.Code == code
	}
	return false
}
