package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific error condition
type ErrorCode string

const (
	// Configuration errors
	ErrCodeConfigNotFound   ErrorCode = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid    ErrorCode = "CONFIG_INVALID"
	ErrCodeConfigValidation ErrorCode = "CONFIG_VALIDATION"

	// Input and records
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeTooLarge     ErrorCode = "TOO_LARGE"
	ErrCodeRejected     ErrorCode = "REJECTED"

	// Session
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"

	// Remote calls
	ErrCodeUpstream ErrorCode = "UPSTREAM_FAILED"
	ErrCodeTimeout  ErrorCode = "TIMEOUT"

	// General errors
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// TabdeckError represents a structured error with context
type TabdeckError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface
func (e *TabdeckError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *TabdeckError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *TabdeckError) WithDetail(key string, value interface{}) *TabdeckError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ToJSON converts the error to JSON
func (e *TabdeckError) ToJSON() string {
	data, _ := json.MarshalIndent(e, "", "  ")
	return string(data)
}

// New creates a new TabdeckError
func New(code ErrorCode, message string) *TabdeckError {
	return &TabdeckError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a TabdeckError
func Wrap(err error, code ErrorCode, message string) *TabdeckError {
	return &TabdeckError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// As returns the first TabdeckError in err's chain.
func As(err error) (*TabdeckError, bool) {
	for err != nil {
		if te, ok := err.(*TabdeckError); ok {
			return te, true
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil, false
		}
		err = unwrapper.Unwrap()
	}
	return nil, false
}

// Is checks if an error is a specific TabdeckError code
func Is(err error, code ErrorCode) bool {
	te, ok := As(err)
	return ok && te.Code == code
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	if te, ok := As(err); ok {
		return te.Code
	}
	return ""
}
