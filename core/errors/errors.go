package errors

import "fmt"

type ErrorCode int

const (
	ErrInvalidInput               ErrorCode = 4000
	ErrInvalidRequestData         ErrorCode = 4001
	ErrUnauthorized               ErrorCode = 4010
	ErrTokenExpired               ErrorCode = 4011
	ErrInvalidTokenFormat         ErrorCode = 4012
	ErrMissingAuthorizationHeader ErrorCode = 4013
	ErrForbidden                  ErrorCode = 4030
	ErrNotFound                   ErrorCode = 4040
	ErrNotConnected               ErrorCode = 4041
	ErrAlreadyExists              ErrorCode = 4090
	ErrTooManyRequests            ErrorCode = 4290

	ErrInternalServer  ErrorCode = 5000
	ErrCreateFailed    ErrorCode = 5001
	ErrGetFailed       ErrorCode = 5002
	ErrUpdateFailed    ErrorCode = 5003
	ErrDeleteFailed    ErrorCode = 5004
	ErrExternalService ErrorCode = 5020
	ErrNotConfigured   ErrorCode = 5030
)

// AppError is the error type returned by services. Err carries the cause and is
// never serialised.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether err is an *AppError carrying code.
func Is(err error, code ErrorCode) bool {
	ae, ok := err.(*AppError)
	return ok && ae != nil && ae.Code == code
}
