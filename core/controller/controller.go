package controller

import (
	stderrors "errors"
	"net/http"
	"strings"
	"time"

	"taskcal/core/errors"
	"taskcal/core/logger"

	"github.com/labstack/echo/v4"
)

// Response types
type (
	SuccessResponse struct {
		Success   bool      `json:"success"`
		Message   string    `json:"message,omitempty"`
		Data      any       `json:"data,omitempty"`
		Timestamp time.Time `json:"timestamp"`
	}

	ErrorResponse struct {
		Success   bool             `json:"success"`
		Error     string           `json:"error"`
		Code      errors.ErrorCode `json:"code"`
		Data      any              `json:"data,omitempty"`
		Timestamp time.Time        `json:"timestamp"`
	}

	ValidationError struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	}
)

type BaseController interface {
	BadRequest(appErrCode errors.ErrorCode, message string, details ...any) *echo.HTTPError
	InternalServerError(appErrCode errors.ErrorCode, message string, details ...any) *echo.HTTPError
	NotFound(appErrCode errors.ErrorCode, message string, details ...any) *echo.HTTPError
	Unauthorized(appErrCode errors.ErrorCode, message string, details ...any) *echo.HTTPError
	Forbidden(appErrCode errors.ErrorCode, message string, details ...any) *echo.HTTPError
	SuccessResponse(c echo.Context, data any, message string) error
	CreatedResponse(c echo.Context, data any, message string) error
	ErrorResponse(c echo.Context, err error) error
}

type responseHandler struct{}

func NewBaseController() BaseController {
	return &responseHandler{}
}

func NewSuccessResponse(data any, message string) *SuccessResponse {
	return &SuccessResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	}
}

func NewErrorBody(appErrCode errors.ErrorCode, message string, details ...any) *ErrorResponse {
	body := &ErrorResponse{
		Success:   false,
		Error:     message,
		Code:      appErrCode,
		Timestamp: time.Now(),
	}
	if len(details) > 0 {
		body.Data = details[0]
	}
	return body
}

func NewErrorResponse(httpStatusCode int, appErrCode errors.ErrorCode, message string, details ...any) *echo.HTTPError {
	return echo.NewHTTPError(httpStatusCode, NewErrorBody(appErrCode, message, details...))
}

func NewValidationError(field, message string) ValidationError {
	return ValidationError{
		Field:   field,
		Message: message,
	}
}

func (h *responseHandler) BadRequest(appErrCode errors.ErrorCode, message string, details ...any) *echo.HTTPError {
	return NewErrorResponse(http.StatusBadRequest, appErrCode, message, details...)
}

func (h *responseHandler) InternalServerError(appErrCode errors.ErrorCode, message string, details ...any) *echo.HTTPError {
	return NewErrorResponse(http.StatusInternalServerError, appErrCode, message, details...)
}

func (h *responseHandler) NotFound(appErrCode errors.ErrorCode, message string, details ...any) *echo.HTTPError {
	return NewErrorResponse(http.StatusNotFound, appErrCode, message, details...)
}

func (h *responseHandler) Unauthorized(appErrCode errors.ErrorCode, message string, details ...any) *echo.HTTPError {
	return NewErrorResponse(http.StatusUnauthorized, appErrCode, message, details...)
}

func (h *responseHandler) Forbidden(appErrCode errors.ErrorCode, message string, details ...any) *echo.HTTPError {
	return NewErrorResponse(http.StatusForbidden, appErrCode, message, details...)
}

func (h *responseHandler) SuccessResponse(c echo.Context, data any, message string) error {
	return c.JSON(http.StatusOK, NewSuccessResponse(data, message))
}

func (h *responseHandler) CreatedResponse(c echo.Context, data any, message string) error {
	return c.JSON(http.StatusCreated, NewSuccessResponse(data, message))
}

func (h *responseHandler) ErrorResponse(c echo.Context, err error) error {
	httpStatus, appCode, msg := StatusFor(err)

	logger.Error("BaseController:ErrorResponse",
		"status", httpStatus,
		"code", appCode,
		"message", msg,
		"path", c.Path(),
	)
	return c.JSON(httpStatus, NewErrorBody(appCode, msg))
}

// StatusFor maps an error to its HTTP status, application code and message.
// Errors that are not AppErrors keep their raw message.
// 5xx AppErrors append the message of their cause.
func StatusFor(err error) (int, errors.ErrorCode, string) {
	httpStatus := http.StatusInternalServerError
	appCode := errors.ErrInternalServer
	msg := "internal server error"

	if err == nil {
		return httpStatus, appCode, msg
	}

	var ae *errors.AppError
	if stderrors.As(err, &ae) && ae != nil {
		appCode = ae.Code
		if ae.Message != "" {
			msg = ae.Message
		}
		switch appCode {
		case errors.ErrInvalidInput, errors.ErrInvalidRequestData:
			httpStatus = http.StatusBadRequest
		case errors.ErrUnauthorized, errors.ErrTokenExpired, errors.ErrInvalidTokenFormat, errors.ErrMissingAuthorizationHeader:
			httpStatus = http.StatusUnauthorized
		case errors.ErrForbidden:
			httpStatus = http.StatusForbidden
		case errors.ErrNotFound, errors.ErrNotConnected:
			httpStatus = http.StatusNotFound
		case errors.ErrAlreadyExists:
			httpStatus = http.StatusConflict
		case errors.ErrTooManyRequests:
			httpStatus = http.StatusTooManyRequests
		case errors.ErrNotConfigured:
			httpStatus = http.StatusServiceUnavailable
		case errors.ErrExternalService:
			httpStatus = http.StatusBadGateway
		default:
			httpStatus = http.StatusInternalServerError
		}
		// Server-side failures carry the downstream cause.
		if httpStatus >= http.StatusInternalServerError && ae.Err != nil {
			if cause := ae.Err.Error(); cause != "" && !strings.Contains(msg, cause) {
				msg += ": " + cause
			}
		}
		return httpStatus, appCode, msg
	}

	if err.Error() != "" {
		msg = err.Error()
	}
	return httpStatus, appCode, msg
}

// HTTPErrorHandler renders every error that reaches echo in the JSON envelope,
// including the *echo.HTTPError values produced by BaseController.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if stderrors.As(err, &he) {
		var body any
		switch m := he.Message.(type) {
		case *ErrorResponse:
			body = m
		case string:
			body = NewErrorBody(codeForStatus(he.Code), m)
		default:
			body = NewErrorBody(codeForStatus(he.Code), http.StatusText(he.Code))
		}
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(he.Code)
			return
		}
		_ = c.JSON(he.Code, body)
		return
	}

	status, code, msg := StatusFor(err)
	logger.Error("HTTPErrorHandler:Unhandled", "error", err, "path", c.Path())
	_ = c.JSON(status, NewErrorBody(code, msg))
}

func codeForStatus(status int) errors.ErrorCode {
	switch status {
	case http.StatusBadRequest:
		return errors.ErrInvalidInput
	case http.StatusUnauthorized:
		return errors.ErrUnauthorized
	case http.StatusForbidden:
		return errors.ErrForbidden
	case http.StatusNotFound:
		return errors.ErrNotFound
	case http.StatusConflict:
		return errors.ErrAlreadyExists
	case http.StatusTooManyRequests:
		return errors.ErrTooManyRequests
	default:
		return errors.ErrInternalServer
	}
}
