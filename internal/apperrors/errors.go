package apperrors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes
const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeNotFound          = "NOT_FOUND"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeInvalidSortField  = "INVALID_SORT_FIELD"
	CodeMigration         = "MIGRATION_ERROR"
	CodeInvalidInput      = "INVALID_INPUT"
	CodeInternal          = "INTERNAL_ERROR"
)

// Error carries a machine-readable code alongside the human message.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Err.Error())
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func NewValidation(format string, args ...interface{}) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

func NewNotFound(format string, args ...interface{}) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

func NewInvalidTransition(from, to string) *Error {
	return &Error{
		Code:    CodeInvalidTransition,
		Message: fmt.Sprintf("invalid status transition from %s to %s", from, to),
	}
}

func NewInvalidSortField(field string) *Error {
	return &Error{
		Code:    CodeInvalidSortField,
		Message: fmt.Sprintf("unknown sort field: %s", field),
	}
}

func NewMigration(message string, err error) *Error {
	return &Error{Code: CodeMigration, Message: message, Err: err}
}

// Code extracts the machine-readable code from any error.
func Code(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

func httpStatus(code string) int {
	switch code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeValidation, CodeInvalidTransition, CodeInvalidSortField, CodeInvalidInput:
		return http.StatusBadRequest
	case CodeMigration:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// Respond writes the error as a JSON response with the mapped status code.
// Errors without an attached code become opaque internal errors.
func Respond(c *gin.Context, err error) {
	var appErr *Error
	if !errors.As(err, &appErr) {
		appErr = New(CodeInternal, "internal server error")
	}
	c.JSON(httpStatus(appErr.Code), gin.H{
		"code":    appErr.Code,
		"message": appErr.Message,
	})
}

// BadRequest writes a 400 response with the INVALID_INPUT code, used for
// request bodies and parameters that fail binding.
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "invalid request"
	}
	c.JSON(http.StatusBadRequest, gin.H{
		"code":    CodeInvalidInput,
		"message": message,
	})
}
