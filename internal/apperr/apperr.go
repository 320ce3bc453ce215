// Package apperr carries the typed errors handlers return to clients.
package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Error struct {
	Status  int
	Code    string
	Message string
	Details any
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

func WithDetails(status int, code, message string, details any) *Error {
	return &Error{Status: status, Code: code, Message: message, Details: details}
}

func BadRequest(code, message string) *Error {
	return New(http.StatusBadRequest, code, message)
}

func NotFound(message string) *Error {
	return New(http.StatusNotFound, "not_found", message)
}

func Forbidden(message string) *Error {
	return New(http.StatusForbidden, "forbidden", message)
}

func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, "unauthorized", message)
}

func Unavailable(message string) *Error {
	return New(http.StatusServiceUnavailable, "unavailable", message)
}

func Invalid(err error) *Error {
	return New(http.StatusBadRequest, "invalid_input", err.Error())
}

// From maps any error onto an *Error. Unknown errors become 500 internal.
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound("Record not found")
	}
	return New(http.StatusInternalServerError, "internal", "Internal server error")
}

// Write renders err as {"error": message, "code": code} and aborts the chain.
func Write(c *gin.Context, err error) {
	ae := From(err)
	if ae.Status >= http.StatusInternalServerError {
		log.Error("request failed", "path", c.FullPath(), "err", err)
		_ = c.Error(err)
	}

	body := gin.H{"error": ae.Message, "code": ae.Code}
	if ae.Details != nil {
		body["details"] = ae.Details
	}
	c.AbortWithStatusJSON(ae.Status, body)
}
