// Package httpx shapes every API response into the common envelope and
// maps the error taxonomy to HTTP statuses in one place.
package httpx

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	logrus "github.com/sirupsen/logrus"
)

// Envelope is the wire shape of every response.
type Envelope struct {
	Success bool     `json:"success"`
	Data    any      `json:"data,omitempty"`
	Message string   `json:"message,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

func Message(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: msg})
}

// Error carries an HTTP status through the call stack. Controllers return
// or build these; Fail writes them out.
type Error struct {
	Status  int
	Message string
	Errs    []string
}

func (e *Error) Error() string { return e.Message }

func Validation(msg string, errs ...string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: msg, Errs: errs}
}

func Unauthorized(msg string) *Error {
	if msg == "" {
		msg = "not authorized"
	}
	return &Error{Status: http.StatusUnauthorized, Message: msg}
}

func Forbidden(msg string) *Error {
	if msg == "" {
		msg = "access denied"
	}
	return &Error{Status: http.StatusForbidden, Message: msg}
}

func NotFound(msg string) *Error {
	if msg == "" {
		msg = "resource not found"
	}
	return &Error{Status: http.StatusNotFound, Message: msg}
}

func Conflict(msg string) *Error {
	if msg == "" {
		msg = "record already exists"
	}
	return &Error{Status: http.StatusConflict, Message: msg}
}

// Fail writes err as an envelope. Unknown errors become a 500; their
// detail is only echoed outside release mode.
func Fail(c *gin.Context, err error) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		c.AbortWithStatusJSON(apiErr.Status, Envelope{
			Success: false,
			Message: apiErr.Message,
			Errors:  apiErr.Errs,
		})
		return
	}

	logrus.WithError(err).Error("unhandled API error")
	msg := "internal server error"
	if gin.Mode() != gin.ReleaseMode {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, Envelope{Success: false, Message: msg})
}
