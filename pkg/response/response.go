package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the unified API response format. Status is the literal string
// "true" or "false" so that clients can distinguish outcome independently of
// the HTTP status code.
type Envelope struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Payload interface{} `json:"payload"`
}

// AppError represents a structured application error with HTTP status.
type AppError struct {
	HTTPStatus int    // HTTP status code (e.g. 400, 404, 500)
	Message    string // Human-readable error message
}

func (e *AppError) Error() string {
	return e.Message
}

func NewBadRequest(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusBadRequest, Message: msg}
}

func NewUnauthorized(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusUnauthorized, Message: msg}
}

func NewForbidden(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusForbidden, Message: msg}
}

func NewNotFound(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusNotFound, Message: msg}
}

func NewConflict(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusConflict, Message: msg}
}

func NewServerError(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusInternalServerError, Message: msg}
}

// --- Gin response helpers ---

// Success sends a 200 OK envelope with payload.
func Success(c *gin.Context, message string, payload interface{}) {
	if payload == nil {
		payload = gin.H{}
	}
	c.JSON(http.StatusOK, Envelope{
		Status:  "true",
		Message: message,
		Payload: payload,
	})
}

// Created sends a 201 Created envelope with payload.
func Created(c *gin.Context, message string, payload interface{}) {
	if payload == nil {
		payload = gin.H{}
	}
	c.JSON(http.StatusCreated, Envelope{
		Status:  "true",
		Message: message,
		Payload: payload,
	})
}

// Fail sends an error envelope with the given HTTP status.
func Fail(c *gin.Context, httpStatus int, message string, payload interface{}) {
	if payload == nil {
		payload = gin.H{}
	}
	c.JSON(httpStatus, Envelope{
		Status:  "false",
		Message: message,
		Payload: payload,
	})
}

// Error sends an error envelope. If err is an *AppError, its HTTP status is
// used; otherwise a generic 500 internal server error is returned.
func Error(c *gin.Context, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		Fail(c, appErr.HTTPStatus, appErr.Message, nil)
		return
	}
	Fail(c, http.StatusInternalServerError, err.Error(), nil)
}

func BadRequest(c *gin.Context, msg string) {
	Fail(c, http.StatusBadRequest, msg, nil)
}

func Unauthorized(c *gin.Context, msg string) {
	Fail(c, http.StatusUnauthorized, msg, nil)
}

func Forbidden(c *gin.Context, msg string) {
	Fail(c, http.StatusForbidden, msg, nil)
}

func NotFound(c *gin.Context, msg string) {
	Fail(c, http.StatusNotFound, msg, nil)
}

func ServerError(c *gin.Context, msg string) {
	Fail(c, http.StatusInternalServerError, msg, nil)
}
