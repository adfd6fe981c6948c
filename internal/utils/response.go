package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes carried in ResponseData.Code so clients can tell failures apart
// without parsing messages.
const (
	CodeMissingFields     = "missing_fields"
	CodeSlotTaken         = "slot_taken"
	CodeNotFound          = "not_found"
	CodeInvalidTransition = "invalid_transition"
	CodeUnauthorized      = "unauthorized"
	CodeRateLimited       = "rate_limited"
	CodeInternal          = "internal"
)

// ResponseData represents the structure of a standard API response.
type ResponseData struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Code    string      `json:"code,omitempty"`
	Fields  []string    `json:"fields,omitempty"`
	Invalid []string    `json:"invalid,omitempty"`
}

// Success sends a standard success response.
func Success(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, ResponseData{
		Status:  http.StatusOK,
		Message: message,
		Data:    data,
	})
}

// Created sends a standard resource created response.
func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, ResponseData{
		Status:  http.StatusCreated,
		Message: message,
		Data:    data,
	})
}

// Error sends a standard error response.
func Error(c *gin.Context, statusCode int, errorMessage string) {
	ErrorWithCode(c, statusCode, "", errorMessage)
}

// ErrorWithCode sends an error response tagged with a machine readable code.
// fields lists the offending request fields, if any.
func ErrorWithCode(c *gin.Context, statusCode int, code string, errorMessage string, fields ...string) {
	c.JSON(statusCode, ResponseData{
		Status:  statusCode,
		Message: "An error occurred",
		Error:   errorMessage,
		Code:    code,
		Fields:  fields,
	})
}

// ErrorWithData is ErrorWithCode plus a payload describing the failure.
func ErrorWithData(c *gin.Context, statusCode int, code string, errorMessage string, data interface{}) {
	c.JSON(statusCode, ResponseData{
		Status:  statusCode,
		Message: "An error occurred",
		Error:   errorMessage,
		Code:    code,
		Data:    data,
	})
}

// ValidationFailed sends a 400 naming the missing and the malformed fields.
func ValidationFailed(c *gin.Context, errorMessage string, missing, invalid []string) {
	c.JSON(http.StatusBadRequest, ResponseData{
		Status:  http.StatusBadRequest,
		Message: "An error occurred",
		Error:   errorMessage,
		Code:    CodeMissingFields,
		Fields:  missing,
		Invalid: invalid,
	})
}

// BadRequest sends a 400 Bad Request error response.
func BadRequest(c *gin.Context, errorMessage string) {
	Error(c, http.StatusBadRequest, errorMessage)
}

// Unauthorized sends a 401 Unauthorized error response.
func Unauthorized(c *gin.Context, errorMessage string) {
	ErrorWithCode(c, http.StatusUnauthorized, CodeUnauthorized, errorMessage)
}

// Forbidden sends a 403 Forbidden error response.
func Forbidden(c *gin.Context, errorMessage string) {
	Error(c, http.StatusForbidden, errorMessage)
}

// NotFound sends a 404 Not Found error response.
func NotFound(c *gin.Context, errorMessage string) {
	ErrorWithCode(c, http.StatusNotFound, CodeNotFound, errorMessage)
}

// TooManyRequests sends a 429 response.
func TooManyRequests(c *gin.Context, errorMessage string) {
	ErrorWithCode(c, http.StatusTooManyRequests, CodeRateLimited, errorMessage)
}

// InternalServerError sends a 500 Internal Server Error response.
func InternalServerError(c *gin.Context, errorMessage string) {
	ErrorWithCode(c, http.StatusInternalServerError, CodeInternal, errorMessage)
}
