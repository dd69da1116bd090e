// Package errors defines the API error taxonomy and the helpers that write
// the `{error:{code,message,details?}}` envelope.
package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes
const (
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeRoleRequired    = "ROLE_REQUIRED"
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodePolicyViolation = "POLICY_VIOLATION"
	ErrCodeUpstreamFailure = "UPSTREAM_FAILURE"
)

// APIError is the body of the error envelope.
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

type errorEnvelope struct {
	Error *APIError `json:"error"`
}

// RespondWithError writes an error envelope and stops the handler chain.
func RespondWithError(c *gin.Context, statusCode int, apiErr *APIError) {
	c.AbortWithStatusJSON(statusCode, errorEnvelope{Error: apiErr})
}

// Unauthorized sends a 401 response (no usable session).
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "authentication required"
	}
	RespondWithError(c, http.StatusUnauthorized, &APIError{Code: ErrCodeUnauthorized, Message: message})
}

// RoleRequired sends a 403 response with a distinct code so clients can route
// the user to role selection instead of a generic denial.
func RoleRequired(c *gin.Context) {
	RespondWithError(c, http.StatusForbidden, &APIError{
		Code:    ErrCodeRoleRequired,
		Message: "no role selected for this account",
	})
}

// Forbidden sends a 403 response.
func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "access denied"
	}
	RespondWithError(c, http.StatusForbidden, &APIError{Code: ErrCodeForbidden, Message: message})
}

// Validation sends a 400 response with optional field-level details.
func Validation(c *gin.Context, message string, details interface{}) {
	if message == "" {
		message = "invalid request"
	}
	RespondWithError(c, http.StatusBadRequest, &APIError{Code: ErrCodeValidation, Message: message, Details: details})
}

// NotFound sends a 404 response.
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "resource not found"
	}
	RespondWithError(c, http.StatusNotFound, &APIError{Code: ErrCodeNotFound, Message: message})
}

// PolicyViolation sends a 403 response for a refused status transition.
func PolicyViolation(c *gin.Context, message string) {
	RespondWithError(c, http.StatusForbidden, &APIError{Code: ErrCodePolicyViolation, Message: message})
}

// Upstream sends a 502 response. The underlying error is expected to have
// been logged by the caller; it is never included in the body.
func Upstream(c *gin.Context, message string) {
	if message == "" {
		message = "upstream service failed"
	}
	RespondWithError(c, http.StatusBadGateway, &APIError{Code: ErrCodeUpstreamFailure, Message: message})
}
