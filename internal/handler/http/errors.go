package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	codeValidationFailed = "VALIDATION_FAILED"
	codeInvalidRequest   = "INVALID_REQUEST"
	codeNotFound         = "NOT_FOUND"
	codeInternalError    = "INTERNAL_ERROR"
)

// Response messages surfaced to API clients
const (
	msgInvalidBody    = "Invalid request body"
	msgValidation     = "Validation failed"
	msgInvalidDays    = "Days must be a non-negative number."
	msgDaysTooLarge   = "Days must not exceed 3650."
	msgNoRecentOrders = "No recent orders found"
	msgSubmitFailed   = "An error occurred while submitting the order."
	msgRecentFailed   = "Internal server error"
	msgListFailed     = "An error occurred while getting orders."
	msgRouteNotFound  = "Resource not found"
	msgProblemTitle   = "An error occurred while processing your request."
)

type errorResponse struct {
	Error  string            `json:"error"`
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields,omitempty"`
}

// problemDetails is an RFC 7807 document
type problemDetails struct {
	Type      string `json:"type"`
	Title     string `json:"title"`
	Status    int    `json:"status"`
	RequestID string `json:"request_id,omitempty"`
}

func writeError(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, errorResponse{
		Error: msg,
		Code:  code,
	})
}

func writeValidationError(c *gin.Context, fields map[string]string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{
		Error:  msgValidation,
		Code:   codeValidationFailed,
		Fields: fields,
	})
}

func writeProblem(c *gin.Context) {
	c.Header("Content-Type", "application/problem+json")
	c.AbortWithStatusJSON(http.StatusInternalServerError, problemDetails{
		Type:      "https://tools.ietf.org/html/rfc7231#section-6.6.1",
		Title:     msgProblemTitle,
		Status:    http.StatusInternalServerError,
		RequestID: c.GetString(requestIDKey),
	})
}
