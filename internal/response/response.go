package response

import (
	"time"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the error wire shape consumed by the authoring UI. Details
// always carries the underlying failure message.
type ErrorBody struct {
	Error     string `json:"error"`
	Details   string `json:"details"`
	Timestamp string `json:"timestamp"`
}

// HealthBody is the liveness probe wire shape.
type HealthBody struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Error sends a structured error response.
func Error(c *gin.Context, statusCode int, message, details string) {
	c.JSON(statusCode, ErrorBody{
		Error:     message,
		Details:   details,
		Timestamp: now(),
	})
}

// AbortError aborts the middleware chain with a structured error response.
func AbortError(c *gin.Context, statusCode int, message, details string) {
	c.AbortWithStatusJSON(statusCode, ErrorBody{
		Error:     message,
		Details:   details,
		Timestamp: now(),
	})
}

// Health sends the liveness probe body.
func Health(c *gin.Context, statusCode int, status, message string) {
	c.JSON(statusCode, HealthBody{
		Status:    status,
		Message:   message,
		Timestamp: now(),
	})
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
