// Package apierror renders the uniform JSON error envelope and turns
// unhandled handler errors and panics into 500 responses.
package apierror

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"fiction_backend/internal/api"
)

const (
	internalMessage = "An unexpected error occurred"
	hiddenDetail    = "Please contact support"
)

// New builds an envelope whose error field is the standard status text.
func New(status int, message string) api.ErrorResponse {
	return api.ErrorResponse{Error: http.StatusText(status), Message: message}
}

// WithDetail builds an envelope carrying a detail string.
func WithDetail(status int, message, detail string) api.ErrorResponse {
	resp := New(status, message)
	resp.Detail = &detail
	return resp
}

// Abort writes the envelope and stops the handler chain.
func Abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, New(status, message))
}

// AbortWithDetail writes the envelope with detail and stops the handler chain.
func AbortWithDetail(c *gin.Context, status int, message, detail string) {
	c.AbortWithStatusJSON(status, WithDetail(status, message, detail))
}

// Handler returns a middleware that renders errors pushed with c.Error as 500
// when the handler did not write a response itself. The error text is only
// exposed when debug is true.
func Handler(debug bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		slog.Error("unhandled error",
			"error", err,
			"method", c.Request.Method,
			"path", c.FullPath(),
			"remote_addr", c.ClientIP(),
		)
		writeInternal(c, err.Error(), debug)
	}
}

// Recovery returns a panic recovery middleware that answers with the 500 envelope.
func Recovery(debug bool) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		slog.Error("panic recovered",
			"panic", recovered,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)
		writeInternal(c, fmt.Sprint(recovered), debug)
	})
}

// NotFound answers unknown routes with the envelope instead of gin's plain text.
func NotFound(c *gin.Context) {
	Abort(c, http.StatusNotFound, "Resource not found")
}

func writeInternal(c *gin.Context, detail string, debug bool) {
	if !debug {
		detail = hiddenDetail
	}
	AbortWithDetail(c, http.StatusInternalServerError, internalMessage, detail)
}
