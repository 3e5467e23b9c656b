package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/bassista/go_notes/internal/logger"
	"github.com/gin-gonic/gin"
)

// RequestTimeout sets a per-request context deadline.
// It does NOT forcibly kill the handler; downstream code must honor ctx.Done().
// The note service checks the context before touching the data file, so a
// request that expires while queued behind another writer never writes.
func RequestTimeout(d time.Duration) gin.HandlerFunc {
	if d <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		// Only answer when the handler wrote nothing; a started response cannot be replaced.
		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			logger.WithComponent("timeout").Warnf("%s %s exceeded %v", c.Request.Method, c.Request.URL.Path, d)
			c.AbortWithStatusJSON(http.StatusGatewayTimeout, gin.H{
				"error": "request timeout",
			})
		}
	}
}
