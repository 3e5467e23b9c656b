package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const defaultAllowHeaders = "Origin, Content-Type, Accept, Authorization"

// CORSMiddleware returns a Gin middleware that handles CORS preflight and headers.
// allowedOrigins is a comma-separated list of allowed origins, or "*" for all.
// Requests from origins outside the list get no CORS headers and are otherwise served normally.
func CORSMiddleware(allowedOrigins string) gin.HandlerFunc {
	allowAll := strings.TrimSpace(allowedOrigins) == "*"
	allowed := map[string]struct{}{}
	for _, o := range strings.Split(allowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" && o != "*" {
			allowed[o] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			c.Next()
			return
		}

		if allowAll {
			c.Header("Access-Control-Allow-Origin", "*")
		} else if _, ok := allowed[origin]; ok {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Vary", "Origin")
		} else {
			c.Next()
			return
		}

		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		if requested := c.Request.Header.Get("Access-Control-Request-Headers"); requested != "" {
			c.Header("Access-Control-Allow-Headers", requested)
		} else {
			c.Header("Access-Control-Allow-Headers", defaultAllowHeaders)
		}
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
