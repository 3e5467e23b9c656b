package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	honeybadger "github.com/honeybadger-io/honeybadger-go"
	"github.com/sirupsen/logrus"
)

// HoneybadgerMiddleware sends error/warning notifications to Honeybadger.
// On panic, it notifies Honeybadger and re-panics to allow gin.Recovery to handle the response.
// With an empty apiKey the middleware only passes requests through.
func HoneybadgerMiddleware(apiKey, env string, logger *logrus.Logger) gin.HandlerFunc {
	if apiKey == "" {
		logger.Info("Honeybadger is not active. To enable error reporting, set the HONEYBADGER_API_KEY environment variable.")
		return func(c *gin.Context) {
			c.Next()
		}
	}

	honeybadger.Configure(honeybadger.Configuration{
		APIKey: apiKey,
		Env:    env,
	})

	logger.Info("Honeybadger error reporting is enabled.")

	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				honeybadger.Notify(fmt.Sprintf("Panic: %s %s", c.Request.Method, c.Request.URL.Path),
					c.Request, honeybadger.Context{"stack": string(debug.Stack())}, honeybadger.Tags{"panic", "http"})
				logger.Error("Recovered from panic, notified Honeybadger: ", rec)
				panic(rec)
			}
		}()

		c.Next()

		status := c.Writer.Status()
		if !reportable(status) {
			return
		}
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		if status >= http.StatusInternalServerError {
			honeybadger.Notify(fmt.Sprintf("Error: HTTP %d: %s %s", status, c.Request.Method, route),
				c.Request, honeybadger.Context{"errors": c.Errors.String()}, honeybadger.Tags{"5XX", "http"})
		} else {
			honeybadger.Notify(fmt.Sprintf("Warning: HTTP %d: %s %s", status, c.Request.Method, route), honeybadger.Tags{"4XX", "http"})
		}
		logger.Warnf("Honeybadger reported HTTP %d for %s %s", status, c.Request.Method, route)
	}
}

// reportable skips successes, missing notes and client timeouts.
func reportable(status int) bool {
	switch {
	case status < http.StatusBadRequest:
		return false
	case status == http.StatusNotFound, status == http.StatusGatewayTimeout:
		return false
	}
	return true
}
