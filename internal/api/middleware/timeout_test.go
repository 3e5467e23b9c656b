package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequestTimeout_NonPositiveDurationIsNoop(t *testing.T) {
	for _, d := range []time.Duration{0, -1 * time.Second} {
		r := gin.New()
		r.Use(RequestTimeout(d))
		var hasDeadline bool
		r.GET("/test", func(c *gin.Context) {
			_, hasDeadline = c.Request.Context().Deadline()
			c.String(http.StatusOK, "ok")
		})

		w := serve(r, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.False(t, hasDeadline, "duration %v must not set a deadline", d)
	}
}

func TestRequestTimeout_ContextHasDeadline(t *testing.T) {
	r := gin.New()
	r.Use(RequestTimeout(5 * time.Second))

	var hasDeadline bool
	r.GET("/test", func(c *gin.Context) {
		_, hasDeadline = c.Request.Context().Deadline()
		c.String(http.StatusOK, "ok")
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, hasDeadline)
}

func TestRequestTimeout_TimeoutTriggered(t *testing.T) {
	r := gin.New()
	r.Use(RequestTimeout(50 * time.Millisecond))
	r.GET("/test", func(c *gin.Context) {
		select {
		case <-time.After(200 * time.Millisecond):
			c.String(http.StatusOK, "ok")
		case <-c.Request.Context().Done():
			return
		}
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.JSONEq(t, `{"error":"request timeout"}`, w.Body.String())
}

func TestRequestTimeout_HandlerWritesBeforeTimeout(t *testing.T) {
	r := gin.New()
	r.Use(RequestTimeout(100 * time.Millisecond))
	r.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
		time.Sleep(150 * time.Millisecond)
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusOK, w.Code, "a written response must not be overridden")
}
