package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func corsRouter(allowed string) *gin.Engine {
	r := gin.New()
	r.Use(CORSMiddleware(allowed))
	r.GET("/test", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.PUT("/test", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	return r
}

func requestFrom(method, origin string) *http.Request {
	req := httptest.NewRequest(method, "/test", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	return req
}

func TestCORSMiddleware_AllowAll(t *testing.T) {
	w := serve(corsRouter("*"), requestFrom(http.MethodGet, "http://example.com"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEqual(t, "Origin", w.Header().Get("Vary"), "wildcard responses do not vary by origin")
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"), "credentials are never allowed with a wildcard")
}

func TestCORSMiddleware_SpecificOrigin_Allowed(t *testing.T) {
	w := serve(corsRouter("http://allowed.com,http://also-allowed.com"), requestFrom(http.MethodGet, "http://allowed.com"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://allowed.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Origin", w.Header().Get("Vary"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORSMiddleware_SpecificOrigin_NotAllowed(t *testing.T) {
	w := serve(corsRouter("http://allowed.com"), requestFrom(http.MethodGet, "http://not-allowed.com"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	req := requestFrom(http.MethodOptions, "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "PUT")

	w := serve(corsRouter("*"), req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PUT")
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "DELETE")
	assert.Equal(t, defaultAllowHeaders, w.Header().Get("Access-Control-Allow-Headers"))
}

func TestCORSMiddleware_PreflightWithRequestHeaders(t *testing.T) {
	req := requestFrom(http.MethodOptions, "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "X-Custom-Header, X-Another")

	w := serve(corsRouter("*"), req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "X-Custom-Header, X-Another", w.Header().Get("Access-Control-Allow-Headers"))
}

func TestCORSMiddleware_NoOriginHeader(t *testing.T) {
	w := serve(corsRouter("http://allowed.com"), requestFrom(http.MethodGet, ""))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSMiddleware_EmptyAllowedOrigins(t *testing.T) {
	w := serve(corsRouter(""), requestFrom(http.MethodGet, "http://example.com"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSMiddleware_WhitespaceInOrigins(t *testing.T) {
	w := serve(corsRouter("  http://a.com  ,  http://b.com  "), requestFrom(http.MethodGet, "http://b.com"))

	assert.Equal(t, "http://b.com", w.Header().Get("Access-Control-Allow-Origin"))
}
