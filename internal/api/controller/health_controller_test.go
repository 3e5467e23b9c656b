package controller

import (
	"net/http"
	"testing"

	"github.com/bassista/go_notes/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fixedStatus string

func (f fixedStatus) StoreStatus() string { return string(f) }

func TestHealthController_Health(t *testing.T) {
	tests := []struct {
		name           string
		status         string
		expectedStatus int
		expectedBody   string
	}{
		{"store ok", service.StoreStatusOK, http.StatusOK, `{"message":"UP","store":"ok"}`},
		{"store corrupt", service.StoreStatusCorrupt, http.StatusServiceUnavailable, `{"message":"DEGRADED","store":"corrupt"}`},
		{"store unavailable", service.StoreStatusUnavailable, http.StatusServiceUnavailable, `{"message":"DEGRADED","store":"unavailable"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/health", NewHealthController(fixedStatus(tt.status)).Health)

			w := doRequest(r, http.MethodGet, "/health", "")

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}
