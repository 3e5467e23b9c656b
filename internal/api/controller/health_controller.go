package controller

import (
	"net/http"

	"github.com/bassista/go_notes/internal/service"
	"github.com/gin-gonic/gin"
)

// StoreStatusProvider reports the last observed health of the note store.
type StoreStatusProvider interface {
	StoreStatus() string
}

// HealthResponse represents the health payload.
type HealthResponse struct {
	Message string `json:"message"`
	Store   string `json:"store"`
}

// HealthController handles the liveness endpoint.
type HealthController struct {
	status StoreStatusProvider
}

// NewHealthController creates a new HealthController.
func NewHealthController(status StoreStatusProvider) *HealthController {
	return &HealthController{status: status}
}

// Health answers 200 while the store is usable and 503 once it was seen corrupt or unreadable.
func (hc *HealthController) Health(c *gin.Context) {
	store := hc.status.StoreStatus()
	if store != service.StoreStatusOK {
		c.JSON(http.StatusServiceUnavailable, HealthResponse{Message: "DEGRADED", Store: store})
		return
	}
	c.JSON(http.StatusOK, HealthResponse{Message: "UP", Store: store})
}
