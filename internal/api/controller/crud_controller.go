package controller

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/bassista/go_notes/internal/logger"
	"github.com/containerd/errdefs"
	"github.com/gin-gonic/gin"
)

// CrudService defines the minimal interface required for CRUD operations.
// T is the stored resource, In the client-supplied payload.
type CrudService[T any, In any] interface {
	All(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (T, error)
	Create(ctx context.Context, in In) (T, error)
	Update(ctx context.Context, id string, in In) (T, error)
	Remove(ctx context.Context, id string) error
}

// CrudMessages holds the client-facing texts for one resource.
type CrudMessages struct {
	Invalid      string
	NotFound     string
	Corrupt      string
	ListFailed   string
	CreateFailed string
	UpdateFailed string
	DeleteFailed string
	Deleted      string
}

// CrudController provides generic CRUD handlers for resources.
type CrudController[T any, In any] struct {
	Service  CrudService[T, In]
	Messages CrudMessages
}

// RegisterCrudRoutes registers CRUD endpoints for a resource on the given router group.
func (cc *CrudController[T, In]) RegisterCrudRoutes(rg *gin.RouterGroup, resource string) {
	rg.GET("/"+resource, cc.GetAll)
	rg.GET("/"+resource+"/:id", cc.GetOne)
	rg.POST("/"+resource, cc.Create)
	rg.PUT("/"+resource+"/:id", cc.Update)
	rg.DELETE("/"+resource+"/:id", cc.Delete)
}

// GetAll handles GET requests to list all resources.
func (cc *CrudController[T, In]) GetAll(c *gin.Context) {
	items, err := cc.Service.All(c.Request.Context())
	if err != nil {
		cc.fail(c, err, cc.Messages.ListFailed)
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetOne handles GET requests for a single resource by id.
func (cc *CrudController[T, In]) GetOne(c *gin.Context) {
	item, err := cc.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		cc.fail(c, err, cc.Messages.ListFailed)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Create handles POST requests and answers 201 with the stored resource.
func (cc *CrudController[T, In]) Create(c *gin.Context) {
	in, ok := cc.bind(c)
	if !ok {
		return
	}
	item, err := cc.Service.Create(c.Request.Context(), in)
	if err != nil {
		cc.fail(c, err, cc.Messages.CreateFailed)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// Update handles PUT requests to replace the editable part of a resource.
func (cc *CrudController[T, In]) Update(c *gin.Context) {
	in, ok := cc.bind(c)
	if !ok {
		return
	}
	item, err := cc.Service.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		cc.fail(c, err, cc.Messages.UpdateFailed)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Delete handles DELETE requests to remove a resource by id.
func (cc *CrudController[T, In]) Delete(c *gin.Context) {
	if err := cc.Service.Remove(c.Request.Context(), c.Param("id")); err != nil {
		cc.fail(c, err, cc.Messages.DeleteFailed)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": cc.Messages.Deleted})
}

// bind decodes the JSON body. An empty body decodes to the zero payload so that
// the service reports the missing fields.
func (cc *CrudController[T, In]) bind(c *gin.Context) (In, bool) {
	var in In
	if err := c.ShouldBindJSON(&in); err != nil && !errors.Is(err, io.EOF) {
		logger.WithComponent("crud-controller").Debugf("invalid payload: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": cc.Messages.Invalid})
		return in, false
	}
	return in, true
}

// fail maps service errors onto HTTP statuses.
func (cc *CrudController[T, In]) fail(c *gin.Context, err error, serverMsg string) {
	switch {
	case errdefs.IsInvalidArgument(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": cc.Messages.Invalid})
	case errdefs.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": cc.Messages.NotFound})
	case c.Request.Context().Err() != nil:
		// RequestTimeout answers 504 once the handler returns
		logger.WithComponent("crud-controller").Warnf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	case errdefs.IsDataLoss(err):
		logger.WithComponent("crud-controller").Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": cc.Messages.Corrupt})
	default:
		logger.WithComponent("crud-controller").Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": serverMsg})
	}
}
