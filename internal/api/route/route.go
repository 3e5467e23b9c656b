package route

import (
	"github.com/bassista/go_notes/internal/api/controller"
	"github.com/bassista/go_notes/internal/api/middleware"
	"github.com/bassista/go_notes/internal/app"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SetupRoutes builds the main engine: middleware, health probe, the note API
// under /api and the optional static UI.
func SetupRoutes(appCtx *app.App, logger *logrus.Logger) *gin.Engine {
	cfg := appCtx.Config

	r := gin.New()
	r.Use(gin.LoggerWithWriter(logger.Writer()))
	r.Use(middleware.CORSMiddleware(cfg.Server.CORSAllowedOrigins))
	r.Use(middleware.HoneybadgerMiddleware(cfg.Misc.HoneybadgerAPIKey, cfg.Misc.Environment, logger))
	r.Use(gin.Recovery())

	r.GET("/health", controller.NewHealthController(appCtx.Notes).Health)

	api := r.Group("/api")
	NewNoteRouter(cfg.Server.RequestTimeout, api, appCtx.Notes)

	NewUIRouter(r, cfg.Misc.StaticDir)

	return r
}
