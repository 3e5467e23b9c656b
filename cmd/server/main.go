package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"syscall"

	route "github.com/bassista/go_notes/internal/api/route"
	appctx "github.com/bassista/go_notes/internal/app"
	"github.com/bassista/go_notes/internal/config"
	"github.com/bassista/go_notes/internal/logger"
	"github.com/bassista/go_notes/internal/repository"
	"github.com/bassista/go_notes/internal/service"
	"github.com/enrichman/httpgrace"
	"github.com/gin-gonic/gin"
	"github.com/spf13/afero"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the configuration and applies its log level.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	applyLogLevel(cfg.Misc.LogLevel)
	return cfg, nil
}

// applyLogLevel switches to the configured level. An empty level keeps the
// one chosen at startup from LOG_LEVEL.
func applyLogLevel(level string) {
	if level != "" {
		if err := logger.SetLevel(level); err != nil {
			logger.WithComponent("main").Warnf("invalid log level '%s', keeping '%s': %v", level, logger.Logger.GetLevel(), err)
		}
	}
	logger.WithComponent("main").Debugf("log level set to: %s", logger.Logger.GetLevel())
}

func serve() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger.WithComponent("main").Infof("App will run on port: %d", cfg.Server.Port)
	logger.WithComponent("main").Infof("Notes are stored in: %s", cfg.Data.FilePath)

	repo, err := repository.NewJSONRepository(afero.NewOsFs(), cfg.Data.FilePath)
	if err != nil {
		return fmt.Errorf("cannot init repository: %w", err)
	}

	notes, err := service.NewNoteService(repo, service.WithCorruptPolicy(service.CorruptPolicy(cfg.Data.CorruptPolicy)))
	if err != nil {
		return fmt.Errorf("cannot init note service: %w", err)
	}

	// A corrupt file is reported here but does not stop startup: requests
	// answer according to the corrupt policy and /health reports it.
	if all, err := notes.List(context.Background()); err != nil {
		logger.WithComponent("main").WithError(err).Error("initial load of the data file failed")
	} else {
		logger.WithComponent("main").Infof("loaded %d notes", len(all))
	}

	app, err := appctx.New(cfg, repo, notes)
	if err != nil {
		return fmt.Errorf("cannot init app: %w", err)
	}
	defer app.Shutdown()

	if err := app.StartWatchers(); err != nil {
		return err
	}

	gin.SetMode(cfg.Misc.GinMode)
	gin.DefaultWriter = logger.Logger.Writer()
	gin.DefaultErrorWriter = logger.Logger.Writer()

	r := route.SetupRoutes(app, logger.Logger)
	srv := createGraceHttpServer(app.BaseCtx, "main-server", cfg.Server, r)

	if err := srv.ListenAndServe(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func createGraceHttpServer(ctx context.Context, name string, serverConfig config.ServerConfig, r *gin.Engine) *httpgrace.Server {
	slogLogger := slog.New(slog.NewTextHandler(logger.Logger.Writer(), nil))

	srv := httpgrace.NewServer(r,
		httpgrace.WithTimeout(serverConfig.ShutDownTimeout),
		httpgrace.WithSignals(syscall.SIGTERM, syscall.SIGINT),
		httpgrace.WithLogger(slogLogger),
		httpgrace.WithBeforeShutdown(func() {
			logger.WithComponent("http").Infof("Shutting down %s server....", name)
		}),
		httpgrace.WithServerOptions(
			httpgrace.WithReadTimeout(serverConfig.ReadTimeout),
			httpgrace.WithWriteTimeout(serverConfig.WriteTimeout),
			httpgrace.WithIdleTimeout(serverConfig.IdleTimeout),
			func(srv *http.Server) {
				srv.BaseContext = func(_ net.Listener) context.Context {
					return ctx
				}
			},
			func(srv *http.Server) {
				srv.ErrorLog = log.New(logger.Logger.Writer(), fmt.Sprintf("[%s] ", name), log.LstdFlags)
			},
		),
	)
	return srv
}
