package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/bassista/go_notes/internal/config"
	"github.com/bassista/go_notes/internal/logger"
	"github.com/bassista/go_notes/internal/repository"
	"github.com/bassista/go_notes/internal/service"
)

// App is the application container (immutable dependencies + lifecycle context).
// It is not a request context; handlers should still use gin's request context.
type App struct {
	Config *config.Config
	Repo   repository.Repository
	Notes  *service.NoteService

	BaseCtx context.Context
	Cancel  context.CancelFunc
}

func New(cfg *config.Config, repo repository.Repository, notes *service.NoteService) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if repo == nil {
		return nil, errors.New("repo is nil")
	}
	if notes == nil {
		return nil, errors.New("note service is nil")
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &App{
		Config:  cfg,
		Repo:    repo,
		Notes:   notes,
		BaseCtx: ctx,
		Cancel:  cancel,
	}, nil
}

func (a *App) Shutdown() {
	if a == nil || a.Cancel == nil {
		return
	}
	a.Cancel()
}

// StartWatchers starts the data file watcher when enabled. The watcher
// reports reloads to the note service and stops with BaseCtx.
func (a *App) StartWatchers() error {
	if !a.Config.Data.Watch {
		logger.WithComponent("app").Info("data file watcher disabled")
		return nil
	}
	if err := a.Repo.StartWatcher(a.BaseCtx, a.Notes); err != nil {
		return fmt.Errorf("cannot start data file watcher: %w", err)
	}
	return nil
}
