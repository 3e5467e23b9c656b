package service

import (
	"fmt"

	"github.com/bassista/go_notes/internal/repository"
	"github.com/containerd/errdefs"
)

var (
	ErrInvalidInput = fmt.Errorf("title and content are required: %w", errdefs.ErrInvalidArgument)
	ErrNotFound     = fmt.Errorf("note not found: %w", errdefs.ErrNotFound)
	ErrPersistence  = fmt.Errorf("note store unavailable: %w", errdefs.ErrUnavailable)

	// ErrCorruptStore is re-exported so callers need not import repository.
	ErrCorruptStore = repository.ErrCorruptStore
)
