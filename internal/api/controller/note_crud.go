package controller

import (
	"context"

	"github.com/bassista/go_notes/internal/repository"
	"github.com/bassista/go_notes/internal/service"
)

// NoteStore is the service API needed by note handlers.
type NoteStore interface {
	List(ctx context.Context) (repository.Collection, error)
	Get(ctx context.Context, id string) (repository.Note, error)
	Create(ctx context.Context, in service.NoteInput) (repository.Note, error)
	Update(ctx context.Context, id string, in service.NoteInput) (repository.Note, error)
	Delete(ctx context.Context, id string) error
}

// NoteCrudService implements CrudService for notes.
type NoteCrudService struct {
	Store NoteStore
}

func (s *NoteCrudService) All(ctx context.Context) ([]repository.Note, error) {
	return s.Store.List(ctx)
}

func (s *NoteCrudService) Get(ctx context.Context, id string) (repository.Note, error) {
	return s.Store.Get(ctx, id)
}

func (s *NoteCrudService) Create(ctx context.Context, in service.NoteInput) (repository.Note, error) {
	return s.Store.Create(ctx, in)
}

func (s *NoteCrudService) Update(ctx context.Context, id string, in service.NoteInput) (repository.Note, error) {
	return s.Store.Update(ctx, id, in)
}

func (s *NoteCrudService) Remove(ctx context.Context, id string) error {
	return s.Store.Delete(ctx, id)
}
