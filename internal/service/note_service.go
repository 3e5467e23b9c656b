package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bassista/go_notes/internal/logger"
	"github.com/bassista/go_notes/internal/repository"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// CorruptPolicy selects what happens when the data file cannot be decoded.
type CorruptPolicy string

const (
	// CorruptPolicyFail surfaces ErrCorruptStore on every operation until the file is fixed.
	CorruptPolicyFail CorruptPolicy = "fail"
	// CorruptPolicyEmpty quarantines the file and continues with an empty collection.
	CorruptPolicyEmpty CorruptPolicy = "empty"
)

// Store health as last observed by the service.
const (
	StoreStatusOK          = "ok"
	StoreStatusCorrupt     = "corrupt"
	StoreStatusUnavailable = "unavailable"
)

// Store is the persistence contract the service needs.
type Store interface {
	repository.Loader
	repository.Saver
	Quarantine(ctx context.Context) (string, error)
}

// NoteInput is the client-editable part of a note.
type NoteInput struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// NoteService implements list/get/create/update/delete over a Store.
//
// Every operation loads the full collection, applies at most one mutation and
// saves it back while holding mu, so concurrent mutations are serialized and
// none of them can overwrite another (no lost updates). No collection state
// survives between calls.
type NoteService struct {
	mu        sync.Mutex
	store     Store
	policy    CorruptPolicy
	validator *validator.Validate
	now       func() time.Time
	newID     func() string
	status    atomic.Value
}

type Option func(*NoteService)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *NoteService) { s.now = now }
}

// WithIDGenerator overrides the identifier source.
func WithIDGenerator(newID func() string) Option {
	return func(s *NoteService) { s.newID = newID }
}

// WithCorruptPolicy sets the recovery policy for a corrupt data file.
func WithCorruptPolicy(p CorruptPolicy) Option {
	return func(s *NoteService) { s.policy = p }
}

func NewNoteService(store Store, opts ...Option) (*NoteService, error) {
	if store == nil {
		return nil, errors.New("store is nil")
	}
	s := &NoteService{
		store:     store,
		policy:    CorruptPolicyFail,
		validator: validator.New(),
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	switch s.policy {
	case CorruptPolicyFail, CorruptPolicyEmpty:
	default:
		return nil, fmt.Errorf("unknown corrupt policy %q", s.policy)
	}
	s.status.Store(StoreStatusOK)
	return s, nil
}

// List returns every note in insertion order. An empty store yields an empty, non-nil slice.
func (s *NoteService) List(ctx context.Context) (repository.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	notes, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return notes.Clone(), nil
}

func (s *NoteService) Get(ctx context.Context, id string) (repository.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	notes, err := s.load(ctx)
	if err != nil {
		return repository.Note{}, err
	}
	i := notes.IndexOf(id)
	if i < 0 {
		return repository.Note{}, ErrNotFound
	}
	return notes[i], nil
}

// Create appends a new note with a fresh id. The note is returned only once it is on disk.
func (s *NoteService) Create(ctx context.Context, in NoteInput) (repository.Note, error) {
	in, err := s.normalize(in)
	if err != nil {
		return repository.Note{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	notes, err := s.load(ctx)
	if err != nil {
		return repository.Note{}, err
	}

	id := s.newID()
	if notes.IndexOf(id) >= 0 {
		return repository.Note{}, fmt.Errorf("%w: generated id %s already exists", ErrPersistence, id)
	}

	ts := s.timestamp()
	note := repository.Note{
		ID:        id,
		Title:     in.Title,
		Content:   in.Content,
		CreatedAt: ts,
		UpdatedAt: ts,
	}

	if err := s.save(ctx, append(notes.Clone(), note)); err != nil {
		return repository.Note{}, err
	}
	logger.WithNote("note-service", id).Debug("note created")
	return note, nil
}

// Update replaces title and content in place and refreshes updatedAt.
// id and createdAt never change.
func (s *NoteService) Update(ctx context.Context, id string, in NoteInput) (repository.Note, error) {
	in, err := s.normalize(in)
	if err != nil {
		return repository.Note{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	notes, err := s.load(ctx)
	if err != nil {
		return repository.Note{}, err
	}
	i := notes.IndexOf(id)
	if i < 0 {
		return repository.Note{}, ErrNotFound
	}

	updated := notes.Clone()
	note := updated[i]
	note.Title = in.Title
	note.Content = in.Content
	note.UpdatedAt = s.timestamp()
	if note.UpdatedAt.Before(note.CreatedAt) {
		// wall clock stepped backwards
		note.UpdatedAt = note.CreatedAt
	}
	updated[i] = note

	if err := s.save(ctx, updated); err != nil {
		return repository.Note{}, err
	}
	logger.WithNote("note-service", id).Debug("note updated")
	return note, nil
}

// Delete removes exactly one note; the relative order of the rest is kept.
func (s *NoteService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	notes, err := s.load(ctx)
	if err != nil {
		return err
	}
	i := notes.IndexOf(id)
	if i < 0 {
		return ErrNotFound
	}

	if err := s.save(ctx, notes.Without(i)); err != nil {
		return err
	}
	logger.WithNote("note-service", id).Debug("note deleted")
	return nil
}

// StoreStatus reports the store health seen by the last load or watcher reload.
func (s *NoteService) StoreStatus() string {
	return s.status.Load().(string)
}

// StoreReloaded implements repository.ChangeObserver.
func (s *NoteService) StoreReloaded(notes repository.Collection) {
	s.status.Store(StoreStatusOK)
	logger.WithComponent("note-service").Debugf("data file changed on disk, %d notes", len(notes))
}

// StoreReloadFailed implements repository.ChangeObserver.
func (s *NoteService) StoreReloadFailed(err error) {
	if errors.Is(err, ErrCorruptStore) {
		s.status.Store(StoreStatusCorrupt)
		logger.WithComponent("note-service").WithError(err).Error("CorruptStore: data file changed on disk and is no longer a valid note collection")
		return
	}
	s.status.Store(StoreStatusUnavailable)
	logger.WithComponent("note-service").WithError(err).Error("data file changed on disk and could not be read")
}

func (s *NoteService) normalize(in NoteInput) (NoteInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	if err := s.validator.Struct(&in); err != nil {
		return NoteInput{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return in, nil
}

func (s *NoteService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

// load must be called with mu held.
func (s *NoteService) load(ctx context.Context) (repository.Collection, error) {
	notes, err := s.store.Load(ctx)
	if err == nil {
		s.status.Store(StoreStatusOK)
		return notes, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	if !errors.Is(err, ErrCorruptStore) {
		s.status.Store(StoreStatusUnavailable)
		logger.WithComponent("note-service").WithError(err).Error("failed to load notes")
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	logger.WithComponent("note-service").WithError(err).Error("CorruptStore: data file is not a valid note collection")
	if s.policy != CorruptPolicyEmpty {
		s.status.Store(StoreStatusCorrupt)
		return nil, err
	}

	target, qerr := s.store.Quarantine(ctx)
	if qerr != nil {
		s.status.Store(StoreStatusUnavailable)
		return nil, fmt.Errorf("%w: %w", ErrPersistence, qerr)
	}
	s.status.Store(StoreStatusOK)
	logger.WithComponent("note-service").Warnf("continuing with an empty collection, corrupt data kept at %s", target)
	return repository.Collection{}, nil
}

// save must be called with mu held.
func (s *NoteService) save(ctx context.Context, notes repository.Collection) error {
	if err := s.store.Save(ctx, notes); err != nil {
		logger.WithComponent("note-service").WithError(err).Error("failed to save notes")
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return nil
}
