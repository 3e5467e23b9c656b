package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"
	"time"

	"github.com/bassista/go_notes/internal/logger"
	"github.com/fsnotify/fsnotify"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/spf13/afero"
)

// collectionDocument is the validation envelope for a Collection.
type collectionDocument struct {
	Notes Collection `validate:"unique=ID,dive"`
}

// JSONRepository handles disk persistence and watching of the data file.
type JSONRepository struct {
	fs        afero.Fs
	path      string
	dir       string
	base      string
	validator *validator.Validate
	mu        sync.Mutex
	debounce  time.Duration
}

// NewJSONRepository creates a repository for the given JSON file path on fsys.
// It returns the repository interface to avoid leaking implementation details.
func NewJSONRepository(fsys afero.Fs, path string) (Repository, error) {
	if fsys == nil {
		return nil, errors.New("filesystem is required")
	}
	if path == "" {
		return nil, errors.New("data file path is required")
	}

	dir := filepath.Dir(path)
	if dir == "" {
		dir = "."
	}

	return &JSONRepository{
		fs:        fsys,
		path:      path,
		dir:       dir,
		base:      filepath.Base(path),
		validator: newValidator(),
		debounce:  200 * time.Millisecond,
	}, nil
}

// Load reads the data file and decodes it into a Collection.
// A missing file is initialized to an empty collection first.
// Content that is not a valid collection yields ErrCorruptStore.
func (r *JSONRepository) Load(ctx context.Context) (Collection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadUnlocked()
}

// loadUnlocked reads the data file without acquiring the lock (caller must hold it).
func (r *JSONRepository) loadUnlocked() (Collection, error) {
	payload, err := afero.ReadFile(r.fs, r.path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.WithComponent("json-repo").Infof("data file %s not found, initializing empty collection", r.path)
		if err := r.saveUnlocked(Collection{}); err != nil {
			return nil, fmt.Errorf("initialize data file: %w", err)
		}
		return Collection{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read data file: %w", err)
	}

	var notes Collection
	if err := json.Unmarshal(payload, &notes); err != nil {
		return nil, fmt.Errorf("decode data file %s: %w: %w", r.path, ErrCorruptStore, err)
	}
	if notes == nil {
		return nil, fmt.Errorf("decode data file %s: %w: not a JSON array", r.path, ErrCorruptStore)
	}
	if err := r.validate(notes); err != nil {
		return nil, fmt.Errorf("validate data file %s: %w: %w", r.path, ErrCorruptStore, err)
	}

	return notes, nil
}

// Save validates and writes the collection atomically to disk.
func (r *JSONRepository) Save(ctx context.Context, notes Collection) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if notes == nil {
		return errors.New("collection is nil")
	}
	if err := r.validate(notes); err != nil {
		return fmt.Errorf("validate before save: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saveUnlocked(notes)
}

// newValidator registers notblank so whitespace-only titles and contents are rejected.
func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

func (r *JSONRepository) validate(notes Collection) error {
	return r.validator.Struct(&collectionDocument{Notes: notes})
}

// saveUnlocked writes the collection without acquiring the lock (caller must hold it).
// The new content goes to a temp file in the same directory and is renamed over
// the target, so a failed write leaves the previous file untouched.
func (r *JSONRepository) saveUnlocked(notes Collection) error {
	payload, err := json.MarshalIndent(notes, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal data: %w", err)
	}

	if err := r.fs.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tmpFile, err := afero.TempFile(r.fs, r.dir, r.base+".tmp-")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmpFile.Name()
	defer func() {
		tmpFile.Close()
		r.fs.Remove(tmpName)
	}()

	if _, err := tmpFile.Write(payload); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := r.fs.Rename(tmpName, r.path); err != nil {
		return fmt.Errorf("replace data file: %w", err)
	}

	return nil
}

// Quarantine moves the current data file aside as <file>.corrupt-<unixmillis>
// and starts over with an empty collection. It returns the quarantine path.
func (r *JSONRepository) Quarantine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	target := fmt.Sprintf("%s.corrupt-%d", r.path, time.Now().UnixMilli())
	if err := r.fs.Rename(r.path, target); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("quarantine data file: %w", err)
	}
	if err := r.saveUnlocked(Collection{}); err != nil {
		return "", fmt.Errorf("reset data file: %w", err)
	}

	logger.WithComponent("json-repo").Warnf("corrupt data file moved to %s", target)
	return target, nil
}

// StartWatcher listens for changes to the data file and reports reload outcomes to observer after debounce.
// It watches the parent directory (not the file) so atomic replace sequences (temp+rename)
// are still observed on Linux and Windows. Events are filtered by basename and
// debounced to avoid double reloads on write+chmod/rename cycles. The caller owns the
// provided context: cancel it to stop the goroutine and close the watcher cleanly.
// Watching needs a real directory, so the repository must sit on an OS-backed filesystem.
func (r *JSONRepository) StartWatcher(ctx context.Context, observer ChangeObserver) error {
	if observer == nil {
		return errors.New("observer is required")
	}
	onChange := r.MakeWatcherCallback(observer)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(r.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch dir: %w", err)
	}

	go func() {
		defer watcher.Close()

		var debounce *time.Timer
		defer func() {
			if debounce != nil {
				debounce.Stop()
			}
		}()
		schedule := func() {
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(r.debounce, func() {
				if ctx.Err() == nil {
					onChange()
				}
			})
		}

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != r.base {
					continue
				}
				// Remove/Rename means the file was replaced; the reload picks up the new one.
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Chmod|fsnotify.Remove|fsnotify.Rename) != 0 {
					schedule()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.WithComponent("json-repo").Errorf("watcher error: %v", err)
			}
		}
	}()

	return nil
}

// MakeWatcherCallback returns the reload callback used by the watcher.
func (r *JSONRepository) MakeWatcherCallback(observer ChangeObserver) func() {
	return func() {
		notes, err := r.Load(context.Background())
		if err != nil {
			observer.StoreReloadFailed(err)
			return
		}
		observer.StoreReloaded(notes)
	}
}
