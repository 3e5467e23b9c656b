package repository

import "context"

// Loader reads the full collection.
type Loader interface {
	Load(ctx context.Context) (Collection, error)
}

// Saver persists the full collection, replacing whatever was stored before.
type Saver interface {
	Save(ctx context.Context, notes Collection) error
}

// ChangeObserver receives the outcome of reloading the data file after it
// changed on disk.
type ChangeObserver interface {
	StoreReloaded(notes Collection)
	StoreReloadFailed(err error)
}

// Repository abstracts persistence and watching of the data file.
// JSONRepository implements this interface.
type Repository interface {
	Loader
	Saver
	Quarantine(ctx context.Context) (string, error)
	StartWatcher(ctx context.Context, observer ChangeObserver) error
}
