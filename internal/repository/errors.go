package repository

import (
	"fmt"

	"github.com/containerd/errdefs"
)

// ErrCorruptStore means the data file exists but does not hold a valid collection.
var ErrCorruptStore = fmt.Errorf("note store is corrupt: %w", errdefs.ErrDataLoss)
