// Package sessions keeps suspended pipeline runs between the request that
// started them and the request that selects a candidate or cancels.
package sessions

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/ZahraAsadiMSFT/hr-modernization/internal/pipeline"
)

// ErrNotFound indicates the run is unknown or has expired.
var ErrNotFound = errors.New("suspended run not found")

// Store holds checkpoints of suspended runs.
type Store interface {
	Save(ctx context.Context, cp pipeline.Checkpoint) error
	Load(ctx context.Context, id uuid.UUID) (pipeline.Checkpoint, error)
	// Take loads and removes a checkpoint atomically, so a run is resumed
	// at most once.
	Take(ctx context.Context, id uuid.UUID) (pipeline.Checkpoint, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
