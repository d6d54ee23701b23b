// Package reference generates the human-readable reference numbers assigned
// to amendments on creation.
package reference

import (
	"context"
	"fmt"

	"github.com/fisworks/amendtrack/internal/models"
)

// SequenceStore reports the highest sequence already issued for a reference
// prefix. The amendment repository implements this over the amendments table.
type SequenceStore interface {
	// MaxSequence returns the highest numeric suffix among references
	// starting with prefix, or 0 when none exist.
	MaxSequence(ctx context.Context, prefix string) (int, error)
}

// Generator defines the interface for all reference number generators.
type Generator interface {
	// Name identifies the generation scheme.
	Name() string

	// Next produces the next unissued reference. Callers must persist the
	// result inside the same transaction as the MaxSequence read so the
	// unique constraint on the reference column backstops concurrent
	// writers.
	Next(ctx context.Context, store SequenceStore) (string, error)

	// Peek produces the reference Next would currently return without
	// reserving it.
	Peek(ctx context.Context, store SequenceStore) (string, error)
}

// ErrSequenceExhausted is returned when a date's sequence range is used up.
var ErrSequenceExhausted = fmt.Errorf("daily reference sequence exhausted: %w", models.ErrConflict)
