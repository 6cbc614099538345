package storage

import (
	"context"

	"github.com/slok/stepviz/internal/model"
)

// Repository is the interface for step sequence fixture persistence.
//
// Fixtures are keyed by algorithm id: saving a sequence for an algorithm that
// already has one replaces it.
type Repository interface {
	SaveSequence(ctx context.Context, seq model.StepSequence) (*model.SequenceRef, error)
	GetSequence(ctx context.Context, algorithmID string) (*model.StepSequence, error)
	ListSequences(ctx context.Context) ([]model.SequenceRef, error)
	DeleteSequence(ctx context.Context, algorithmID string) error
}
