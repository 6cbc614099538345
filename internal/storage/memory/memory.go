package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/slok/stepviz/internal/log"
	"github.com/slok/stepviz/internal/model"
)

// RepositoryConfig is the configuration for the memory repository.
type RepositoryConfig struct {
	Logger log.Logger
}

func (c *RepositoryConfig) defaults() error {
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.Memory"})
	return nil
}

type record struct {
	ref model.SequenceRef
	seq model.StepSequence
}

// Repository is an in-memory implementation of storage.Repository.
type Repository struct {
	sequences map[string]record
	mu        sync.RWMutex
	logger    log.Logger
}

// NewRepository creates a new memory repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Repository{
		sequences: make(map[string]record),
		logger:    cfg.Logger,
	}, nil
}

// SaveSequence stores a sequence fixture, replacing any previous fixture for
// the same algorithm.
func (r *Repository) SaveSequence(ctx context.Context, seq model.StepSequence) (*model.SequenceRef, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ref := model.SequenceRef{
		ID:          ulid.Make().String(),
		AlgorithmID: seq.AlgorithmID,
		StepCount:   len(seq.Steps),
		GeneratedAt: seq.GeneratedAt,
		GeneratedBy: seq.GeneratedBy,
	}
	r.sequences[seq.AlgorithmID] = record{ref: ref, seq: seq}
	r.logger.Debugf("Saved sequence fixture for %s (%d steps)", seq.AlgorithmID, len(seq.Steps))

	refCopy := ref
	return &refCopy, nil
}

// GetSequence retrieves a sequence fixture by algorithm id.
func (r *Repository) GetSequence(ctx context.Context, algorithmID string) (*model.StepSequence, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.sequences[algorithmID]
	if !ok {
		return nil, fmt.Errorf("sequence for algorithm %s: %w", algorithmID, model.ErrNotFound)
	}

	// Return a copy.
	seqCopy := rec.seq
	return &seqCopy, nil
}

// ListSequences returns references to all stored fixtures.
func (r *Repository) ListSequences(ctx context.Context) ([]model.SequenceRef, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	refs := make([]model.SequenceRef, 0, len(r.sequences))
	for _, rec := range r.sequences {
		refs = append(refs, rec.ref)
	}

	return refs, nil
}

// DeleteSequence removes a sequence fixture by algorithm id.
func (r *Repository) DeleteSequence(ctx context.Context, algorithmID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sequences[algorithmID]; !ok {
		return fmt.Errorf("sequence for algorithm %s: %w", algorithmID, model.ErrNotFound)
	}

	delete(r.sequences, algorithmID)
	r.logger.Debugf("Deleted sequence fixture for %s", algorithmID)

	return nil
}
