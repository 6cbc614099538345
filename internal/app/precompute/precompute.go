package precompute

import (
	"context"
	"fmt"

	"github.com/slok/stepviz/internal/catalog"
	"github.com/slok/stepviz/internal/engine"
	"github.com/slok/stepviz/internal/log"
	"github.com/slok/stepviz/internal/model"
	"github.com/slok/stepviz/internal/storage"
)

// ServiceConfig is the configuration for the precompute service.
type ServiceConfig struct {
	Registry   engine.Registry
	Catalog    *catalog.Catalog
	Engine     *engine.Engine
	Repository storage.Repository
	Logger     log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Registry == nil {
		return fmt.Errorf("registry is required")
	}
	if c.Catalog == nil {
		return fmt.Errorf("catalog is required")
	}
	if c.Engine == nil {
		return fmt.Errorf("engine is required")
	}
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Precompute"})
	return nil
}

// Service generates and persists a fixture for every registered algorithm,
// using each algorithm's catalog default inputs.
type Service struct {
	registry engine.Registry
	catalog  *catalog.Catalog
	engine   *engine.Engine
	repo     storage.Repository
	logger   log.Logger
}

// NewService creates a new precompute service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		registry: cfg.Registry,
		catalog:  cfg.Catalog,
		engine:   cfg.Engine,
		repo:     cfg.Repository,
		logger:   cfg.Logger,
	}, nil
}

// Run precomputes fixtures for all registered algorithms. Any failure aborts
// the whole run: a partially refreshed fixture set is worse than a stale one.
func (s *Service) Run(ctx context.Context) ([]model.SequenceRef, error) {
	defs := s.registry.Definitions()

	refs := make([]model.SequenceRef, 0, len(defs))
	for _, def := range defs {
		inputs, err := s.catalog.DefaultInputs(def.ID)
		if err != nil {
			return nil, fmt.Errorf("could not resolve default inputs for %s: %w", def.ID, err)
		}

		seq, err := s.engine.Run(ctx, def, inputs, engine.RunOptions{})
		if err != nil {
			return nil, fmt.Errorf("could not generate sequence for %s: %w", def.ID, err)
		}

		ref, err := s.repo.SaveSequence(ctx, *seq)
		if err != nil {
			return nil, fmt.Errorf("could not save sequence for %s: %w", def.ID, err)
		}

		s.logger.Infof("Precomputed %d steps for %s", ref.StepCount, def.ID)
		refs = append(refs, *ref)
	}

	return refs, nil
}
