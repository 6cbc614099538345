package verify

import (
	"context"
	"fmt"

	"github.com/slok/stepviz/internal/log"
	"github.com/slok/stepviz/internal/model"
	"github.com/slok/stepviz/internal/storage"
	"github.com/slok/stepviz/internal/validate"
)

// ServiceConfig is the configuration for the verify service.
type ServiceConfig struct {
	Repository storage.Repository
	Logger     log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Verify"})
	return nil
}

// Service re-validates packaged step sequences against the full invariant
// set, e.g. fixtures that were persisted by an older runtime version or
// edited by hand.
type Service struct {
	repo   storage.Repository
	logger log.Logger
}

// NewService creates a new verify service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:   cfg.Repository,
		logger: cfg.Logger,
	}, nil
}

// Request represents a verification request.
type Request struct {
	AlgorithmID string
}

// Run loads the stored fixture for the requested algorithm and validates it.
func (s *Service) Run(ctx context.Context, req Request) (*model.StepSequence, error) {
	seq, err := s.repo.GetSequence(ctx, req.AlgorithmID)
	if err != nil {
		return nil, fmt.Errorf("could not load sequence: %w", err)
	}

	if err := s.Sequence(seq); err != nil {
		return nil, err
	}

	s.logger.Infof("Sequence for %s is valid (%d steps)", seq.AlgorithmID, len(seq.Steps))

	return seq, nil
}

// Sequence validates an already loaded artifact, e.g. one decoded from a
// file instead of the repository.
func (s *Service) Sequence(seq *model.StepSequence) error {
	if err := validate.Artifact(seq); err != nil {
		return fmt.Errorf("sequence is invalid: %w", err)
	}
	return nil
}
