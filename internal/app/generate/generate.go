package generate

import (
	"context"
	"fmt"

	"github.com/slok/stepviz/internal/catalog"
	"github.com/slok/stepviz/internal/engine"
	"github.com/slok/stepviz/internal/log"
	"github.com/slok/stepviz/internal/model"
)

// ServiceConfig is the configuration for the generate service.
type ServiceConfig struct {
	Registry engine.Registry
	Catalog  *catalog.Catalog
	Engine   *engine.Engine
	Logger   log.Logger
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
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Generate"})
	return nil
}

// Service handles single-run generation business logic.
type Service struct {
	registry engine.Registry
	catalog  *catalog.Catalog
	engine   *engine.Engine
	logger   log.Logger
}

// NewService creates a new generate service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		registry: cfg.Registry,
		catalog:  cfg.Catalog,
		engine:   cfg.Engine,
		logger:   cfg.Logger,
	}, nil
}

// Request represents a generation request.
type Request struct {
	// AlgorithmID selects the producer.
	AlgorithmID string
	// Inputs are the run parameters. Nil means the algorithm's catalog
	// defaults.
	Inputs model.Inputs
	// MaxSteps overrides the runaway-producer ceiling. Zero means the engine
	// default.
	MaxSteps int
}

// Run generates a validated step sequence for the requested algorithm.
func (s *Service) Run(ctx context.Context, req Request) (*model.StepSequence, error) {
	def, err := s.registry.Definition(req.AlgorithmID)
	if err != nil {
		return nil, fmt.Errorf("could not resolve producer: %w", err)
	}

	inputs := req.Inputs
	if inputs == nil {
		inputs, err = s.catalog.DefaultInputs(req.AlgorithmID)
		if err != nil {
			return nil, fmt.Errorf("could not resolve default inputs: %w", err)
		}
		s.logger.Debugf("Using default inputs for %s", req.AlgorithmID)
	}

	seq, err := s.engine.Run(ctx, def, inputs, engine.RunOptions{MaxSteps: req.MaxSteps})
	if err != nil {
		return nil, fmt.Errorf("could not generate sequence: %w", err)
	}

	s.logger.Infof("Generated %d steps for algorithm %s", len(seq.Steps), seq.AlgorithmID)

	return seq, nil
}
