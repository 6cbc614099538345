package lib

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/slok/stepviz/internal/algorithms"
	"github.com/slok/stepviz/internal/app/generate"
	"github.com/slok/stepviz/internal/app/precompute"
	"github.com/slok/stepviz/internal/app/verify"
	"github.com/slok/stepviz/internal/catalog"
	"github.com/slok/stepviz/internal/conventions"
	"github.com/slok/stepviz/internal/engine"
	"github.com/slok/stepviz/internal/log"
	"github.com/slok/stepviz/internal/model"
	"github.com/slok/stepviz/internal/storage"
	"github.com/slok/stepviz/internal/storage/sqlite"
)

// Config configures the SDK client.
//
// All fields are optional and have sensible defaults. At minimum, an empty
// Config{} will use ~/.stepviz/stepviz.db for fixture storage.
type Config struct {
	// DBPath is the SQLite fixture database path.
	// Default: ~/.stepviz/stepviz.db.
	DBPath string

	// DataDir is the base directory for stepviz data.
	// Default: ~/.stepviz.
	DataDir string

	// Logger receives structured log output from the SDK.
	// Default: noop (silent). See the log sub-package for the interface.
	Logger log.Logger
}

func (c *Config) defaults() error {
	if c.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("could not get user home dir: %w", err)
		}
		c.DataDir = filepath.Join(home, conventions.DefaultDataDir)
	}

	if c.DBPath == "" {
		c.DBPath = conventions.DBPath(c.DataDir)
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}

	return nil
}

// Client is the main SDK entry point for generating and validating step
// sequences programmatically.
//
// Create a Client with [New] and release its resources with [Client.Close].
// A Client is safe for concurrent use.
type Client struct {
	catalog    *catalog.Catalog
	generate   *generate.Service
	precompute *precompute.Service
	verify     *verify.Service
	repo       storage.Repository
	logger     log.Logger
	closeFn    func() error
}

// New creates a new SDK client backed by a SQLite fixture database.
//
// The caller must call [Client.Close] when done to release the database
// connection. Typically used with defer:
//
//	client, err := lib.New(ctx, lib.Config{})
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
func New(ctx context.Context, cfg Config) (*Client, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cat, err := catalog.New(catalog.Config{Logger: cfg.Logger})
	if err != nil {
		return nil, fmt.Errorf("could not load catalog: %w", err)
	}

	registry := algorithms.NewRegistry()

	eng, err := engine.NewEngine(engine.Config{Logger: cfg.Logger})
	if err != nil {
		return nil, fmt.Errorf("could not create engine: %w", err)
	}

	repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
		DBPath: cfg.DBPath,
		Logger: cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create repository: %w", err)
	}

	genSvc, err := generate.NewService(generate.ServiceConfig{
		Registry: registry,
		Catalog:  cat,
		Engine:   eng,
		Logger:   cfg.Logger,
	})
	if err != nil {
		repo.Close()
		return nil, fmt.Errorf("could not create generate service: %w", err)
	}

	preSvc, err := precompute.NewService(precompute.ServiceConfig{
		Registry:   registry,
		Catalog:    cat,
		Engine:     eng,
		Repository: repo,
		Logger:     cfg.Logger,
	})
	if err != nil {
		repo.Close()
		return nil, fmt.Errorf("could not create precompute service: %w", err)
	}

	verSvc, err := verify.NewService(verify.ServiceConfig{
		Repository: repo,
		Logger:     cfg.Logger,
	})
	if err != nil {
		repo.Close()
		return nil, fmt.Errorf("could not create verify service: %w", err)
	}

	return &Client{
		catalog:    cat,
		generate:   genSvc,
		precompute: preSvc,
		verify:     verSvc,
		repo:       repo,
		logger:     cfg.Logger,
		closeFn:    repo.Close,
	}, nil
}

// Close releases resources held by the client, including the database connection.
// After Close returns, the client must not be used.
func (c *Client) Close() error {
	if c.closeFn != nil {
		return c.closeFn()
	}
	return nil
}

// Algorithms lists the catalog. Pass an empty category to list all algorithms.
func (c *Client) Algorithms(category AlgorithmCategory) []AlgorithmInfo {
	return fromInternalInfoList(c.catalog.List(model.AlgorithmCategory(category)))
}

// Algorithm returns the catalog metadata of a single algorithm.
//
// Returns [ErrNotFound] if the algorithm does not exist.
func (c *Client) Algorithm(id string) (*AlgorithmInfo, error) {
	info, err := c.catalog.Get(id)
	if err != nil {
		return nil, mapError(err)
	}

	result := fromInternalInfo(*info)
	return &result, nil
}

// DefaultInputs returns the catalog default inputs of an algorithm.
//
// Returns [ErrNotFound] if the algorithm does not exist.
func (c *Client) DefaultInputs(id string) (Inputs, error) {
	inputs, err := c.catalog.DefaultInputs(id)
	if err != nil {
		return nil, mapError(err)
	}
	return inputs, nil
}

// Generate runs an algorithm's producer and returns the validated sequence.
//
// Pass nil opts to use the catalog default inputs and the engine's default
// step limit.
//
// Returns [ErrNotFound] if the algorithm does not exist, or [ErrGeneration]
// if the producer fails, emits an invalid step, or the resulting sequence
// breaks a sequence invariant.
func (c *Client) Generate(ctx context.Context, algorithmID string, opts *GenerateOpts) (*StepSequence, error) {
	req := generate.Request{AlgorithmID: algorithmID}
	if opts != nil {
		req.Inputs = opts.Inputs
		req.MaxSteps = opts.MaxSteps
	}

	seq, err := c.generate.Run(ctx, req)
	if err != nil {
		return nil, mapError(err)
	}

	result := fromInternalSequence(*seq)
	return &result, nil
}

// Precompute generates and persists a fixture for every registered algorithm
// using each algorithm's catalog default inputs. Any failure aborts the run.
func (c *Client) Precompute(ctx context.Context) ([]SequenceRef, error) {
	refs, err := c.precompute.Run(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return fromInternalRefList(refs), nil
}

// Fixtures lists the stored fixtures.
func (c *Client) Fixtures(ctx context.Context) ([]SequenceRef, error) {
	refs, err := c.repo.ListSequences(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return fromInternalRefList(refs), nil
}

// Fixture loads the stored fixture of an algorithm without re-validating it.
//
// Returns [ErrNotFound] if no fixture is stored for the algorithm.
func (c *Client) Fixture(ctx context.Context, algorithmID string) (*StepSequence, error) {
	seq, err := c.repo.GetSequence(ctx, algorithmID)
	if err != nil {
		return nil, mapError(err)
	}

	result := fromInternalSequence(*seq)
	return &result, nil
}

// RemoveFixture deletes the stored fixture of an algorithm.
//
// Returns [ErrNotFound] if no fixture is stored for the algorithm.
func (c *Client) RemoveFixture(ctx context.Context, algorithmID string) error {
	return mapError(c.repo.DeleteSequence(ctx, algorithmID))
}

// Verify loads the stored fixture of an algorithm and re-validates it against
// the full invariant set.
//
// Returns [ErrNotFound] if no fixture is stored, or [ErrGeneration] if the
// fixture breaks a sequence invariant.
func (c *Client) Verify(ctx context.Context, algorithmID string) (*StepSequence, error) {
	seq, err := c.verify.Run(ctx, verify.Request{AlgorithmID: algorithmID})
	if err != nil {
		return nil, mapError(err)
	}

	result := fromInternalSequence(*seq)
	return &result, nil
}

// VerifySequence validates an already loaded sequence, e.g. one decoded from
// a file.
//
// Returns [ErrGeneration] if the sequence breaks an invariant, or
// [ErrNotValid] if the artifact envelope is malformed.
func (c *Client) VerifySequence(seq *StepSequence) error {
	if seq == nil {
		return joinErrors(fmt.Errorf("sequence is required"), ErrNotValid)
	}

	internal := toInternalSequence(*seq)
	return mapError(c.verify.Sequence(&internal))
}
