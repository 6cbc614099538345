package engine

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/slok/stepviz/internal/log"
	"github.com/slok/stepviz/internal/model"
	"github.com/slok/stepviz/internal/validate"
)

// DefaultMaxSteps is the default ceiling on emitted steps per run. It is the
// only safeguard against a producer that never terminates.
const DefaultMaxSteps = 10000

// ProduceFunc is a cooperative step producer. It receives the run inputs and
// a bound step builder, yields fully-built steps by calling the builder, and
// must terminate with its final emitted step marked terminal. Producers must
// be pure: two calls with the same inputs must emit identical steps.
type ProduceFunc func(ctx context.Context, inputs model.Inputs, sb *StepBuilder) error

// Definition identifies an algorithm producer.
type Definition struct {
	// ID is the algorithm slug (matching model.AlgorithmIDPattern).
	ID string
	// Produce is the cooperative producer function.
	Produce ProduceFunc
}

// Registry resolves producer definitions by algorithm id.
type Registry interface {
	Definition(id string) (Definition, error)
	Definitions() []Definition
}

// Config is the configuration for the generation engine.
type Config struct {
	Logger log.Logger
}

func (c *Config) defaults() error {
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "engine.Engine"})
	return nil
}

// Engine drives cooperative producers and packages validated step sequences.
//
// Each run allocates its own accumulator and its own bound step builder, so
// concurrent runs never interfere with one another's in-flight sequences.
type Engine struct {
	logger log.Logger
}

// NewEngine creates a new generation engine.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Engine{logger: cfg.Logger}, nil
}

// RunOptions are the options for a single generation run.
type RunOptions struct {
	// MaxSteps is the upper bound on emitted steps before the run aborts.
	// Zero or negative means DefaultMaxSteps.
	MaxSteps int
}

// Run executes one end-to-end generation: it resumes the producer one step
// at a time up to the step ceiling, re-wraps producer failures, validates the
// complete sequence and only then packages the artifact. Any failure at any
// stage aborts the run with no partial artifact returned.
//
// The producer runs in its own goroutine and yields steps over an unbuffered
// channel, so execution alternates in lock step between producer and driver:
// the producer suspends on every emit and resumes exactly where it left off
// on the next pull.
func (e *Engine) Run(ctx context.Context, def Definition, inputs model.Inputs, opts RunOptions) (*model.StepSequence, error) {
	maxSteps := opts.MaxSteps
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}

	if !model.IsValidAlgorithmID(def.ID) {
		return nil, &model.GenerationError{
			AlgorithmID: def.ID,
			StepIndex:   model.NoStep,
			Message:     fmt.Sprintf("algorithm id %q does not match %s", def.ID, model.AlgorithmIDPattern),
		}
	}
	if def.Produce == nil {
		return nil, &model.GenerationError{
			AlgorithmID: def.ID,
			StepIndex:   model.NoStep,
			Message:     "producer function is required",
		}
	}

	// Stored verbatim on the artifact for reproducibility.
	runInputs := maps.Clone(inputs)
	if runInputs == nil {
		runInputs = model.Inputs{}
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	stepCh := make(chan model.Step) // Unbuffered: one step per suspension.
	done := make(chan error, 1)
	builder := newStepBuilder(runCtx, def.ID, stepCh)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("producer panicked: %v", r)
			}
		}()
		done <- def.Produce(runCtx, runInputs, builder)
	}()

	var steps []model.Step
loop:
	for {
		if len(steps) >= maxSteps {
			// Cancel so a producer blocked on emit unwinds. The done channel
			// is buffered, so the goroutine never leaks on a clean unwind.
			cancel()
			return nil, &model.GenerationError{
				AlgorithmID: def.ID,
				StepIndex:   len(steps) - 1,
				Message:     fmt.Sprintf("exceeded maximum step limit (%d)", maxSteps),
			}
		}

		select {
		case step := <-stepCh:
			steps = append(steps, step)
		case err := <-done:
			if err != nil {
				return nil, e.wrapProducerError(def.ID, len(steps), err)
			}
			break loop
		}
	}

	if err := validate.Sequence(def.ID, steps); err != nil {
		return nil, err
	}

	seq := &model.StepSequence{
		FormatVersion: model.FormatVersion,
		AlgorithmID:   def.ID,
		Inputs:        runInputs,
		Steps:         steps,
		// Assigned once at packaging time, after the steps content is already
		// finalized, so it cannot leak non-determinism into the steps.
		GeneratedAt: time.Now().UTC(),
		GeneratedBy: model.GeneratedByGo,
	}

	e.logger.Debugf("Generated %d steps for algorithm %s", len(steps), def.ID)

	return seq, nil
}

// wrapProducerError re-wraps failures escaping the producer body. Structured
// errors pass through untouched; anything else is wrapped preserving the
// original as cause and recording how many steps had been produced, so the
// failure can be localized to the step being computed.
func (e *Engine) wrapProducerError(algorithmID string, produced int, err error) error {
	var gerr *model.GenerationError
	if errors.As(err, &gerr) {
		return err
	}

	return &model.GenerationError{
		AlgorithmID: algorithmID,
		StepIndex:   produced,
		Message:     fmt.Sprintf("producer failed after %d steps", produced),
		Cause:       err,
	}
}
