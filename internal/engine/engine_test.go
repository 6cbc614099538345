package engine_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/stepviz/internal/engine"
	"github.com/slok/stepviz/internal/model"
)

func newEngine(t *testing.T) *engine.Engine {
	t.Helper()
	eng, err := engine.NewEngine(engine.Config{})
	require.NoError(t, err)
	return eng
}

// countingProducer emits n regular steps followed by one terminal step.
func countingProducer(n int) engine.ProduceFunc {
	return func(ctx context.Context, inputs model.Inputs, sb *engine.StepBuilder) error {
		for i := 0; i < n; i++ {
			_, err := sb.Emit(engine.StepSpec{
				ID:          "count",
				Title:       fmt.Sprintf("Count %d", i),
				Explanation: "Counting up.",
				State:       map[string]any{"i": i},
			})
			if err != nil {
				return err
			}
		}
		_, err := sb.Emit(engine.StepSpec{
			ID:          "done",
			Title:       "Done",
			Explanation: "Finished counting.",
			IsTerminal:  true,
		})
		return err
	}
}

func TestEngineRun(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	eng := newEngine(t)
	def := engine.Definition{ID: "counter", Produce: countingProducer(3)}

	seq, err := eng.Run(context.Background(), def, model.Inputs{"n": 3}, engine.RunOptions{})
	require.NoError(err)

	assert.Equal(model.FormatVersion, seq.FormatVersion)
	assert.Equal("counter", seq.AlgorithmID)
	assert.Equal(model.Inputs{"n": 3}, seq.Inputs)
	assert.Equal(model.GeneratedByGo, seq.GeneratedBy)
	assert.False(seq.GeneratedAt.IsZero())

	require.Len(seq.Steps, 4)
	for i, step := range seq.Steps {
		assert.Equal(i, step.Index)
	}
	assert.True(seq.Steps[3].IsTerminal)
	assert.False(seq.Steps[0].IsTerminal)
}

func TestEngineRunDeterminism(t *testing.T) {
	require := require.New(t)

	eng := newEngine(t)
	def := engine.Definition{ID: "counter", Produce: countingProducer(10)}

	seq1, err := eng.Run(context.Background(), def, model.Inputs{"n": 10}, engine.RunOptions{})
	require.NoError(err)
	seq2, err := eng.Run(context.Background(), def, model.Inputs{"n": 10}, engine.RunOptions{})
	require.NoError(err)

	// Everything but the timestamp must be byte-identical between runs.
	assert.Equal(t, seq1.Steps, seq2.Steps)
	assert.Equal(t, seq1.Inputs, seq2.Inputs)
}

func TestEngineRunNilInputs(t *testing.T) {
	require := require.New(t)

	eng := newEngine(t)
	def := engine.Definition{ID: "counter", Produce: countingProducer(0)}

	seq, err := eng.Run(context.Background(), def, nil, engine.RunOptions{})
	require.NoError(err)

	assert.NotNil(t, seq.Inputs)
	assert.Empty(t, seq.Inputs)
}

func TestEngineRunDefinitionErrors(t *testing.T) {
	tests := map[string]struct {
		def        engine.Definition
		expMessage string
	}{
		"An invalid algorithm id should fail before running": {
			def:        engine.Definition{ID: "Binary_Search", Produce: countingProducer(1)},
			expMessage: "does not match",
		},
		"A nil producer should fail before running": {
			def:        engine.Definition{ID: "counter"},
			expMessage: "producer function is required",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			eng := newEngine(t)

			_, err := eng.Run(context.Background(), test.def, nil, engine.RunOptions{})

			var gerr *model.GenerationError
			require.ErrorAs(t, err, &gerr)
			assert.Equal(t, model.NoStep, gerr.StepIndex)
			assert.Contains(t, gerr.Message, test.expMessage)
		})
	}
}

func TestEngineRunStructuralViolations(t *testing.T) {
	tests := map[string]struct {
		produce      engine.ProduceFunc
		expStepIndex int
		expMessage   string
	}{
		"A producer that emits nothing should fail": {
			produce: func(ctx context.Context, inputs model.Inputs, sb *engine.StepBuilder) error {
				return nil
			},
			expStepIndex: model.NoStep,
			expMessage:   "produced zero steps",
		},
		"A sequence without a terminal step should fail": {
			produce: func(ctx context.Context, inputs model.Inputs, sb *engine.StepBuilder) error {
				_, err := sb.Emit(engine.StepSpec{ID: "only", Title: "Only", Explanation: "No terminal."})
				return err
			},
			expStepIndex: model.NoStep,
			expMessage:   "no terminal step found",
		},
		"A second terminal step should fail naming its index": {
			produce: func(ctx context.Context, inputs model.Inputs, sb *engine.StepBuilder) error {
				specs := []engine.StepSpec{
					{ID: "a", Title: "A", Explanation: "x", IsTerminal: true},
					{ID: "b", Title: "B", Explanation: "x"},
					{ID: "c", Title: "C", Explanation: "x", IsTerminal: true},
				}
				for _, s := range specs {
					if _, err := sb.Emit(s); err != nil {
						return err
					}
				}
				return nil
			},
			expStepIndex: 2,
			expMessage:   "multiple terminal steps, step 2 is an extra terminal",
		},
		"A terminal step before the end should fail": {
			produce: func(ctx context.Context, inputs model.Inputs, sb *engine.StepBuilder) error {
				specs := []engine.StepSpec{
					{ID: "a", Title: "A", Explanation: "x", IsTerminal: true},
					{ID: "b", Title: "B", Explanation: "x"},
				}
				for _, s := range specs {
					if _, err := sb.Emit(s); err != nil {
						return err
					}
				}
				return nil
			},
			expStepIndex: 0,
			expMessage:   "terminal step is at index 0, but must be the last step (index 1)",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			eng := newEngine(t)
			def := engine.Definition{ID: "counter", Produce: test.produce}

			_, err := eng.Run(context.Background(), def, nil, engine.RunOptions{})

			var gerr *model.GenerationError
			require.ErrorAs(t, err, &gerr)
			assert.Equal(t, test.expStepIndex, gerr.StepIndex)
			assert.Contains(t, gerr.Message, test.expMessage)
		})
	}
}

func TestEngineRunStepSpecValidation(t *testing.T) {
	longTitle := ""
	for i := 0; i < 201; i++ {
		longTitle += "x"
	}

	tests := map[string]struct {
		spec       engine.StepSpec
		expMessage string
	}{
		"An invalid step id should fail": {
			spec:       engine.StepSpec{ID: "Bad Step", Title: "T", Explanation: "x"},
			expMessage: "step id",
		},
		"An empty title should fail": {
			spec:       engine.StepSpec{ID: "ok", Explanation: "x"},
			expMessage: "step title must not be empty",
		},
		"An over-long title should fail": {
			spec:       engine.StepSpec{ID: "ok", Title: longTitle, Explanation: "x"},
			expMessage: "201 characters long",
		},
		"An empty explanation should fail": {
			spec:       engine.StepSpec{ID: "ok", Title: "T"},
			expMessage: "step explanation must not be empty",
		},
		"A non-positive code highlight line should fail": {
			spec: engine.StepSpec{
				ID: "ok", Title: "T", Explanation: "x",
				CodeHighlight: model.CodeHighlight{Language: "python", Lines: []int{1, 0}},
			},
			expMessage: "code highlight line numbers must be positive",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			eng := newEngine(t)
			def := engine.Definition{
				ID: "counter",
				Produce: func(ctx context.Context, inputs model.Inputs, sb *engine.StepBuilder) error {
					_, err := sb.Emit(test.spec)
					return err
				},
			}

			_, err := eng.Run(context.Background(), def, nil, engine.RunOptions{})

			var gerr *model.GenerationError
			require.ErrorAs(t, err, &gerr)
			assert.Equal(t, 0, gerr.StepIndex)
			assert.Contains(t, gerr.Message, test.expMessage)
		})
	}
}

func TestEngineRunMaxSteps(t *testing.T) {
	t.Run("A producer that never terminates should hit the ceiling", func(t *testing.T) {
		eng := newEngine(t)
		def := engine.Definition{
			ID: "runaway",
			Produce: func(ctx context.Context, inputs model.Inputs, sb *engine.StepBuilder) error {
				for {
					_, err := sb.Emit(engine.StepSpec{ID: "loop", Title: "Loop", Explanation: "Forever."})
					if err != nil {
						return err
					}
				}
			},
		}

		_, err := eng.Run(context.Background(), def, nil, engine.RunOptions{MaxSteps: 5})

		var gerr *model.GenerationError
		require.ErrorAs(t, err, &gerr)
		assert.Equal(t, 4, gerr.StepIndex)
		assert.Contains(t, gerr.Message, "exceeded maximum step limit (5)")
	})

	t.Run("A producer that emits exactly the limit should also fail", func(t *testing.T) {
		eng := newEngine(t)
		def := engine.Definition{ID: "counter", Produce: countingProducer(4)} // 5 steps total.

		_, err := eng.Run(context.Background(), def, nil, engine.RunOptions{MaxSteps: 5})

		var gerr *model.GenerationError
		require.ErrorAs(t, err, &gerr)
		assert.Contains(t, gerr.Message, "exceeded maximum step limit (5)")
	})

	t.Run("A producer just under the limit should succeed", func(t *testing.T) {
		eng := newEngine(t)
		def := engine.Definition{ID: "counter", Produce: countingProducer(3)} // 4 steps total.

		seq, err := eng.Run(context.Background(), def, nil, engine.RunOptions{MaxSteps: 5})
		require.NoError(t, err)
		assert.Len(t, seq.Steps, 4)
	})
}

func TestEngineRunProducerFailures(t *testing.T) {
	t.Run("A plain producer error should be wrapped preserving the cause", func(t *testing.T) {
		cause := errors.New("inputs missing required key")
		eng := newEngine(t)
		def := engine.Definition{
			ID: "failer",
			Produce: func(ctx context.Context, inputs model.Inputs, sb *engine.StepBuilder) error {
				_, err := sb.Emit(engine.StepSpec{ID: "a", Title: "A", Explanation: "x"})
				if err != nil {
					return err
				}
				return cause
			},
		}

		_, err := eng.Run(context.Background(), def, nil, engine.RunOptions{})

		var gerr *model.GenerationError
		require.ErrorAs(t, err, &gerr)
		assert.Equal(t, 1, gerr.StepIndex)
		assert.Contains(t, gerr.Message, "producer failed after 1 steps")
		assert.True(t, errors.Is(err, cause))
	})

	t.Run("A structured producer error should pass through untouched", func(t *testing.T) {
		orig := &model.GenerationError{AlgorithmID: "failer", StepIndex: 7, Message: "custom failure"}
		eng := newEngine(t)
		def := engine.Definition{
			ID: "failer",
			Produce: func(ctx context.Context, inputs model.Inputs, sb *engine.StepBuilder) error {
				return orig
			},
		}

		_, err := eng.Run(context.Background(), def, nil, engine.RunOptions{})

		var gerr *model.GenerationError
		require.ErrorAs(t, err, &gerr)
		assert.Equal(t, 7, gerr.StepIndex)
		assert.Equal(t, "custom failure", gerr.Message)
	})

	t.Run("A panicking producer should fail instead of crashing the run", func(t *testing.T) {
		eng := newEngine(t)
		def := engine.Definition{
			ID: "panicker",
			Produce: func(ctx context.Context, inputs model.Inputs, sb *engine.StepBuilder) error {
				panic("boom")
			},
		}

		_, err := eng.Run(context.Background(), def, nil, engine.RunOptions{})

		var gerr *model.GenerationError
		require.ErrorAs(t, err, &gerr)
		assert.Contains(t, err.Error(), "producer panicked: boom")
	})
}

func TestEngineRunContextCancellation(t *testing.T) {
	eng := newEngine(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	def := engine.Definition{ID: "counter", Produce: countingProducer(100)}

	_, err := eng.Run(ctx, def, nil, engine.RunOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestEngineRunSemanticViolation(t *testing.T) {
	eng := newEngine(t)
	def := engine.Definition{
		ID: "ranges",
		Produce: func(ctx context.Context, inputs model.Inputs, sb *engine.StepBuilder) error {
			_, err := sb.Emit(engine.StepSpec{
				ID: "bad-range", Title: "Bad", Explanation: "x", IsTerminal: true,
				VisualActions: []model.VisualAction{
					{Type: "highlightRange", Params: map[string]any{"from": 5, "to": 2}},
				},
			})
			return err
		},
	}

	_, err := eng.Run(context.Background(), def, nil, engine.RunOptions{})

	var gerr *model.GenerationError
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, 0, gerr.StepIndex)
	assert.Contains(t, gerr.Message, "from=5 > to=2")
}

func TestEngineRunInputsIsolation(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	eng := newEngine(t)
	def := engine.Definition{
		ID: "mutator",
		Produce: func(ctx context.Context, inputs model.Inputs, sb *engine.StepBuilder) error {
			inputs["mutated"] = true
			_, err := sb.Emit(engine.StepSpec{ID: "done", Title: "Done", Explanation: "x", IsTerminal: true})
			return err
		},
	}

	inputs := model.Inputs{"n": 1}
	_, err := eng.Run(context.Background(), def, inputs, engine.RunOptions{})
	require.NoError(err)

	// The caller's map is cloned before handing it to the producer.
	assert.NotContains(inputs, "mutated")
}
