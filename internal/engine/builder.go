package engine

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/slok/stepviz/internal/model"
)

// maxTitleLength is the maximum step title length in characters.
const maxTitleLength = 200

// StepSpec is the partial step description a producer hands to the builder.
// The builder completes it into a positionally indexed model.Step.
type StepSpec struct {
	ID            string
	Title         string
	Explanation   string
	State         map[string]any
	VisualActions []model.VisualAction
	CodeHighlight model.CodeHighlight
	IsTerminal    bool
	Phase         string
}

// StepBuilder turns step specs into fully-formed steps and hands them to the
// driver one at a time. A builder is bound to a single run: indices are
// assigned from the count of steps already emitted, so they are contiguous
// and monotonic by construction.
type StepBuilder struct {
	ctx         context.Context
	algorithmID string
	out         chan<- model.Step
	emitted     int
}

func newStepBuilder(ctx context.Context, algorithmID string, out chan<- model.Step) *StepBuilder {
	return &StepBuilder{
		ctx:         ctx,
		algorithmID: algorithmID,
		out:         out,
	}
}

// Emit validates the spec, completes it into a Step at the next index and
// yields it to the driver, blocking until the driver pulls it. Malformed
// specs fail immediately with the structured error: bad step content is a
// producer-author bug, so it is not deferred to final validation.
func (b *StepBuilder) Emit(spec StepSpec) (model.Step, error) {
	if err := b.check(spec); err != nil {
		return model.Step{}, err
	}

	step := model.Step{
		Index:         b.emitted,
		ID:            spec.ID,
		Title:         spec.Title,
		Explanation:   spec.Explanation,
		State:         spec.State,
		VisualActions: spec.VisualActions,
		CodeHighlight: spec.CodeHighlight,
		IsTerminal:    spec.IsTerminal,
		Phase:         spec.Phase,
	}

	select {
	case b.out <- step:
		b.emitted++
		return step, nil
	case <-b.ctx.Done():
		return model.Step{}, b.ctx.Err()
	}
}

func (b *StepBuilder) check(spec StepSpec) error {
	fail := func(format string, args ...any) error {
		return &model.GenerationError{
			AlgorithmID: b.algorithmID,
			StepIndex:   b.emitted,
			Message:     fmt.Sprintf(format, args...),
		}
	}

	if !model.IsValidStepID(spec.ID) {
		return fail("step id %q does not match %s", spec.ID, model.StepIDPattern)
	}
	if spec.Title == "" {
		return fail("step title must not be empty")
	}
	if n := utf8.RuneCountInString(spec.Title); n > maxTitleLength {
		return fail("step title is %d characters long (maximum is %d)", n, maxTitleLength)
	}
	if spec.Explanation == "" {
		return fail("step explanation must not be empty")
	}
	for _, line := range spec.CodeHighlight.Lines {
		if line <= 0 {
			return fail("code highlight line numbers must be positive, got %d", line)
		}
	}

	return nil
}
