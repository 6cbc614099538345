package lib

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/slok/stepviz/internal/model"
)

var (
	// ErrNotFound is returned when an algorithm or fixture does not exist.
	ErrNotFound = errors.New("resource not found")
	// ErrNotValid is returned on invalid inputs or malformed sequence data.
	ErrNotValid = errors.New("not valid")
	// ErrGeneration is returned when a producer fails, emits an invalid step,
	// or the generated sequence breaks a sequence invariant.
	ErrGeneration = errors.New("generation failed")
)

// AlgorithmCategory groups algorithms in the catalog.
type AlgorithmCategory string

const (
	// CategoryClassical holds classic CS algorithms (searching, sorting).
	CategoryClassical AlgorithmCategory = "classical"
	// CategoryDeepLearning holds neural network building blocks.
	CategoryDeepLearning AlgorithmCategory = "deep-learning"
	// CategoryGenerativeAI holds generative model internals (attention, sampling).
	CategoryGenerativeAI AlgorithmCategory = "generative-ai"
	// CategoryQuantum holds quantum computing algorithms.
	CategoryQuantum AlgorithmCategory = "quantum"
)

// Inputs are the named run parameters of a generation.
type Inputs = map[string]any

// AlgorithmInfo is the catalog metadata of a single algorithm.
type AlgorithmInfo struct {
	// ID is the algorithm identifier (e.g. "binary-search").
	ID string
	// Name is the human-friendly display name.
	Name string
	// Category groups the algorithm in the catalog.
	Category AlgorithmCategory
	// Description is a short explanation of what the algorithm does.
	Description string
	// Difficulty is a free-form difficulty label (e.g. "beginner").
	Difficulty string
	// TimeComplexity is the asymptotic time complexity (e.g. "O(log n)").
	TimeComplexity string
	// SpaceComplexity is the asymptotic space complexity (e.g. "O(1)").
	SpaceComplexity string
}

// VisualAction is a single rendering instruction attached to a step.
//
// Type selects the instruction (e.g. "highlightRange") and Params carries its
// type-specific parameters. Unknown types are passed through untouched so
// renderers can evolve independently.
type VisualAction struct {
	// Type is the action discriminator.
	Type string
	// Params are the action parameters, flattened next to the type on the wire.
	Params map[string]any
}

// MarshalJSON flattens the params next to the type, matching the wire format.
func (a VisualAction) MarshalJSON() ([]byte, error) {
	return json.Marshal(model.VisualAction{Type: a.Type, Params: a.Params})
}

// UnmarshalJSON decodes a flat action object into type and params.
func (a *VisualAction) UnmarshalJSON(data []byte) error {
	var internal model.VisualAction
	if err := json.Unmarshal(data, &internal); err != nil {
		return mapError(err)
	}
	a.Type = internal.Type
	a.Params = internal.Params
	return nil
}

// CodeHighlight points at source lines to highlight while a step is shown.
type CodeHighlight struct {
	// Language is the source language of the highlighted snippet.
	Language string `json:"language"`
	// Lines are 1-based line numbers.
	Lines []int `json:"lines"`
}

// Step is a single visualization step of a sequence.
type Step struct {
	// Index is the zero-based position in the sequence.
	Index int `json:"index"`
	// ID is a stable slug identifying the step kind (e.g. "calculate_mid").
	ID string `json:"id"`
	// Title is a short human-readable headline.
	Title string `json:"title"`
	// Explanation is the longer didactic text for the step.
	Explanation string `json:"explanation"`
	// State is the algorithm state snapshot at this step.
	State map[string]any `json:"state,omitempty"`
	// VisualActions are the rendering instructions for this step.
	VisualActions []VisualAction `json:"visualActions,omitempty"`
	// CodeHighlight points at source lines for this step. Zero value means no
	// highlight.
	CodeHighlight CodeHighlight `json:"codeHighlight"`
	// IsTerminal marks the final step. Exactly one step is terminal, the last.
	IsTerminal bool `json:"isTerminal"`
	// Phase optionally groups consecutive steps (e.g. "softmax").
	Phase string `json:"phase,omitempty"`
}

// StepSequence is a complete, validated generation artifact.
type StepSequence struct {
	// FormatVersion is the artifact format version.
	FormatVersion int `json:"formatVersion"`
	// AlgorithmID identifies the producing algorithm.
	AlgorithmID string `json:"algorithmId"`
	// Inputs are the run parameters the sequence was generated with.
	Inputs Inputs `json:"inputs"`
	// Steps are the ordered visualization steps.
	Steps []Step `json:"steps"`
	// GeneratedAt is the UTC generation timestamp.
	GeneratedAt time.Time `json:"generatedAt"`
	// GeneratedBy identifies the generating runtime.
	GeneratedBy string `json:"generatedBy"`
}

// SequenceRef is a lightweight reference to a stored fixture.
type SequenceRef struct {
	// ID is the unique fixture identifier (ULID) assigned on save.
	ID string
	// AlgorithmID identifies the producing algorithm.
	AlgorithmID string
	// StepCount is the number of steps in the stored sequence.
	StepCount int
	// GeneratedAt is when the sequence was generated.
	GeneratedAt time.Time
	// GeneratedBy identifies the generating runtime.
	GeneratedBy string
}

// GenerateOpts configures a generation run.
//
// Pass nil to [Client.Generate] to use the algorithm's catalog default inputs
// and the engine's default step limit.
type GenerateOpts struct {
	// Inputs are the run parameters. Nil means the catalog defaults.
	Inputs Inputs
	// MaxSteps overrides the runaway-producer ceiling. Zero means the engine
	// default (10000).
	MaxSteps int
}

// --- Internal conversion helpers ---

func fromInternalInfo(i model.AlgorithmInfo) AlgorithmInfo {
	return AlgorithmInfo{
		ID:              i.ID,
		Name:            i.Name,
		Category:        AlgorithmCategory(i.Category),
		Description:     i.Description,
		Difficulty:      i.Difficulty,
		TimeComplexity:  i.TimeComplexity,
		SpaceComplexity: i.SpaceComplexity,
	}
}

func fromInternalInfoList(is []model.AlgorithmInfo) []AlgorithmInfo {
	result := make([]AlgorithmInfo, len(is))
	for i, info := range is {
		result[i] = fromInternalInfo(info)
	}
	return result
}

func fromInternalStep(s model.Step) Step {
	step := Step{
		Index:       s.Index,
		ID:          s.ID,
		Title:       s.Title,
		Explanation: s.Explanation,
		State:       s.State,
		IsTerminal:  s.IsTerminal,
		Phase:       s.Phase,
		CodeHighlight: CodeHighlight{
			Language: s.CodeHighlight.Language,
			Lines:    s.CodeHighlight.Lines,
		},
	}

	if len(s.VisualActions) > 0 {
		step.VisualActions = make([]VisualAction, len(s.VisualActions))
		for i, a := range s.VisualActions {
			step.VisualActions[i] = VisualAction{Type: a.Type, Params: a.Params}
		}
	}

	return step
}

func fromInternalSequence(s model.StepSequence) StepSequence {
	seq := StepSequence{
		FormatVersion: s.FormatVersion,
		AlgorithmID:   s.AlgorithmID,
		Inputs:        s.Inputs,
		GeneratedAt:   s.GeneratedAt,
		GeneratedBy:   s.GeneratedBy,
	}

	seq.Steps = make([]Step, len(s.Steps))
	for i, step := range s.Steps {
		seq.Steps[i] = fromInternalStep(step)
	}

	return seq
}

func toInternalSequence(s StepSequence) model.StepSequence {
	seq := model.StepSequence{
		FormatVersion: s.FormatVersion,
		AlgorithmID:   s.AlgorithmID,
		Inputs:        s.Inputs,
		GeneratedAt:   s.GeneratedAt,
		GeneratedBy:   s.GeneratedBy,
	}

	seq.Steps = make([]model.Step, len(s.Steps))
	for i, step := range s.Steps {
		internal := model.Step{
			Index:       step.Index,
			ID:          step.ID,
			Title:       step.Title,
			Explanation: step.Explanation,
			State:       step.State,
			IsTerminal:  step.IsTerminal,
			Phase:       step.Phase,
			CodeHighlight: model.CodeHighlight{
				Language: step.CodeHighlight.Language,
				Lines:    step.CodeHighlight.Lines,
			},
		}
		if len(step.VisualActions) > 0 {
			internal.VisualActions = make([]model.VisualAction, len(step.VisualActions))
			for j, a := range step.VisualActions {
				internal.VisualActions[j] = model.VisualAction{Type: a.Type, Params: a.Params}
			}
		}
		seq.Steps[i] = internal
	}

	return seq
}

func fromInternalRef(r model.SequenceRef) SequenceRef {
	return SequenceRef{
		ID:          r.ID,
		AlgorithmID: r.AlgorithmID,
		StepCount:   r.StepCount,
		GeneratedAt: r.GeneratedAt,
		GeneratedBy: r.GeneratedBy,
	}
}

func fromInternalRefList(rs []model.SequenceRef) []SequenceRef {
	result := make([]SequenceRef, len(rs))
	for i, r := range rs {
		result[i] = fromInternalRef(r)
	}
	return result
}

func mapError(err error) error {
	if err == nil {
		return nil
	}

	var genErr *model.GenerationError
	switch {
	case errors.As(err, &genErr):
		return joinErrors(err, ErrGeneration)
	case errors.Is(err, model.ErrNotFound):
		return joinErrors(err, ErrNotFound)
	case errors.Is(err, model.ErrNotValid):
		return joinErrors(err, ErrNotValid)
	default:
		return err
	}
}

func joinErrors(original, sentinel error) error {
	return &mappedError{original: original, sentinel: sentinel}
}

type mappedError struct {
	original error
	sentinel error
}

func (e *mappedError) Error() string { return e.original.Error() }

func (e *mappedError) Is(target error) bool {
	return target == e.sentinel
}

func (e *mappedError) Unwrap() error { return e.original }
