package validate

import (
	"fmt"
	"math"

	"github.com/slok/stepviz/internal/model"
)

// weightTolerance is the absolute tolerance for weight distribution checks.
const weightTolerance = 1e-6

// Action types with semantic checks. Every other type is accepted unchanged:
// the action vocabulary is open and consumers ignore what they don't know.
const (
	actionHighlightRange       = "highlightRange"
	actionDimRange             = "dimRange"
	actionCompareElements      = "compareElements"
	actionShowAttentionWeights = "showAttentionWeights"
	actionUpdateBarChart       = "updateBarChart"
)

// Sequence validates a complete ordered step sequence before packaging.
//
// Two passes, both required: a structural pass over the sequence (non-empty,
// contiguous indices, exactly one terminal step at the end) and a semantic
// pass over every visual action, dispatched by its type tag. Failures are
// reported as *model.GenerationError.
func Sequence(algorithmID string, steps []model.Step) error {
	if err := structural(algorithmID, steps); err != nil {
		return err
	}
	return semantic(algorithmID, steps)
}

// Artifact validates a packaged step sequence, e.g. one decoded from a stored
// fixture, checking the envelope on top of the full sequence invariants.
func Artifact(seq *model.StepSequence) error {
	if seq.FormatVersion != model.FormatVersion {
		return &model.GenerationError{
			AlgorithmID: seq.AlgorithmID,
			StepIndex:   model.NoStep,
			Message:     fmt.Sprintf("format version is %d, expected %d", seq.FormatVersion, model.FormatVersion),
		}
	}
	if !model.IsValidAlgorithmID(seq.AlgorithmID) {
		return &model.GenerationError{
			AlgorithmID: seq.AlgorithmID,
			StepIndex:   model.NoStep,
			Message:     fmt.Sprintf("algorithm id %q does not match %s", seq.AlgorithmID, model.AlgorithmIDPattern),
		}
	}

	return Sequence(seq.AlgorithmID, seq.Steps)
}

func structural(algorithmID string, steps []model.Step) error {
	if len(steps) == 0 {
		return &model.GenerationError{
			AlgorithmID: algorithmID,
			StepIndex:   model.NoStep,
			Message:     "produced zero steps",
		}
	}

	// Indices are contiguous by builder construction, re-checked here as
	// defense in depth.
	for i, s := range steps {
		if s.Index != i {
			return &model.GenerationError{
				AlgorithmID: algorithmID,
				StepIndex:   i,
				Message:     fmt.Sprintf("steps[%d].index is %d, expected %d", i, s.Index, i),
			}
		}
	}

	var terminals []int
	for i, s := range steps {
		if s.IsTerminal {
			terminals = append(terminals, i)
		}
	}

	switch {
	case len(terminals) == 0:
		return &model.GenerationError{
			AlgorithmID: algorithmID,
			StepIndex:   model.NoStep,
			Message:     "no terminal step found, the last step must be terminal",
		}
	case len(terminals) > 1:
		return &model.GenerationError{
			AlgorithmID: algorithmID,
			StepIndex:   terminals[1],
			Message:     fmt.Sprintf("multiple terminal steps, step %d is an extra terminal", terminals[1]),
		}
	case terminals[0] != len(steps)-1:
		return &model.GenerationError{
			AlgorithmID: algorithmID,
			StepIndex:   terminals[0],
			Message:     fmt.Sprintf("terminal step is at index %d, but must be the last step (index %d)", terminals[0], len(steps)-1),
		}
	}

	return nil
}

func semantic(algorithmID string, steps []model.Step) error {
	for i, step := range steps {
		for j, action := range step.VisualActions {
			var err error
			switch action.Type {
			case actionHighlightRange, actionDimRange:
				err = checkRange(action)
			case actionCompareElements:
				err = checkComparison(action)
			case actionShowAttentionWeights:
				err = checkWeights(action)
			case actionUpdateBarChart:
				err = checkBarChart(action)
			}
			if err != nil {
				return &model.GenerationError{
					AlgorithmID: algorithmID,
					StepIndex:   i,
					Message:     fmt.Sprintf("visualActions[%d] (%s): %v", j, action.Type, err),
				}
			}
		}
	}

	return nil
}

// checkRange requires from <= to. A single-point range (from == to) is valid,
// an inverted one is a producer bug and is rejected.
func checkRange(action model.VisualAction) error {
	from, okFrom := numberParam(action, "from")
	to, okTo := numberParam(action, "to")
	if okFrom && okTo && from > to {
		return fmt.Errorf("from=%s > to=%s, from must be <= to", formatNumber(from), formatNumber(to))
	}
	return nil
}

func checkComparison(action model.VisualAction) error {
	result, _ := action.Params["result"].(string)
	switch result {
	case "less", "greater", "equal":
		return nil
	}
	return fmt.Errorf("result is %q, expected \"less\", \"greater\" or \"equal\"", result)
}

func checkWeights(action model.VisualAction) error {
	weights, ok := numberSlice(action.Params["weights"])
	if !ok || len(weights) == 0 {
		return nil
	}

	for k, w := range weights {
		if w < -weightTolerance || w > 1+weightTolerance {
			return fmt.Errorf("weights[%d] = %s is outside [0, 1]", k, formatNumber(w))
		}
	}

	sum := KahanSum(weights)
	if delta := math.Abs(sum - 1.0); delta > weightTolerance {
		return fmt.Errorf("weights sum to %.12g, deviation from 1.0 is %e (tolerance %e)", sum, delta, weightTolerance)
	}

	return nil
}

func checkBarChart(action model.VisualAction) error {
	values, okValues := sliceParam(action, "values")
	labels, okLabels := sliceParam(action, "labels")
	if okValues && okLabels && len(values) != len(labels) {
		return fmt.Errorf("has %d values but %d labels, counts must match", len(values), len(labels))
	}
	return nil
}

// numberParam returns the param under key as a float64. Producers written in
// Go emit ints, decoded JSON carries float64, both are accepted.
func numberParam(action model.VisualAction, key string) (float64, bool) {
	v, ok := action.Params[key]
	if !ok {
		return 0, false
	}
	return asNumber(v)
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func numberSlice(v any) ([]float64, bool) {
	switch vs := v.(type) {
	case []float64:
		return vs, true
	case []any:
		ns := make([]float64, len(vs))
		for i, item := range vs {
			n, ok := asNumber(item)
			if !ok {
				return nil, false
			}
			ns[i] = n
		}
		return ns, true
	}
	return nil, false
}

func sliceParam(action model.VisualAction, key string) ([]any, bool) {
	v, ok := action.Params[key]
	if !ok {
		return nil, false
	}

	switch vs := v.(type) {
	case []any:
		return vs, true
	case []string:
		out := make([]any, len(vs))
		for i, s := range vs {
			out[i] = s
		}
		return out, true
	case []float64:
		out := make([]any, len(vs))
		for i, n := range vs {
			out[i] = n
		}
		return out, true
	case []int:
		out := make([]any, len(vs))
		for i, n := range vs {
			out[i] = n
		}
		return out, true
	}
	return nil, false
}

// formatNumber renders integral floats without the trailing ".0" noise so
// error messages read "from=5" rather than "from=5.000000".
func formatNumber(n float64) string {
	if n == math.Trunc(n) && math.Abs(n) < 1e15 {
		return fmt.Sprintf("%d", int64(n))
	}
	return fmt.Sprintf("%g", n)
}
