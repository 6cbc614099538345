package model

import (
	"encoding/json"
	"fmt"
	"regexp"
	"time"
)

// FormatVersion is the current major version of the step wire format.
// Incremented only on breaking changes to the Step shape.
const FormatVersion = 1

// GeneratedByGo is the provenance tag for sequences produced by this runtime.
const GeneratedByGo = "go"

const (
	// StepIDPattern is the pattern step ids must match.
	StepIDPattern = `^[a-z0-9][a-z0-9_-]*$`
	// AlgorithmIDPattern is the pattern algorithm ids must match.
	AlgorithmIDPattern = `^[a-z0-9][a-z0-9-]*$`
)

var (
	stepIDRegexp      = regexp.MustCompile(StepIDPattern)
	algorithmIDRegexp = regexp.MustCompile(AlgorithmIDPattern)
)

// IsValidStepID returns whether s is a valid step id slug.
func IsValidStepID(s string) bool { return stepIDRegexp.MatchString(s) }

// IsValidAlgorithmID returns whether s is a valid algorithm id slug.
func IsValidAlgorithmID(s string) bool { return algorithmIDRegexp.MatchString(s) }

// Inputs are the caller-supplied parameters of a generation run. The runtime
// never interprets them, it only requires them to be JSON-serializable.
type Inputs = map[string]any

// CodeHighlight maps a step to the source code lines it narrates.
type CodeHighlight struct {
	Language string `json:"language"`
	Lines    []int  `json:"lines"`
}

// VisualAction is a single rendering instruction for a step.
//
// Actions are an open tagged union: Type is a plain string, not a closed
// enum, and Params carries the type-specific payload. Consumers must ignore
// action types they do not recognize, so adding a new action kind never
// requires changing this runtime.
type VisualAction struct {
	Type   string
	Params map[string]any
}

// MarshalJSON serializes the action to the flat wire shape, merging the type
// discriminator with the params: {"type": "movePointer", "id": "left", "to": 0}.
func (a VisualAction) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(a.Params)+1)
	for k, v := range a.Params {
		m[k] = v
	}
	m["type"] = a.Type
	return json.Marshal(m)
}

// UnmarshalJSON deserializes the flat wire shape, extracting "type" and
// treating every other key as a param.
func (a *VisualAction) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}

	t, ok := m["type"].(string)
	if !ok || t == "" {
		return fmt.Errorf("visual action type must be a non-empty string: %w", ErrNotValid)
	}
	delete(m, "type")

	a.Type = t
	a.Params = m
	return nil
}

// Step is one discrete, indexed moment of an algorithm's execution.
//
// Steps are created exactly once by the step builder at producer-yield time
// and never mutated afterwards. The positional invariant (steps[i].Index == i)
// and the terminal invariant (exactly one terminal step, at the end) are
// sequence-level properties checked by the validator.
type Step struct {
	Index         int            `json:"index"`
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Explanation   string         `json:"explanation"`
	State         map[string]any `json:"state"`
	VisualActions []VisualAction `json:"visualActions"`
	CodeHighlight CodeHighlight  `json:"codeHighlight"`
	IsTerminal    bool           `json:"isTerminal"`
	Phase         string         `json:"phase,omitempty"`
}

// StepSequence is the complete, validated artifact of one generation run.
// It is immutable once returned and is the canonical interchange format
// between the runtime and all downstream consumers.
type StepSequence struct {
	FormatVersion int       `json:"formatVersion"`
	AlgorithmID   string    `json:"algorithmId"`
	Inputs        Inputs    `json:"inputs"`
	Steps         []Step    `json:"steps"`
	GeneratedAt   time.Time `json:"generatedAt"`
	GeneratedBy   string    `json:"generatedBy"`
}
