package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a resource is not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a resource already exists.
	ErrAlreadyExists = errors.New("already exists")
	// ErrNotValid is returned when a resource is not valid.
	ErrNotValid = errors.New("not valid")
)

// NoStep is the StepIndex sentinel for failures that happened before any
// step existed.
const NoStep = -1

// GenerationError is the single structured error of the generation runtime.
// Every failure category (malformed step, runaway producer, unexpected
// producer failure, structural or semantic sequence violation) is reported
// through this type; callers distinguish them by inspecting the message and
// fields instead of matching different error types.
type GenerationError struct {
	// AlgorithmID identifies the algorithm whose run failed.
	AlgorithmID string
	// StepIndex is the position the failure is localized to, or NoStep when
	// the failure happened before any step existed.
	StepIndex int
	// Message names the violated rule and the offending value(s).
	Message string
	// Cause is the original error when this wraps an unexpected producer
	// failure. Nil for the runtime's own rule violations.
	Cause error
}

func (e *GenerationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "algorithm %q", e.AlgorithmID)
	if e.StepIndex != NoStep {
		fmt.Fprintf(&b, ": step %d", e.StepIndex)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

func (e *GenerationError) Unwrap() error { return e.Cause }
