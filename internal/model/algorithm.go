package model

import (
	"fmt"
	"time"
)

// AlgorithmCategory groups algorithms in the catalog.
type AlgorithmCategory string

const (
	CategoryClassical    AlgorithmCategory = "classical"
	CategoryDeepLearning AlgorithmCategory = "deep-learning"
	CategoryGenerativeAI AlgorithmCategory = "generative-ai"
	CategoryQuantum      AlgorithmCategory = "quantum"
)

// Valid returns whether the category is one of the known catalog categories.
func (c AlgorithmCategory) Valid() bool {
	switch c {
	case CategoryClassical, CategoryDeepLearning, CategoryGenerativeAI, CategoryQuantum:
		return true
	}
	return false
}

// AlgorithmInfo is the public summary of an algorithm's catalog metadata.
type AlgorithmInfo struct {
	ID              string
	Name            string
	Category        AlgorithmCategory
	Description     string
	Difficulty      string
	TimeComplexity  string
	SpaceComplexity string
}

// Validate validates the algorithm metadata.
func (a *AlgorithmInfo) Validate() error {
	if !IsValidAlgorithmID(a.ID) {
		return fmt.Errorf("algorithm id %q must match %s: %w", a.ID, AlgorithmIDPattern, ErrNotValid)
	}
	if a.Name == "" {
		return fmt.Errorf("name is required: %w", ErrNotValid)
	}
	if !a.Category.Valid() {
		return fmt.Errorf("unknown category %q: %w", a.Category, ErrNotValid)
	}
	return nil
}

// SequenceRef is a lightweight reference to a stored step sequence fixture.
type SequenceRef struct {
	ID          string
	AlgorithmID string
	StepCount   int
	GeneratedAt time.Time
	GeneratedBy string
}
