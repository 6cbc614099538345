// Package storagemock contains testify mocks for the storage interfaces.
package storagemock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/slok/stepviz/internal/model"
)

// MockRepository is a mock implementation of storage.Repository.
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) SaveSequence(ctx context.Context, seq model.StepSequence) (*model.SequenceRef, error) {
	args := m.Called(ctx, seq)
	ref, _ := args.Get(0).(*model.SequenceRef)
	return ref, args.Error(1)
}

func (m *MockRepository) GetSequence(ctx context.Context, algorithmID string) (*model.StepSequence, error) {
	args := m.Called(ctx, algorithmID)
	seq, _ := args.Get(0).(*model.StepSequence)
	return seq, args.Error(1)
}

func (m *MockRepository) ListSequences(ctx context.Context) ([]model.SequenceRef, error) {
	args := m.Called(ctx)
	refs, _ := args.Get(0).([]model.SequenceRef)
	return refs, args.Error(1)
}

func (m *MockRepository) DeleteSequence(ctx context.Context, algorithmID string) error {
	args := m.Called(ctx, algorithmID)
	return args.Error(0)
}
