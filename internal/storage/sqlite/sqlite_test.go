package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/stepviz/internal/log"
	"github.com/slok/stepviz/internal/model"
	"github.com/slok/stepviz/internal/storage/sqlite"
)

func sequenceFixture(algorithmID string) model.StepSequence {
	return model.StepSequence{
		FormatVersion: model.FormatVersion,
		AlgorithmID:   algorithmID,
		Inputs:        model.Inputs{"array": []any{float64(1), float64(2)}, "target": float64(2)},
		Steps: []model.Step{
			{
				Index: 0, ID: "initialize", Title: "Initialize", Explanation: "x",
				State: map[string]any{"left": float64(0)},
				VisualActions: []model.VisualAction{
					{Type: "movePointer", Params: map[string]any{"id": "left", "to": float64(0)}},
				},
				CodeHighlight: model.CodeHighlight{Language: "pseudocode", Lines: []int{1}},
			},
			{Index: 1, ID: "done", Title: "Done", Explanation: "x", IsTerminal: true, Phase: "result"},
		},
		GeneratedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		GeneratedBy: model.GeneratedByGo,
	}
}

func newRepo(t *testing.T) *sqlite.Repository {
	t.Helper()
	repo, err := sqlite.NewRepository(context.Background(), sqlite.RepositoryConfig{
		DBPath: filepath.Join(t.TempDir(), "test.db"),
		Logger: log.Noop,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	seq := sequenceFixture("binary-search")
	ref, err := repo.SaveSequence(ctx, seq)
	require.NoError(t, err)
	assert.NotEmpty(t, ref.ID)
	assert.Equal(t, "binary-search", ref.AlgorithmID)
	assert.Equal(t, 2, ref.StepCount)

	got, err := repo.GetSequence(ctx, "binary-search")
	require.NoError(t, err)
	assert.Equal(t, seq.AlgorithmID, got.AlgorithmID)
	assert.Equal(t, seq.FormatVersion, got.FormatVersion)
	assert.Equal(t, seq.Inputs, got.Inputs)
	assert.Equal(t, seq.Steps, got.Steps)
	assert.True(t, seq.GeneratedAt.Equal(got.GeneratedAt))

	refs, err := repo.ListSequences(ctx)
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, ref.ID, refs[0].ID)

	require.NoError(t, repo.DeleteSequence(ctx, "binary-search"))
	_, err = repo.GetSequence(ctx, "binary-search")
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

func TestRepositorySaveReplaces(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	first, err := repo.SaveSequence(ctx, sequenceFixture("bubble-sort"))
	require.NoError(t, err)

	updated := sequenceFixture("bubble-sort")
	updated.Steps = updated.Steps[1:]
	updated.Steps[0].Index = 0
	second, err := repo.SaveSequence(ctx, updated)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	refs, err := repo.ListSequences(ctx)
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, second.ID, refs[0].ID)
	assert.Equal(t, 1, refs[0].StepCount)
}

func TestRepositoryListOrder(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	for _, id := range []string{"self-attention", "binary-search", "bubble-sort"} {
		_, err := repo.SaveSequence(ctx, sequenceFixture(id))
		require.NoError(t, err)
	}

	refs, err := repo.ListSequences(ctx)
	require.NoError(t, err)
	require.Len(t, refs, 3)
	assert.Equal(t, "binary-search", refs[0].AlgorithmID)
	assert.Equal(t, "bubble-sort", refs[1].AlgorithmID)
	assert.Equal(t, "self-attention", refs[2].AlgorithmID)
}

func TestRepositoryNotFound(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	_, err := repo.GetSequence(ctx, "missing")
	assert.True(t, errors.Is(err, model.ErrNotFound))

	err = repo.DeleteSequence(ctx, "missing")
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

func TestRepositoryPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{DBPath: dbPath, Logger: log.Noop})
	require.NoError(t, err)
	_, err = repo.SaveSequence(ctx, sequenceFixture("binary-search"))
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	reopened, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{DBPath: dbPath, Logger: log.Noop})
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	got, err := reopened.GetSequence(ctx, "binary-search")
	require.NoError(t, err)
	assert.Len(t, got.Steps, 2)
}
