package lib_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lib "github.com/slok/stepviz/pkg/lib"
)

func newClient(t *testing.T) *lib.Client {
	t.Helper()

	client, err := lib.New(context.Background(), lib.Config{
		DBPath: filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return client
}

func TestClientAlgorithms(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	client := newClient(t)

	all := client.Algorithms("")
	require.Len(all, 3)
	assert.Equal("binary-search", all[0].ID)

	classical := client.Algorithms(lib.CategoryClassical)
	assert.Len(classical, 2)

	info, err := client.Algorithm("bubble-sort")
	require.NoError(err)
	assert.Equal("Bubble Sort", info.Name)

	_, err = client.Algorithm("quick-sort")
	require.Error(err)
	assert.True(errors.Is(err, lib.ErrNotFound))
}

func TestClientDefaultInputs(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	client := newClient(t)

	inputs, err := client.DefaultInputs("binary-search")
	require.NoError(err)
	assert.Contains(inputs, "array")
	assert.Contains(inputs, "target")

	_, err = client.DefaultInputs("quick-sort")
	assert.True(errors.Is(err, lib.ErrNotFound))
}

func TestClientGenerate(t *testing.T) {
	tests := map[string]struct {
		algorithmID string
		opts        *lib.GenerateOpts
		expErr      error
	}{
		"Nil opts should generate with the catalog defaults": {
			algorithmID: "binary-search",
		},
		"Explicit inputs should drive the run": {
			algorithmID: "bubble-sort",
			opts:        &lib.GenerateOpts{Inputs: lib.Inputs{"array": []int{3, 1, 2}}},
		},
		"An unknown algorithm should map to ErrNotFound": {
			algorithmID: "quick-sort",
			expErr:      lib.ErrNotFound,
		},
		"A too small step ceiling should map to ErrGeneration": {
			algorithmID: "bubble-sort",
			opts:        &lib.GenerateOpts{MaxSteps: 2},
			expErr:      lib.ErrGeneration,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			client := newClient(t)

			seq, err := client.Generate(context.Background(), test.algorithmID, test.opts)
			if test.expErr != nil {
				require.Error(err)
				assert.True(errors.Is(err, test.expErr))
				return
			}
			require.NoError(err)

			assert.Equal(test.algorithmID, seq.AlgorithmID)
			require.NotEmpty(seq.Steps)
			assert.True(seq.Steps[len(seq.Steps)-1].IsTerminal)
		})
	}
}

func TestClientFixtureLifecycle(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	ctx := context.Background()
	client := newClient(t)

	// Nothing stored yet.
	refs, err := client.Fixtures(ctx)
	require.NoError(err)
	assert.Empty(refs)

	refs, err = client.Precompute(ctx)
	require.NoError(err)
	require.Len(refs, 3)

	refs, err = client.Fixtures(ctx)
	require.NoError(err)
	assert.Len(refs, 3)

	seq, err := client.Fixture(ctx, "binary-search")
	require.NoError(err)
	assert.Equal("binary-search", seq.AlgorithmID)

	verified, err := client.Verify(ctx, "binary-search")
	require.NoError(err)
	assert.Equal(len(seq.Steps), len(verified.Steps))

	require.NoError(client.RemoveFixture(ctx, "binary-search"))

	_, err = client.Fixture(ctx, "binary-search")
	assert.True(errors.Is(err, lib.ErrNotFound))

	err = client.RemoveFixture(ctx, "binary-search")
	assert.True(errors.Is(err, lib.ErrNotFound))
}

func TestClientVerifySequence(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	ctx := context.Background()
	client := newClient(t)

	seq, err := client.Generate(ctx, "binary-search", nil)
	require.NoError(err)
	assert.NoError(client.VerifySequence(seq))

	err = client.VerifySequence(nil)
	assert.True(errors.Is(err, lib.ErrNotValid))

	broken := *seq
	broken.Steps = broken.Steps[:len(broken.Steps)-1]
	err = client.VerifySequence(&broken)
	require.Error(err)
	assert.True(errors.Is(err, lib.ErrGeneration))
}
