package lib_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sdklib "github.com/slok/stepviz/pkg/lib"
	intlib "github.com/slok/stepviz/test/integration/lib"
)

func TestSDKFixtureLifecycle(t *testing.T) {
	intlib.NewConfig(t)
	client := intlib.NewTestClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	// Catalog.
	algorithms := client.Algorithms("")
	require.NotEmpty(t, algorithms)

	// Generate with catalog defaults.
	seq, err := client.Generate(ctx, algorithms[0].ID, nil)
	require.NoError(t, err)
	assert.Equal(t, algorithms[0].ID, seq.AlgorithmID)
	assert.NotEmpty(t, seq.Steps)

	// Precompute should store one fixture per algorithm.
	refs, err := client.Precompute(ctx)
	require.NoError(t, err)
	assert.Len(t, refs, len(algorithms))

	// List should match.
	refs, err = client.Fixtures(ctx)
	require.NoError(t, err)
	assert.Len(t, refs, len(algorithms))

	// Every stored fixture should verify.
	for _, ref := range refs {
		verified, err := client.Verify(ctx, ref.AlgorithmID)
		require.NoError(t, err)
		assert.Equal(t, ref.StepCount, len(verified.Steps))
	}

	// Remove.
	require.NoError(t, client.RemoveFixture(ctx, algorithms[0].ID))
	_, err = client.Fixture(ctx, algorithms[0].ID)
	assert.True(t, errors.Is(err, sdklib.ErrNotFound))
}
