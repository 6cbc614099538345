package cli_test

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	intlib "github.com/slok/stepviz/test/integration/lib"
	"github.com/slok/stepviz/test/integration/testutils"
)

func newBinary(t *testing.T) string {
	t.Helper()

	config := intlib.NewConfig(t)
	if config.Binary == "" {
		t.Skip("Skipping CLI integration test: STEPVIZ_INTEGRATION_BINARY is not set")
	}

	return config.Binary
}

func TestCLIList(t *testing.T) {
	binary := newBinary(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	stdout, stderr, err := testutils.RunStepviz(ctx, nil, binary, "list --format json", true)
	require.NoError(t, err, "stderr: %s", stderr)

	var items []struct {
		ID       string `json:"id"`
		Category string `json:"category"`
	}
	require.NoError(t, json.Unmarshal(stdout, &items))
	require.NotEmpty(t, items)

	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	assert.Contains(t, ids, "binary-search")
}

func TestCLIGenerate(t *testing.T) {
	binary := newBinary(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	stdout, stderr, err := testutils.RunStepvizArgs(ctx, nil, binary, []string{
		"generate", "binary-search",
		"--inputs", `{"array": [1, 3, 5, 7], "target": 5}`,
		"--format", "json",
	}, true)
	require.NoError(t, err, "stderr: %s", stderr)

	var seq struct {
		AlgorithmID string `json:"algorithmId"`
		Steps       []struct {
			ID         string `json:"id"`
			IsTerminal bool   `json:"isTerminal"`
		} `json:"steps"`
	}
	require.NoError(t, json.Unmarshal(stdout, &seq))
	assert.Equal(t, "binary-search", seq.AlgorithmID)
	require.NotEmpty(t, seq.Steps)
	assert.True(t, seq.Steps[len(seq.Steps)-1].IsTerminal)
	assert.Equal(t, "found", seq.Steps[len(seq.Steps)-1].ID)
}

func TestCLIPrecomputeAndFixtures(t *testing.T) {
	binary := newBinary(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	env := []string{fmt.Sprintf("STEPVIZ_DB_PATH=%s", dbPath)}

	_, stderr, err := testutils.RunStepviz(ctx, env, binary, "precompute", true)
	require.NoError(t, err, "stderr: %s", stderr)

	stdout, stderr, err := testutils.RunStepviz(ctx, env, binary, "fixture list --format json", true)
	require.NoError(t, err, "stderr: %s", stderr)

	var refs []struct {
		AlgorithmID string `json:"algorithm_id"`
		StepCount   int    `json:"step_count"`
	}
	require.NoError(t, json.Unmarshal(stdout, &refs))
	require.Len(t, refs, 3)
	for _, ref := range refs {
		assert.NotZero(t, ref.StepCount)
	}

	// Every stored fixture should verify.
	for _, ref := range refs {
		_, stderr, err := testutils.RunStepviz(ctx, env, binary, "verify "+ref.AlgorithmID, true)
		require.NoError(t, err, "stderr: %s", stderr)
	}
}
