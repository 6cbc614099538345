package lib

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	sdklib "github.com/slok/stepviz/pkg/lib"
)

// Config holds integration test configuration loaded from environment variables.
type Config struct {
	Binary string
}

// NewConfig loads integration test configuration from environment variables.
// If the activation env var is not set, the test is skipped.
func NewConfig(t *testing.T) Config {
	t.Helper()

	const (
		envActivation = "STEPVIZ_INTEGRATION"
		envBinary     = "STEPVIZ_INTEGRATION_BINARY"
	)

	if os.Getenv(envActivation) != "true" {
		t.Skipf("Skipping integration test: %s is not set to 'true'", envActivation)
	}

	return Config{
		Binary: os.Getenv(envBinary),
	}
}

// NewTestClient creates an SDK client with a temp SQLite DB for test isolation.
func NewTestClient(t *testing.T) *sdklib.Client {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	client, err := sdklib.New(ctx, sdklib.Config{
		DBPath:  dbPath,
		DataDir: t.TempDir(),
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = client.Close()
	})

	return client
}
