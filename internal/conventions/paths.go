package conventions

import "path/filepath"

const (
	// DefaultDataDir is the default stepviz data directory name (relative to home).
	DefaultDataDir = ".stepviz"
	// DBFile is the fixture database filename inside the data directory.
	DBFile = "stepviz.db"
)

// DBPath returns the fixture database path inside a data directory.
func DBPath(dataDir string) string {
	return filepath.Join(dataDir, DBFile)
}
