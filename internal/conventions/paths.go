package conventions

import "path/filepath"

const (
	// DefaultDataDir is the default critroute data directory name (relative to home).
	DefaultDataDir = ".critroute"
	// DBFile is the SQLite database filename inside the data directory.
	DBFile = "critroute.db"
	// EnvarPrefix is the prefix of the environment variables that set the flags.
	EnvarPrefix = "CRITROUTE"
)

// DBPath returns the path of the database inside a home directory.
func DBPath(homeDir string) string {
	return filepath.Join(homeDir, DefaultDataDir, DBFile)
}
