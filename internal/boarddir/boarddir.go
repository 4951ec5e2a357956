// Package boarddir provides constants and helpers for the .dailyboard directory.
package boarddir

import "path/filepath"

const (
	// Dir is the name of the per-project state directory.
	Dir = ".dailyboard"

	// DefaultSnapshotFile is the file-backend snapshot name (inside .dailyboard).
	DefaultSnapshotFile = "board.json"

	// DefaultDatabaseFile is the sqlite-backend database name (inside .dailyboard).
	DefaultDatabaseFile = "board.db"

	// DefaultConfigFile is the config file name.
	DefaultConfigFile = "dailyboard.toml"
)

// SnapshotPath returns the snapshot file path within a work directory.
func SnapshotPath(workDir string) string {
	return join(workDir, DefaultSnapshotFile)
}

// DatabasePath returns the sqlite database path within a work directory.
func DatabasePath(workDir string) string {
	return join(workDir, DefaultDatabaseFile)
}

// ConfigPath returns the config file path within a work directory's state dir.
func ConfigPath(workDir string) string {
	return join(workDir, DefaultConfigFile)
}

// DirPath returns the .dailyboard directory within a work directory.
func DirPath(workDir string) string {
	if workDir == "" {
		workDir = "."
	}
	return filepath.Join(workDir, Dir)
}

func join(workDir, file string) string {
	return filepath.Join(DirPath(workDir), file)
}
