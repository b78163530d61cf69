package conventions

import "path/filepath"

const (
	// DefaultDataDir is the default bopbridge data directory name (relative to home).
	DefaultDataDir = ".bopbridge"
	// WASMFile is the filename of the compiler image inside the data directory.
	WASMFile = "bebopc.wasm"
	// WASMPathEnvVar overrides the compiler image path.
	WASMPathEnvVar = "BOPBRIDGE_WASM_PATH"
	// CacheDBFile is the filename of the build cache database inside the data directory.
	CacheDBFile = "cache.db"

	// ProjectFile is the file the compiler creates on project initialization.
	ProjectFile = "bebop.json"
	// SchemaGlob matches every schema below a directory.
	SchemaGlob = "**/*.bop"
)

// DataDir returns the bopbridge data directory for a home directory.
func DataDir(homeDir string) string {
	return filepath.Join(homeDir, DefaultDataDir)
}

// DefaultWASMPath returns the default compiler image path for a home directory.
func DefaultWASMPath(homeDir string) string {
	return filepath.Join(DataDir(homeDir), WASMFile)
}

// DefaultCacheDBPath returns the default build cache database path for a home directory.
func DefaultCacheDBPath(homeDir string) string {
	return filepath.Join(DataDir(homeDir), CacheDBFile)
}
