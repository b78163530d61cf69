package model

// BuildManifest is a reusable build description.
type BuildManifest struct {
	// Sources are the host glob patterns of the schema files (e.g. `schemas/**/*.bop`).
	Sources    []string
	Generators []GeneratorConfig
	NoWarn     []int
	Options    CompilerOptions
	// Env contains additional environment variables for the compiler.
	Env map[string]string
}
