package model

// DiagnosticFormatJSON is the machine readable diagnostic format, used when none is set.
const DiagnosticFormatJSON = "json"

// CompilerOptions are the compiler root flags, shared by every subcommand.
type CompilerOptions struct {
	// Config is the path to the compiler configuration file inside the virtual filesystem.
	Config  string
	Trace   bool
	Include []string
	Exclude []string
	Locale  string
	// DiagnosticFormat defaults to DiagnosticFormatJSON.
	DiagnosticFormat string
}

// BuildOptions are the flags of the build subcommand.
type BuildOptions struct {
	Generators []GeneratorConfig
	NoEmit     bool
	// NoWarn are the warning codes that will be suppressed.
	NoWarn []int
	// Stdout asks the compiler to print a single JSON CompilerOutput instead of writing files.
	Stdout bool
}
