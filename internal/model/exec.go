package model

import "io"

// ExecOpts contains options for executing the compiler in a sandbox.
type ExecOpts struct {
	// Env contains additional environment variables for this exec.
	Env map[string]string
	// Stdout is the output stream for the process (optional, defaults to discard).
	Stdout io.Writer
	// Stderr is the error stream for the process (optional, defaults to discard).
	Stderr io.Writer
}

// ExecResult contains the result of an exec operation.
type ExecResult struct {
	// ExitCode is the exit code of the executed process.
	ExitCode int
}

// InvocationResult is the raw, unparsed result of one sandboxed run.
type InvocationResult struct {
	ExitCode int
	StdOut   string
	StdErr   string
}

// ArgVector is the ordered argument list passed to the compiler, argv[0] included.
type ArgVector []string

// Has returns true if the token is present in the vector (argv[0] excluded).
func (a ArgVector) Has(token string) bool {
	for i, arg := range a {
		if i == 0 {
			continue
		}
		if arg == token {
			return true
		}
	}
	return false
}
