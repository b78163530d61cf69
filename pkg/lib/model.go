package lib

import (
	"errors"

	"github.com/slok/bopbridge/internal/model"
)

// EngineType identifies the sandbox engine implementation.
type EngineType string

const (
	// EngineWASM runs the real compiler WASM image on the wazero runtime.
	EngineWASM EngineType = "wasm"

	// EngineFake runs an in-process identity compiler (no WASM image needed).
	// Use this for unit testing without the compiler image.
	EngineFake EngineType = "fake"
)

// Public sentinel errors, use [errors.Is] to check them.
var (
	// ErrNotFound is returned when something expected is missing (e.g. a generated file).
	ErrNotFound = errors.New("not found")
	// ErrNotValid is returned for invalid input (e.g. no files, unknown generator).
	ErrNotValid = errors.New("not valid")
	// ErrNotSupported is returned for compiler modes the bridge doesn't implement.
	ErrNotSupported = errors.New("not supported")
	// ErrMalformedOutput is returned when the compiler output can't be parsed.
	ErrMalformedOutput = errors.New("malformed output")
)

// CompilerError is a structured exception reported by the compiler.
// Use [errors.As] to get it from a returned error.
type CompilerError = model.CompilerError

// ProcessError is returned when the compiler process failed and no structured
// error could be recovered from its output. Use [errors.As] to get it.
type ProcessError = model.ProcessError

// --- Compiler option types ---

// CompilerOptions are the compiler root flags shared by every operation.
type CompilerOptions struct {
	// Config is the path of the compiler configuration file inside the provided files.
	Config string
	// Trace enables compiler tracing.
	Trace bool
	// Include and Exclude are glob patterns the compiler uses to select schemas.
	Include []string
	Exclude []string
	// Locale sets the compiler messages locale.
	Locale string
}

// GeneratorConfig is a requested code generator.
type GeneratorConfig struct {
	// Alias is the generator identity: cs, ts, rust, py, dart, cpp, c or js.
	Alias string
	// OutFile is the path of the primary generated file.
	OutFile string
	// Services selects the generated service code (e.g. "both", "client", "server", "none").
	Services         string
	EmitNotice       bool
	EmitBinarySchema bool
	Namespace        string
	// Options are extra generator specific key/values.
	Options map[string]string
}

// BuildOpts configures a build.
type BuildOpts struct {
	Compiler CompilerOptions
	// Generators are required unless NoEmit is set.
	Generators []GeneratorConfig
	// NoEmit type checks without generating code.
	NoEmit bool
	// NoWarn are the warning codes that will be suppressed.
	NoWarn []int
	// Stdout asks the compiler to print its output instead of writing files.
	Stdout bool
	// Env contains additional environment variables for the compiler.
	Env map[string]string
}

// CheckOpts configures a check. Pass nil to use the defaults.
type CheckOpts struct {
	Compiler CompilerOptions
	NoWarn   []int
	Env      map[string]string
}

// InitOpts configures a project initialization. Pass nil to use the defaults.
type InitOpts struct {
	Compiler CompilerOptions
	Env      map[string]string
}

// --- Result types ---

// Span is a source location.
type Span struct {
	FileName    string
	StartLine   int
	EndLine     int
	StartColumn int
	EndColumn   int
}

// Diagnostic is a warning or error reported by the compiler.
type Diagnostic struct {
	Severity  string
	Message   string
	ErrorCode int
	// Span is nil when the diagnostic has no location.
	Span    *Span
	Context string
}

// AuxiliaryFile is a secondary file produced by a generator (e.g. a C header).
type AuxiliaryFile struct {
	Name    string
	Content string
}

// GeneratedFile is the file produced for a requested generator.
type GeneratedFile struct {
	Name      string
	Content   string
	Generator string
	// AuxiliaryFile is nil for generators that produce a single file.
	AuxiliaryFile *AuxiliaryFile
}

// CompilerOutput is the result of a build or a check.
// The lists are never nil.
type CompilerOutput struct {
	Warnings []Diagnostic
	Errors   []Diagnostic
	// Results follow the requested generators order, empty on checks and no emit builds.
	Results []GeneratedFile
}

// InvocationResult is the raw result of a compiler run.
type InvocationResult struct {
	ExitCode int
	StdOut   string
	StdErr   string
}

// --- Doctor types ---

// CheckStatus represents the status of a preflight check.
type CheckStatus string

const (
	// CheckStatusOK indicates the check passed.
	CheckStatusOK CheckStatus = "ok"
	// CheckStatusWarning indicates the check passed with a warning.
	CheckStatusWarning CheckStatus = "warning"
	// CheckStatusError indicates the check failed.
	CheckStatusError CheckStatus = "error"
)

// CheckResult represents the result of a single preflight check.
type CheckResult struct {
	// ID is a unique identifier for the check (e.g. "wasm_compile").
	ID string
	// Message is a human-readable description of the result.
	Message string
	// Status is the check status.
	Status CheckStatus
}

// --- Internal conversion helpers ---

func toInternalCompilerOptions(opts CompilerOptions) model.CompilerOptions {
	return model.CompilerOptions{
		Config:  opts.Config,
		Trace:   opts.Trace,
		Include: opts.Include,
		Exclude: opts.Exclude,
		Locale:  opts.Locale,
	}
}

func toInternalGenerators(gens []GeneratorConfig) []model.GeneratorConfig {
	result := make([]model.GeneratorConfig, len(gens))
	for i, g := range gens {
		result[i] = model.GeneratorConfig{
			Alias:            g.Alias,
			OutFile:          g.OutFile,
			Services:         g.Services,
			Options:          g.Options,
			EmitNotice:       g.EmitNotice,
			EmitBinarySchema: g.EmitBinarySchema,
			Namespace:        g.Namespace,
		}
	}
	return result
}

func fromInternalDiagnostics(ds []model.Diagnostic) []Diagnostic {
	result := make([]Diagnostic, len(ds))
	for i, d := range ds {
		result[i] = Diagnostic{
			Severity:  d.Severity,
			Message:   d.Message,
			ErrorCode: d.ErrorCode,
			Context:   d.Context,
		}
		if d.Span != nil {
			result[i].Span = &Span{
				FileName:    d.Span.FileName,
				StartLine:   d.Span.StartLine,
				EndLine:     d.Span.EndLine,
				StartColumn: d.Span.StartColumn,
				EndColumn:   d.Span.EndColumn,
			}
		}
	}
	return result
}

func fromInternalCompilerOutput(out *model.CompilerOutput) *CompilerOutput {
	out.Normalize()

	results := make([]GeneratedFile, len(out.Results))
	for i, r := range out.Results {
		results[i] = GeneratedFile{
			Name:      r.Name,
			Content:   r.Content,
			Generator: r.Generator,
		}
		if r.AuxiliaryFile != nil {
			results[i].AuxiliaryFile = &AuxiliaryFile{
				Name:    r.AuxiliaryFile.Name,
				Content: r.AuxiliaryFile.Content,
			}
		}
	}

	return &CompilerOutput{
		Warnings: fromInternalDiagnostics(out.Warnings),
		Errors:   fromInternalDiagnostics(out.Errors),
		Results:  results,
	}
}

func fromInternalCheckResults(results []model.CheckResult) []CheckResult {
	out := make([]CheckResult, len(results))
	for i, r := range results {
		out[i] = CheckResult{
			ID:      r.ID,
			Message: r.Message,
			Status:  CheckStatus(r.Status),
		}
	}
	return out
}

func mapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, model.ErrNotFound):
		return joinErrors(err, ErrNotFound)
	case errors.Is(err, model.ErrNotValid):
		return joinErrors(err, ErrNotValid)
	case errors.Is(err, model.ErrNotSupported):
		return joinErrors(err, ErrNotSupported)
	case errors.Is(err, model.ErrMalformedOutput):
		return joinErrors(err, ErrMalformedOutput)
	default:
		return err
	}
}

func joinErrors(original, sentinel error) error {
	return &mappedError{original: original, sentinel: sentinel}
}

type mappedError struct {
	original error
	sentinel error
}

func (e *mappedError) Error() string { return e.original.Error() }

func (e *mappedError) Is(target error) bool {
	return target == e.sentinel
}

func (e *mappedError) Unwrap() error { return e.original }
