package diagnostic

import (
	"fmt"

	"github.com/slok/bopbridge/internal/model"
)

// FatalExitCode is the first exit code the compiler uses for fatal failures, codes
// between 1 and FatalExitCode signal a build that produced diagnostics.
const FatalExitCode = 400

// Classify interprets a failed invocation. It returns the compiler output when the
// process reported its diagnostics in a structured way, otherwise the error that
// explains the failure. Successful invocations return nothing.
func Classify(res model.InvocationResult) (*model.CompilerOutput, error) {
	if res.ExitCode == 0 {
		return nil, nil
	}

	fragments := Extract(res.StdErr)

	if res.ExitCode < FatalExitCode && len(fragments) > 0 && fragments[0].IsCompilerOutput() {
		var out model.CompilerOutput
		if err := fragments[0].Decode(&out); err != nil {
			return nil, fmt.Errorf("could not decode compiler output: %w: %w", err, model.ErrMalformedOutput)
		}
		return &out, nil
	}

	// The last exception is the one that stopped the compiler.
	for i := len(fragments) - 1; i >= 0; i-- {
		if d, ok := fragments[i].Diagnostic(); ok {
			return nil, compilerError(d)
		}
	}

	return nil, &model.ProcessError{ExitCode: res.ExitCode, StdErr: res.StdErr}
}

// ThrowOnException returns the first exception shaped object found in the text as a
// compiler error regardless of the exit code and its severity, nil if there is none.
func ThrowOnException(text string) error {
	for _, f := range Extract(text) {
		if d, ok := f.Diagnostic(); ok {
			return compilerError(d)
		}
	}

	return nil
}

// Warnings returns the warnings a successful compilation reported on the text.
func Warnings(text string) []model.Diagnostic {
	fragments := Extract(text)
	if len(fragments) > 0 && fragments[0].IsCompilerOutput() {
		var out model.CompilerOutput
		if err := fragments[0].Decode(&out); err == nil {
			return out.Warnings
		}
	}

	var warnings []model.Diagnostic
	for _, f := range fragments {
		d, ok := f.Diagnostic()
		if ok && d.Severity == model.SeverityWarning {
			warnings = append(warnings, d)
		}
	}

	return warnings
}

func compilerError(d model.Diagnostic) *model.CompilerError {
	return &model.CompilerError{
		Severity:  d.Severity,
		Message:   d.Message,
		ErrorCode: d.ErrorCode,
		Span:      d.Span,
	}
}
