package model

// Severity of a diagnostic.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Span is a source location.
type Span struct {
	FileName    string `json:"fileName"`
	StartLine   int    `json:"startLine"`
	EndLine     int    `json:"endLine"`
	StartColumn int    `json:"startColumn"`
	EndColumn   int    `json:"endColumn"`
}

// Diagnostic is a structured warning or error reported by the compiler.
type Diagnostic struct {
	Severity  string `json:"severity"`
	Message   string `json:"message"`
	ErrorCode int    `json:"errorCode"`
	Span      *Span  `json:"span,omitempty"`
	Context   string `json:"context,omitempty"`
}

// AuxiliaryFile is a secondary file produced by a generator (e.g. a header).
type AuxiliaryFile struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// GeneratedFile is a file produced for a requested generator.
type GeneratedFile struct {
	Name          string         `json:"name"`
	Content       string         `json:"content"`
	Generator     string         `json:"generator"`
	AuxiliaryFile *AuxiliaryFile `json:"auxiliaryFile,omitempty"`
}

// CompilerOutput is the structured result of a build.
type CompilerOutput struct {
	Warnings []Diagnostic    `json:"warnings"`
	Errors   []Diagnostic    `json:"errors"`
	Results  []GeneratedFile `json:"results"`
}

// Normalize replaces nil lists with empty ones and returns the same output.
func (o *CompilerOutput) Normalize() *CompilerOutput {
	if o.Warnings == nil {
		o.Warnings = []Diagnostic{}
	}
	if o.Errors == nil {
		o.Errors = []Diagnostic{}
	}
	if o.Results == nil {
		o.Results = []GeneratedFile{}
	}
	return o
}
