// Package diagnostic recovers structured compiler diagnostics from noisy process
// output and classifies failed invocations.
package diagnostic

import (
	"encoding/json"
	"math"

	"github.com/ohler55/ojg/oj"

	"github.com/slok/bopbridge/internal/model"
)

// Fragment is a JSON value found inside free text.
type Fragment struct {
	// Raw is the exact JSON text.
	Raw string
	// Value is the generic parsed value.
	Value any
}

// Extract returns every brace delimited JSON object found in the text, in order.
// Candidates that don't parse are discarded, not every `{...}` is a diagnostic.
func Extract(text string) []Fragment {
	var fragments []Fragment
	for i := 0; i < len(text); i++ {
		if text[i] != '{' {
			continue
		}

		end := matchingBrace(text, i)
		if end < 0 {
			continue
		}

		raw := text[i : end+1]
		v, err := oj.ParseString(raw)
		if err != nil {
			continue
		}

		fragments = append(fragments, Fragment{Raw: raw, Value: v})
		i = end
	}

	return fragments
}

// matchingBrace returns the index of the brace closing the one at start, ignoring
// braces inside JSON string literals. Returns -1 when unbalanced.
func matchingBrace(s string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}

	return -1
}

// Decode decodes the fragment into a typed value.
func (f Fragment) Decode(v any) error {
	return json.Unmarshal([]byte(f.Raw), v)
}

// IsException returns true if the fragment has the shape of a compiler exception:
// `{severity, message, errorCode}`.
func (f Fragment) IsException() bool {
	m, ok := f.Value.(map[string]any)
	if !ok {
		return false
	}

	_, okSeverity := m["severity"].(string)
	_, okMessage := m["message"].(string)
	_, okCode := toInt(m["errorCode"])
	return okSeverity && okMessage && okCode
}

// Diagnostic builds the diagnostic of an exception fragment from its parsed value,
// integral floats like `12.0` or `1e3` are accepted as codes and span positions.
func (f Fragment) Diagnostic() (model.Diagnostic, bool) {
	if !f.IsException() {
		return model.Diagnostic{}, false
	}

	m := f.Value.(map[string]any)
	code, _ := toInt(m["errorCode"])
	d := model.Diagnostic{
		Severity:  m["severity"].(string),
		Message:   m["message"].(string),
		ErrorCode: code,
	}
	d.Context, _ = m["context"].(string)

	if sm, ok := m["span"].(map[string]any); ok {
		span := &model.Span{}
		span.FileName, _ = sm["fileName"].(string)
		span.StartLine, _ = toInt(sm["startLine"])
		span.EndLine, _ = toInt(sm["endLine"])
		span.StartColumn, _ = toInt(sm["startColumn"])
		span.EndColumn, _ = toInt(sm["endColumn"])
		d.Span = span
	}

	return d, true
}

// IsCompilerOutput returns true if the fragment has the shape of a compiler
// output: `{warnings, errors}`.
func (f Fragment) IsCompilerOutput() bool {
	m, ok := f.Value.(map[string]any)
	if !ok {
		return false
	}

	_, okWarnings := m["warnings"]
	_, okErrors := m["errors"]
	return okWarnings && okErrors
}

// toInt accepts integers and floats without a fractional part.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int64:
		return int(n), true
	case int:
		return n, true
	case float64:
		if math.IsInf(n, 0) || n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}
