package diagnostic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/bopbridge/internal/diagnostic"
	"github.com/slok/bopbridge/internal/model"
)

func TestExtract(t *testing.T) {
	tests := map[string]struct {
		text   string
		expRaw []string
	}{
		"Text without braces should not return fragments.": {
			text:   "warning: something happened\nanother line",
			expRaw: nil,
		},

		"A single object surrounded by prose should be found.": {
			text:   `warning: foo` + "\n" + `{"severity":"error","message":"bad","errorCode":12}` + "\ntrailing",
			expRaw: []string{`{"severity":"error","message":"bad","errorCode":12}`},
		},

		"Multiple objects should be returned in order.": {
			text:   `{"a":1} text {"b":2}{"c":3}`,
			expRaw: []string{`{"a":1}`, `{"b":2}`, `{"c":3}`},
		},

		"Braces that are not JSON should be discarded.": {
			text:   `expected { got x` + "\n" + `struct A { int32 x; }` + "\n" + `{"ok":true}`,
			expRaw: []string{`{"ok":true}`},
		},

		"Nested objects should be returned as a single fragment.": {
			text:   `{"warnings":[{"severity":"warning","message":"w","errorCode":1}],"errors":[]}`,
			expRaw: []string{`{"warnings":[{"severity":"warning","message":"w","errorCode":1}],"errors":[]}`},
		},

		"Braces inside string values should not break the object.": {
			text:   `error: {"severity":"error","message":"unexpected '}' near {","errorCode":5}`,
			expRaw: []string{`{"severity":"error","message":"unexpected '}' near {","errorCode":5}`},
		},

		"Escaped quotes inside string values should be handled.": {
			text:   `{"message":"a \"quoted {\" brace","errorCode":1,"severity":"error"}`,
			expRaw: []string{`{"message":"a \"quoted {\" brace","errorCode":1,"severity":"error"}`},
		},

		"An unbalanced object should not hide a following valid one.": {
			text:   `{"broken": {"severity":"error","message":"m","errorCode":2}`,
			expRaw: []string{`{"severity":"error","message":"m","errorCode":2}`},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			fragments := diagnostic.Extract(test.text)

			var gotRaw []string
			for _, f := range fragments {
				gotRaw = append(gotRaw, f.Raw)
			}
			assert.Equal(t, test.expRaw, gotRaw)
		})
	}
}

func TestFragmentShapes(t *testing.T) {
	tests := map[string]struct {
		text              string
		expException      bool
		expCompilerOutput bool
	}{
		"An exception should be detected.": {
			text:         `{"severity":"error","message":"bad","errorCode":12}`,
			expException: true,
		},

		"An exception with span should be detected.": {
			text:         `{"severity":"error","message":"bad","errorCode":12,"span":{"fileName":"/a.bop","startLine":1}}`,
			expException: true,
		},

		"A missing error code should not be an exception.": {
			text: `{"severity":"error","message":"bad"}`,
		},

		"A string error code should not be an exception.": {
			text: `{"severity":"error","message":"bad","errorCode":"12"}`,
		},

		"An integral float error code should be an exception.": {
			text:         `{"severity":"error","message":"bad","errorCode":1e3}`,
			expException: true,
		},

		"A fractional error code should not be an exception.": {
			text: `{"severity":"error","message":"bad","errorCode":12.5}`,
		},

		"A compiler output should be detected.": {
			text:              `{"warnings":[],"errors":[]}`,
			expCompilerOutput: true,
		},

		"A compiler output without errors should not be detected.": {
			text: `{"warnings":[]}`,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			fragments := diagnostic.Extract(test.text)
			require.Len(t, fragments, 1)
			assert.Equal(test.expException, fragments[0].IsException())
			assert.Equal(test.expCompilerOutput, fragments[0].IsCompilerOutput())
		})
	}
}

func TestFragmentDiagnostic(t *testing.T) {
	tests := map[string]struct {
		text    string
		expOK   bool
		expDiag model.Diagnostic
	}{
		"An exception should be converted with its span and context.": {
			text:  `{"severity":"error","message":"bad","errorCode":12,"context":"struct A","span":{"fileName":"/a.bop","startLine":2,"endLine":2,"startColumn":1,"endColumn":8}}`,
			expOK: true,
			expDiag: model.Diagnostic{
				Severity:  "error",
				Message:   "bad",
				ErrorCode: 12,
				Context:   "struct A",
				Span:      &model.Span{FileName: "/a.bop", StartLine: 2, EndLine: 2, StartColumn: 1, EndColumn: 8},
			},
		},

		"Integral float numbers should be converted to integers.": {
			text:    `{"severity":"error","message":"bad","errorCode":12.0,"span":{"fileName":"/a.bop","startLine":3.0}}`,
			expOK:   true,
			expDiag: model.Diagnostic{Severity: "error", Message: "bad", ErrorCode: 12, Span: &model.Span{FileName: "/a.bop", StartLine: 3}},
		},

		"A non exception should not be converted.": {
			text: `{"warnings":[],"errors":[]}`,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			fragments := diagnostic.Extract(test.text)
			require.Len(t, fragments, 1)

			gotDiag, ok := fragments[0].Diagnostic()
			assert.Equal(test.expOK, ok)
			assert.Equal(test.expDiag, gotDiag)
		})
	}
}
