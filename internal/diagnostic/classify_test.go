package diagnostic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/slok/bopbridge/internal/diagnostic"
	"github.com/slok/bopbridge/internal/model"
)

func TestClassify(t *testing.T) {
	tests := map[string]struct {
		res    model.InvocationResult
		expOut *model.CompilerOutput
		expErr error
	}{
		"A successful invocation should not be classified.": {
			res: model.InvocationResult{ExitCode: 0, StdErr: `{"severity":"error","message":"bad","errorCode":12}`},
		},

		"A fatal exit code with an exception should return the compiler error.": {
			res: model.InvocationResult{
				ExitCode: 400,
				StdErr:   "warning: foo\n{\"severity\":\"error\",\"message\":\"bad\",\"errorCode\":12}",
			},
			expErr: &model.CompilerError{Severity: "error", Message: "bad", ErrorCode: 12},
		},

		"A fatal exit code with multiple exceptions should return the last one.": {
			res: model.InvocationResult{
				ExitCode: 500,
				StdErr: `{"severity":"warning","message":"first","errorCode":1}` + "\n" +
					`{"severity":"error","message":"last","errorCode":2,"span":{"fileName":"/a.bop","startLine":3,"endLine":3,"startColumn":1,"endColumn":4}}`,
			},
			expErr: &model.CompilerError{
				Severity:  "error",
				Message:   "last",
				ErrorCode: 2,
				Span:      &model.Span{FileName: "/a.bop", StartLine: 3, EndLine: 3, StartColumn: 1, EndColumn: 4},
			},
		},

		"A fatal exit code with an integral float error code should return the compiler error.": {
			res:    model.InvocationResult{ExitCode: 400, StdErr: `{"severity":"error","message":"bad","errorCode":12.0}`},
			expErr: &model.CompilerError{Severity: "error", Message: "bad", ErrorCode: 12},
		},

		"The last exception should be returned even with an exponent error code.": {
			res: model.InvocationResult{
				ExitCode: 400,
				StdErr:   `{"severity":"error","message":"first","errorCode":1} {"severity":"error","message":"last","errorCode":1e3}`,
			},
			expErr: &model.CompilerError{Severity: "error", Message: "last", ErrorCode: 1000},
		},

		"A fatal exit code without structured output should return a process error.": {
			res:    model.InvocationResult{ExitCode: 127, StdErr: "panic: out of bounds"},
			expErr: &model.ProcessError{ExitCode: 127, StdErr: "panic: out of bounds"},
		},

		"A non fatal exit code with a compiler output first should return it.": {
			res: model.InvocationResult{
				ExitCode: 1,
				StdErr:   `{"warnings":[{"severity":"warning","message":"w","errorCode":7}],"errors":[{"severity":"error","message":"e","errorCode":8}]}`,
			},
			expOut: &model.CompilerOutput{
				Warnings: []model.Diagnostic{{Severity: "warning", Message: "w", ErrorCode: 7}},
				Errors:   []model.Diagnostic{{Severity: "error", Message: "e", ErrorCode: 8}},
			},
		},

		"A non fatal exit code where the compiler output is not first should fall through to the exception.": {
			res: model.InvocationResult{
				ExitCode: 1,
				StdErr:   `{"severity":"error","message":"boom","errorCode":3} {"warnings":[],"errors":[]}`,
			},
			expErr: &model.CompilerError{Severity: "error", Message: "boom", ErrorCode: 3},
		},

		"A non fatal exit code without structured output should return a process error.": {
			res:    model.InvocationResult{ExitCode: 2, StdErr: "something failed"},
			expErr: &model.ProcessError{ExitCode: 2, StdErr: "something failed"},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			gotOut, err := diagnostic.Classify(test.res)

			if test.expErr != nil {
				assert.Equal(test.expErr, err)
				assert.Nil(gotOut)
			} else if assert.NoError(err) {
				assert.Equal(test.expOut, gotOut)
			}
		})
	}
}

func TestThrowOnException(t *testing.T) {
	tests := map[string]struct {
		text   string
		expErr error
	}{
		"Text without exceptions should not fail.": {
			text: `info: compiling {"warnings":[],"errors":[]}`,
		},

		"The first exception should be raised.": {
			text:   `{"severity":"error","message":"first","errorCode":1} {"severity":"error","message":"second","errorCode":2}`,
			expErr: &model.CompilerError{Severity: "error", Message: "first", ErrorCode: 1},
		},

		"Any severity should be raised.": {
			text:   `{"severity":"warning","message":"w","errorCode":3} {"severity":"error","message":"e","errorCode":4}`,
			expErr: &model.CompilerError{Severity: "warning", Message: "w", ErrorCode: 3},
		},

		"An integral float error code should be raised.": {
			text:   `note {"severity":"error","message":"e","errorCode":4.0}`,
			expErr: &model.CompilerError{Severity: "error", Message: "e", ErrorCode: 4},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			err := diagnostic.ThrowOnException(test.text)
			if test.expErr != nil {
				assert.Equal(t, test.expErr, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWarnings(t *testing.T) {
	tests := map[string]struct {
		text        string
		expWarnings []model.Diagnostic
	}{
		"No diagnostics should return no warnings.": {
			text: "compiled 3 files",
		},

		"Warning diagnostics should be collected in order, errors ignored.": {
			text: `{"severity":"warning","message":"w1","errorCode":1} noise {"severity":"error","message":"e","errorCode":2} {"severity":"warning","message":"w2","errorCode":3}`,
			expWarnings: []model.Diagnostic{
				{Severity: "warning", Message: "w1", ErrorCode: 1},
				{Severity: "warning", Message: "w2", ErrorCode: 3},
			},
		},

		"A compiler output should provide the warnings.": {
			text: `{"warnings":[{"severity":"warning","message":"w","errorCode":9,"context":"struct A"}],"errors":[]}`,
			expWarnings: []model.Diagnostic{
				{Severity: "warning", Message: "w", ErrorCode: 9, Context: "struct A"},
			},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.expWarnings, diagnostic.Warnings(test.text))
		})
	}
}
