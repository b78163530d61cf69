package printer_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/bopbridge/internal/model"
	"github.com/slok/bopbridge/internal/printer"
)

func outputFixture() model.CompilerOutput {
	return model.CompilerOutput{
		Warnings: []model.Diagnostic{{
			Severity:  model.SeverityWarning,
			Message:   "unused import",
			ErrorCode: 7,
			Span:      &model.Span{FileName: "/a.bop", StartLine: 3, StartColumn: 1},
		}},
		Results: []model.GeneratedFile{
			{Name: "/out/a.c", Content: "abc", Generator: "c", AuxiliaryFile: &model.AuxiliaryFile{Name: "/out/a.h", Content: "ab"}},
		},
	}
}

func TestTablePrinterPrintOutput(t *testing.T) {
	tests := map[string]struct {
		out    model.CompilerOutput
		expOut string
	}{
		"An empty output should print nothing.": {
			out:    model.CompilerOutput{},
			expOut: "",
		},

		"Results and diagnostics should be printed in two tables.": {
			out: outputFixture(),
			expOut: "FILE      GENERATOR  SIZE\n" +
				"/out/a.c  c          3 B\n" +
				"/out/a.h  c          2 B\n" +
				"\n" +
				"SEVERITY  CODE  LOCATION    MESSAGE\n" +
				"warning   7     /a.bop:3:1  unused import\n",
		},

		"Diagnostics without location should print a dash.": {
			out: model.CompilerOutput{
				Errors: []model.Diagnostic{{Severity: model.SeverityError, Message: "bad", ErrorCode: 5}},
			},
			expOut: "SEVERITY  CODE  LOCATION  MESSAGE\n" +
				"error     5     -         bad\n",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			p := printer.NewTablePrinter(&buf)

			err := p.PrintOutput(test.out)
			require.NoError(t, err)
			assert.Equal(t, test.expOut, buf.String())
		})
	}
}

func TestJSONPrinterPrintOutput(t *testing.T) {
	var buf bytes.Buffer
	p := printer.NewJSONPrinter(&buf)

	err := p.PrintOutput(model.CompilerOutput{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"warnings":[],"errors":[],"results":[]}`, buf.String())

	buf.Reset()
	err = p.PrintOutput(outputFixture())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"name": "/out/a.c"`)
	assert.Contains(t, out, `"auxiliaryFile": {`)
	assert.Contains(t, out, `"fileName": "/a.bop"`)
}

func TestTablePrinterPrintFiles(t *testing.T) {
	var buf bytes.Buffer
	p := printer.NewTablePrinter(&buf)

	err := p.PrintFiles(model.FileMap{"/bebop.json": "{}", "/a.bop": ""})
	require.NoError(t, err)

	exp := "FILE         SIZE\n" +
		"/a.bop       0 B\n" +
		"/bebop.json  2 B\n"
	assert.Equal(t, exp, buf.String())
}

func TestJSONPrinterPrintFiles(t *testing.T) {
	var buf bytes.Buffer
	p := printer.NewJSONPrinter(&buf)

	err := p.PrintFiles(model.FileMap{"/b": "2", "/a": "1"})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"/a","content":"1"},{"name":"/b","content":"2"}]`, buf.String())
}

func TestPrinterPrintChecks(t *testing.T) {
	checks := []model.CheckResult{
		{ID: "wasm_compile", Message: "WASM image compiled", Status: model.CheckStatusOK},
		{ID: "wasi_memory", Message: "missing memory export", Status: model.CheckStatusError},
	}

	t.Run("Table", func(t *testing.T) {
		var buf bytes.Buffer
		err := printer.NewTablePrinter(&buf).PrintChecks(checks)
		require.NoError(t, err)

		out := buf.String()
		assert.Contains(t, out, "CHECK         STATUS  MESSAGE\n")
		assert.Contains(t, out, "wasi_memory   error   missing memory export\n")
		assert.Contains(t, out, "1 ok, 0 warnings, 1 errors\n")
	})

	t.Run("JSON", func(t *testing.T) {
		var buf bytes.Buffer
		err := printer.NewJSONPrinter(&buf).PrintChecks(checks)
		require.NoError(t, err)

		exp := `[
			{"id":"wasm_compile","status":"ok","message":"WASM image compiled"},
			{"id":"wasi_memory","status":"error","message":"missing memory export"}
		]`
		assert.JSONEq(t, exp, buf.String())
	})
}

func TestPrinterPrintMessage(t *testing.T) {
	var buf bytes.Buffer
	err := printer.NewTablePrinter(&buf).PrintMessage("bebopc 3.0.0")
	require.NoError(t, err)
	assert.Equal(t, "bebopc 3.0.0\n", buf.String())

	buf.Reset()
	err = printer.NewJSONPrinter(&buf).PrintMessage("bebopc 3.0.0")
	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"bebopc 3.0.0"}`, buf.String())
}

func TestFormatSpan(t *testing.T) {
	tests := map[string]struct {
		span *model.Span
		exp  string
	}{
		"Nil span":            {span: nil, exp: "-"},
		"Span without a file": {span: &model.Span{StartLine: 1}, exp: "-"},
		"Span with a file":    {span: &model.Span{FileName: "/a.bop", StartLine: 2, StartColumn: 4}, exp: "/a.bop:2:4"},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.exp, printer.FormatSpan(test.span))
		})
	}
}
