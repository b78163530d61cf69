package printer

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/slok/bopbridge/internal/model"
)

// TablePrinter prints compiler results in a table format.
type TablePrinter struct {
	writer io.Writer
}

// NewTablePrinter creates a new table printer.
func NewTablePrinter(w io.Writer) *TablePrinter {
	return &TablePrinter{writer: w}
}

// PrintOutput prints the generated files followed by the diagnostics.
func (t *TablePrinter) PrintOutput(out model.CompilerOutput) error {
	if len(out.Results) > 0 {
		tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)

		// Print header.
		fmt.Fprintln(tw, "FILE\tGENERATOR\tSIZE")

		for _, r := range out.Results {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Name, r.Generator, FormatSize(r.Content))
			if r.AuxiliaryFile != nil {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", r.AuxiliaryFile.Name, r.Generator, FormatSize(r.AuxiliaryFile.Content))
			}
		}

		if err := tw.Flush(); err != nil {
			return err
		}
	}

	diags := make([]model.Diagnostic, 0, len(out.Errors)+len(out.Warnings))
	diags = append(diags, out.Errors...)
	diags = append(diags, out.Warnings...)
	if len(diags) == 0 {
		return nil
	}

	if len(out.Results) > 0 {
		fmt.Fprintln(t.writer)
	}

	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "SEVERITY\tCODE\tLOCATION\tMESSAGE")
	for _, d := range diags {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", d.Severity, d.ErrorCode, FormatSpan(d.Span), d.Message)
	}

	return nil
}

// PrintFiles prints the files sorted by path.
func (t *TablePrinter) PrintFiles(files model.FileMap) error {
	if len(files) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "FILE\tSIZE")
	for _, p := range files.Paths() {
		fmt.Fprintf(tw, "%s\t%s\n", p, FormatSize(files[p]))
	}

	return nil
}

// PrintChecks prints preflight check results.
func (t *TablePrinter) PrintChecks(results []model.CheckResult) error {
	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "CHECK\tSTATUS\tMESSAGE")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.ID, r.Status, r.Message)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	sum := model.SummarizeChecks(results)
	fmt.Fprintf(t.writer, "\n%d ok, %d warnings, %d errors\n", sum.OK, sum.Warnings, sum.Errors)

	return nil
}

// PrintMessage prints a simple message.
func (t *TablePrinter) PrintMessage(msg string) error {
	fmt.Fprintln(t.writer, msg)
	return nil
}

// FormatSpan returns the `file:line:column` location of a span, `-` when unknown.
func FormatSpan(s *model.Span) string {
	if s == nil || s.FileName == "" {
		return "-"
	}
	return fmt.Sprintf("%s:%d:%d", s.FileName, s.StartLine, s.StartColumn)
}
