package printer

import (
	"encoding/json"
	"io"

	"github.com/slok/bopbridge/internal/model"
)

// JSONPrinter prints compiler results in JSON format.
type JSONPrinter struct {
	writer io.Writer
}

// NewJSONPrinter creates a new JSON printer.
func NewJSONPrinter(w io.Writer) *JSONPrinter {
	return &JSONPrinter{writer: w}
}

// fileOutput represents a file in the files output.
type fileOutput struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// checkOutput represents a preflight check result.
type checkOutput struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// messageOutput represents a simple message output.
type messageOutput struct {
	Message string `json:"message"`
}

// PrintOutput prints the compiler output as the compiler itself does.
func (j *JSONPrinter) PrintOutput(out model.CompilerOutput) error {
	return j.encode(out.Normalize())
}

// PrintFiles prints the files sorted by path.
func (j *JSONPrinter) PrintFiles(files model.FileMap) error {
	items := make([]fileOutput, 0, len(files))
	for _, p := range files.Paths() {
		items = append(items, fileOutput{Name: p, Content: files[p]})
	}
	return j.encode(items)
}

// PrintChecks prints preflight check results.
func (j *JSONPrinter) PrintChecks(results []model.CheckResult) error {
	items := make([]checkOutput, 0, len(results))
	for _, r := range results {
		items = append(items, checkOutput{ID: r.ID, Status: string(r.Status), Message: r.Message})
	}
	return j.encode(items)
}

// PrintMessage prints a simple message in JSON format.
func (j *JSONPrinter) PrintMessage(msg string) error {
	return j.encode(messageOutput{Message: msg})
}

func (j *JSONPrinter) encode(v any) error {
	enc := json.NewEncoder(j.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
