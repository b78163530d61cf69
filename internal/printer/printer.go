package printer

import "github.com/slok/bopbridge/internal/model"

// Printer knows how to print compiler results in different formats.
type Printer interface {
	PrintOutput(out model.CompilerOutput) error
	PrintFiles(files model.FileMap) error
	PrintChecks(results []model.CheckResult) error
	PrintMessage(msg string) error
}
