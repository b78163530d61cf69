package model

// CheckStatus is the outcome of an engine preflight check.
type CheckStatus string

const (
	CheckStatusOK      CheckStatus = "ok"
	CheckStatusWarning CheckStatus = "warning"
	CheckStatusError   CheckStatus = "error"
)

// CheckResult is the result of a single engine preflight check.
type CheckResult struct {
	// ID is stable, e.g. "wasm_compile".
	ID      string
	Message string
	Status  CheckStatus
}

// CheckSummary counts check results by status.
type CheckSummary struct {
	OK       int
	Warnings int
	Errors   int
}

// SummarizeChecks returns the summary of the results.
func SummarizeChecks(results []CheckResult) CheckSummary {
	var s CheckSummary
	for _, r := range results {
		switch r.Status {
		case CheckStatusOK:
			s.OK++
		case CheckStatusWarning:
			s.Warnings++
		case CheckStatusError:
			s.Errors++
		}
	}
	return s
}

// HasErrors returns true if any engine check failed.
func HasErrors(results []CheckResult) bool {
	return SummarizeChecks(results).Errors > 0
}
