package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/slok/bopbridge/internal/model"
)

func TestSummarizeChecks(t *testing.T) {
	tests := map[string]struct {
		results   []model.CheckResult
		expSum    model.CheckSummary
		expErrors bool
	}{
		"No results should be an empty summary.": {},

		"Results should be counted by status.": {
			results: []model.CheckResult{
				{ID: "a", Status: model.CheckStatusOK},
				{ID: "b", Status: model.CheckStatusWarning},
				{ID: "c", Status: model.CheckStatusOK},
			},
			expSum: model.CheckSummary{OK: 2, Warnings: 1},
		},

		"An error result should be reported.": {
			results: []model.CheckResult{
				{ID: "a", Status: model.CheckStatusOK},
				{ID: "b", Status: model.CheckStatusError},
			},
			expSum:    model.CheckSummary{OK: 1, Errors: 1},
			expErrors: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			assert.Equal(test.expSum, model.SummarizeChecks(test.results))
			assert.Equal(test.expErrors, model.HasErrors(test.results))
		})
	}
}
