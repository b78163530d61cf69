package check_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/slok/bopbridge/internal/app/check"
	"github.com/slok/bopbridge/internal/app/invoke"
	"github.com/slok/bopbridge/internal/app/invoke/invokemock"
	"github.com/slok/bopbridge/internal/model"
)

func TestServiceCheck(t *testing.T) {
	files := model.FileMap{"/a.bop": "struct A {}"}

	tests := map[string]struct {
		req    check.Request
		mock   func(m *invokemock.MockInvoker)
		expOut *model.CompilerOutput
		expErr error
	}{
		"A check without files should fail": {
			req:    check.Request{},
			mock:   func(m *invokemock.MockInvoker) {},
			expErr: model.ErrNotValid,
		},

		"A clean check should return the warnings": {
			req: check.Request{Files: files, Options: model.CompilerOptions{Trace: true}},
			mock: func(m *invokemock.MockInvoker) {
				expReq := invoke.Request{
					Files: files,
					Args:  model.ArgVector{"bebopc", "--trace", "--diagnostic-format", "json", "build", "--no-emit"},
				}
				m.On("Run", mock.Anything, expReq).Once().Return(&model.InvocationResult{
					StdErr: `{"warnings":[{"severity":"warning","message":"w","errorCode":3}],"errors":[]}`,
				}, nil)
			},
			expOut: &model.CompilerOutput{
				Warnings: []model.Diagnostic{{Severity: "warning", Message: "w", ErrorCode: 3}},
				Errors:   []model.Diagnostic{},
				Results:  []model.GeneratedFile{},
			},
		},

		"An exception should fail right away even with a successful exit code": {
			req: check.Request{Files: files},
			mock: func(m *invokemock.MockInvoker) {
				m.On("Run", mock.Anything, mock.Anything).Once().Return(&model.InvocationResult{
					StdErr: `oops {"severity":"error","message":"first","errorCode":1} {"severity":"error","message":"last","errorCode":2}`,
				}, nil)
			},
			expErr: &model.CompilerError{Severity: "error", Message: "first", ErrorCode: 1},
		},

		"Reported diagnostics should be returned": {
			req: check.Request{Files: files},
			mock: func(m *invokemock.MockInvoker) {
				m.On("Run", mock.Anything, mock.Anything).Once().Return(&model.InvocationResult{
					ExitCode: 1,
					StdErr:   `{"warnings":[],"errors":[{"severity":"error","message":"bad","errorCode":5}]}`,
				}, nil)
			},
			expOut: &model.CompilerOutput{
				Warnings: []model.Diagnostic{},
				Errors:   []model.Diagnostic{{Severity: "error", Message: "bad", ErrorCode: 5}},
				Results:  []model.GeneratedFile{},
			},
		},

		"A failed check without diagnostics should raise a process error": {
			req: check.Request{Files: files},
			mock: func(m *invokemock.MockInvoker) {
				m.On("Run", mock.Anything, mock.Anything).Once().Return(&model.InvocationResult{ExitCode: 401, StdErr: "boom"}, nil)
			},
			expErr: &model.ProcessError{ExitCode: 401, StdErr: "boom"},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			mInvoker := &invokemock.MockInvoker{}
			test.mock(mInvoker)

			svc, err := check.NewService(check.ServiceConfig{Invoker: mInvoker})
			require.NoError(err)

			gotOut, err := svc.Check(context.TODO(), test.req)

			switch {
			case test.expErr == nil:
				if assert.NoError(err) {
					assert.Equal(test.expOut, gotOut)
				}
			case errors.Is(test.expErr, model.ErrNotValid):
				assert.ErrorIs(err, model.ErrNotValid)
			default:
				assert.Equal(test.expErr, err)
			}

			mInvoker.AssertExpectations(t)
		})
	}
}
