package check

import (
	"context"
	"fmt"

	"github.com/slok/bopbridge/internal/app/invoke"
	"github.com/slok/bopbridge/internal/args"
	"github.com/slok/bopbridge/internal/diagnostic"
	"github.com/slok/bopbridge/internal/log"
	"github.com/slok/bopbridge/internal/model"
)

// ServiceConfig is the configuration for the check service.
type ServiceConfig struct {
	Invoker invoke.Invoker
	Logger  log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Invoker == nil {
		return fmt.Errorf("invoker is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Check"})
	return nil
}

// Service type checks schemas without generating code.
type Service struct {
	invoker invoke.Invoker
	logger  log.Logger
}

// NewService creates a new check service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		invoker: cfg.Invoker,
		logger:  cfg.Logger,
	}, nil
}

// Request contains the parameters for a check.
type Request struct {
	Files   model.FileMap
	Options model.CompilerOptions
	// NoWarn are the warning codes that will be suppressed.
	NoWarn []int
	Env    map[string]string
}

// Check compiles the schemas without emitting anything and returns the diagnostics.
// The first compiler exception found fails the check right away.
func (s *Service) Check(ctx context.Context, req Request) (*model.CompilerOutput, error) {
	if len(req.Files) == 0 {
		return nil, fmt.Errorf("no input files: %w", model.ErrNotValid)
	}

	res, err := s.invoker.Run(ctx, invoke.Request{
		Files: req.Files,
		Args:  args.Build(req.Options, model.BuildOptions{NoEmit: true, NoWarn: req.NoWarn}),
		Env:   req.Env,
	})
	if err != nil {
		return nil, fmt.Errorf("could not run check: %w", err)
	}

	if err := diagnostic.ThrowOnException(res.StdErr); err != nil {
		return nil, err
	}

	if res.ExitCode != 0 {
		out, err := diagnostic.Classify(*res)
		if err != nil {
			return nil, err
		}
		s.logger.Debugf("Check reported %d errors and %d warnings", len(out.Errors), len(out.Warnings))
		return out.Normalize(), nil
	}

	out := &model.CompilerOutput{Warnings: diagnostic.Warnings(res.StdErr)}
	return out.Normalize(), nil
}
