package version

import (
	"context"
	"fmt"
	"strings"

	"github.com/slok/bopbridge/internal/app/invoke"
	"github.com/slok/bopbridge/internal/args"
	"github.com/slok/bopbridge/internal/log"
	"github.com/slok/bopbridge/internal/model"
)

// ServiceConfig is the configuration for the version service.
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
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Version"})
	return nil
}

// Service reports the compiler version.
type Service struct {
	invoker invoke.Invoker
	logger  log.Logger
}

// NewService creates a new version service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		invoker: cfg.Invoker,
		logger:  cfg.Logger,
	}, nil
}

// Request contains the parameters for a version run.
type Request struct {
	Env map[string]string
}

// Version returns the version the compiler prints.
func (s *Service) Version(ctx context.Context, req Request) (string, error) {
	// Runs always need at least one seeded file.
	res, err := s.invoker.Run(ctx, invoke.Request{
		Files: model.FileMap{"/.keep": ""},
		Args:  args.Version(),
		Env:   req.Env,
	})
	if err != nil {
		return "", fmt.Errorf("could not run version: %w", err)
	}

	if res.ExitCode != 0 {
		return "", &model.ProcessError{ExitCode: res.ExitCode, StdErr: res.StdErr}
	}

	return strings.TrimSpace(res.StdOut), nil
}
