package initialize

import (
	"context"
	"fmt"
	"strings"

	"github.com/slok/bopbridge/internal/app/invoke"
	"github.com/slok/bopbridge/internal/args"
	"github.com/slok/bopbridge/internal/diagnostic"
	"github.com/slok/bopbridge/internal/log"
	"github.com/slok/bopbridge/internal/model"
	"github.com/slok/bopbridge/internal/multiplex"
)

// ServiceConfig is the configuration for the initialize service.
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
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Initialize"})
	return nil
}

// Service initializes compiler projects.
type Service struct {
	invoker invoke.Invoker
	logger  log.Logger
}

// NewService creates a new initialize service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		invoker: cfg.Invoker,
		logger:  cfg.Logger,
	}, nil
}

// Request contains the parameters for an init.
type Request struct {
	// Files are the existing project files, at least one is required.
	Files   model.FileMap
	Options model.CompilerOptions
	Env     map[string]string
}

// Init runs the compiler project initialization and returns the files it created.
func (s *Service) Init(ctx context.Context, req Request) (model.FileMap, error) {
	if len(req.Files) == 0 {
		return nil, fmt.Errorf("no input files: %w", model.ErrNotValid)
	}

	res, err := s.invoker.Run(ctx, invoke.Request{
		Files: req.Files,
		Args:  args.Init(req.Options),
		Env:   req.Env,
	})
	if err != nil {
		return nil, fmt.Errorf("could not run init: %w", err)
	}

	if res.ExitCode != 0 {
		if _, err := diagnostic.Classify(*res); err != nil {
			return nil, err
		}
		return nil, &model.ProcessError{ExitCode: res.ExitCode, StdErr: res.StdErr}
	}

	if strings.TrimSpace(res.StdOut) == "" {
		return model.FileMap{}, nil
	}

	created, err := multiplex.Decode(res.StdOut)
	if err != nil {
		return nil, fmt.Errorf("could not decode created files: %w", err)
	}
	s.logger.Debugf("Init created %d files", len(created))

	return created, nil
}
