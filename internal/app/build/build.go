package build

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/slok/bopbridge/internal/app/invoke"
	"github.com/slok/bopbridge/internal/args"
	"github.com/slok/bopbridge/internal/diagnostic"
	"github.com/slok/bopbridge/internal/log"
	"github.com/slok/bopbridge/internal/model"
	"github.com/slok/bopbridge/internal/multiplex"
	"github.com/slok/bopbridge/internal/output"
)

// ServiceConfig is the configuration for the build service.
type ServiceConfig struct {
	Invoker invoke.Invoker
	// Generators is the generator alias table, defaults to model.Generators.
	Generators map[string]model.GeneratorSpec
	Logger     log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Invoker == nil {
		return fmt.Errorf("invoker is required")
	}
	if c.Generators == nil {
		c.Generators = model.Generators
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Build"})
	return nil
}

// Service compiles schemas into generated code.
type Service struct {
	invoker   invoke.Invoker
	assembler output.Assembler
	logger    log.Logger
}

// NewService creates a new build service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		invoker:   cfg.Invoker,
		assembler: output.NewAssembler(cfg.Generators),
		logger:    cfg.Logger,
	}, nil
}

// Request contains the parameters for a build.
type Request struct {
	Files   model.FileMap
	Options model.CompilerOptions
	Build   model.BuildOptions
	// Env contains additional environment variables for the compiler.
	Env map[string]string
}

// Build runs the compiler build and returns the generated files and diagnostics.
// A build that reported its diagnostics in a structured way returns them as the
// output, other failures are returned as errors.
func (s *Service) Build(ctx context.Context, req Request) (*model.CompilerOutput, error) {
	// Validate.
	if len(req.Files) == 0 {
		return nil, fmt.Errorf("no input files: %w", model.ErrNotValid)
	}
	if !req.Build.NoEmit {
		if err := s.assembler.Validate(req.Build.Generators); err != nil {
			return nil, err
		}
	}

	return s.build(ctx, req, args.Build(req.Options, req.Build))
}

// build runs the compiler and interprets its result.
func (s *Service) build(ctx context.Context, req Request, argv model.ArgVector) (*model.CompilerOutput, error) {
	res, err := s.invoker.Run(ctx, invoke.Request{
		Files: req.Files,
		Args:  argv,
		Env:   req.Env,
	})
	if err != nil {
		return nil, fmt.Errorf("could not run build: %w", err)
	}

	if res.ExitCode != 0 {
		out, err := diagnostic.Classify(*res)
		if err != nil {
			return nil, err
		}
		s.logger.Debugf("Build reported %d errors and %d warnings", len(out.Errors), len(out.Warnings))
		return out.Normalize(), nil
	}

	if req.Build.Stdout {
		var out model.CompilerOutput
		if err := json.Unmarshal([]byte(strings.TrimSpace(res.StdOut)), &out); err != nil {
			return nil, fmt.Errorf("could not parse compiler output: %w: %w", err, model.ErrMalformedOutput)
		}
		return out.Normalize(), nil
	}

	out := &model.CompilerOutput{Warnings: diagnostic.Warnings(res.StdErr)}
	if req.Build.NoEmit {
		return out.Normalize(), nil
	}

	// A build can succeed without writing anything, generator lookups report it.
	produced, err := multiplex.Decode(res.StdOut)
	if err != nil {
		if !multiplex.IsNoInputFiles(err) {
			return nil, fmt.Errorf("could not decode produced files: %w", err)
		}
		produced = model.FileMap{}
	}

	out.Results, err = s.assembler.Assemble(produced, req.Build.Generators)
	if err != nil {
		return nil, err
	}
	s.logger.Debugf("Build produced %d files", len(out.Results))

	return out.Normalize(), nil
}
