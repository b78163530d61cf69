package lib

import (
	"context"
	"fmt"

	"github.com/slok/bopbridge/internal/app/build"
	"github.com/slok/bopbridge/internal/app/check"
	"github.com/slok/bopbridge/internal/app/initialize"
	"github.com/slok/bopbridge/internal/app/invoke"
	"github.com/slok/bopbridge/internal/app/version"
	"github.com/slok/bopbridge/internal/model"
)

// Build compiles the schemas in files and returns the generated code.
//
// files maps paths to contents, paths are normalized to absolute POSIX paths
// (e.g. "schemas/a.bop" is "/schemas/a.bop"). Generator out files are resolved
// against the same virtual root.
//
// A build that fails with structured diagnostics returns them in the output
// Errors with a nil error. Compiler exceptions are returned as a [*CompilerError],
// process failures as a [*ProcessError].
//
// Returns [ErrNotValid] for no files, no generators or unknown generators, and
// [ErrNotFound] when a requested generator output was not produced.
func (c *Client) Build(ctx context.Context, files map[string]string, opts BuildOpts) (*CompilerOutput, error) {
	out, err := c.buildSvc.Build(ctx, build.Request{
		Files:   model.NewFileMap(files),
		Options: toInternalCompilerOptions(opts.Compiler),
		Build: model.BuildOptions{
			Generators: toInternalGenerators(opts.Generators),
			NoEmit:     opts.NoEmit,
			NoWarn:     opts.NoWarn,
			Stdout:     opts.Stdout,
		},
		Env: opts.Env,
	})
	if err != nil {
		return nil, mapError(err)
	}

	return fromInternalCompilerOutput(out), nil
}

// Check type checks the schemas in files without generating code and returns
// the diagnostics. The first compiler exception fails the check with a [*CompilerError].
func (c *Client) Check(ctx context.Context, files map[string]string, opts *CheckOpts) (*CompilerOutput, error) {
	if opts == nil {
		opts = &CheckOpts{}
	}

	out, err := c.checkSvc.Check(ctx, check.Request{
		Files:   model.NewFileMap(files),
		Options: toInternalCompilerOptions(opts.Compiler),
		NoWarn:  opts.NoWarn,
		Env:     opts.Env,
	})
	if err != nil {
		return nil, mapError(err)
	}

	return fromInternalCompilerOutput(out), nil
}

// Init initializes a compiler project on top of files and returns only the
// files the compiler created (e.g. "/bebop.json").
func (c *Client) Init(ctx context.Context, files map[string]string, opts *InitOpts) (map[string]string, error) {
	if opts == nil {
		opts = &InitOpts{}
	}

	created, err := c.initSvc.Init(ctx, initialize.Request{
		Files:   model.NewFileMap(files),
		Options: toInternalCompilerOptions(opts.Compiler),
		Env:     opts.Env,
	})
	if err != nil {
		return nil, mapError(err)
	}

	return created, nil
}

// Version returns the compiler version.
func (c *Client) Version(ctx context.Context) (string, error) {
	v, err := c.versionSvc.Version(ctx, version.Request{})
	if err != nil {
		return "", mapError(err)
	}
	return v, nil
}

// Run runs the compiler with a raw argument vector (argv[0] included) and
// returns its exit code and streams without interpreting them. When the run
// produces files they replace stdout in the `// @filename: <path>` format.
//
// A non-zero exit code is not an error. Returns [ErrNotValid] for no files or no args.
func (c *Client) Run(ctx context.Context, files map[string]string, args []string, env map[string]string) (*InvocationResult, error) {
	res, err := c.invoker.Run(ctx, invoke.Request{
		Files: model.NewFileMap(files),
		Args:  model.ArgVector(args),
		Env:   env,
	})
	if err != nil {
		return nil, mapError(err)
	}

	return &InvocationResult{
		ExitCode: res.ExitCode,
		StdOut:   res.StdOut,
		StdErr:   res.StdErr,
	}, nil
}

// LanguageServer is not supported, it always returns [ErrNotSupported].
func (c *Client) LanguageServer(ctx context.Context) error {
	return mapError(fmt.Errorf("language server mode: %w", model.ErrNotSupported))
}

// Watch is not supported, it always returns [ErrNotSupported].
func (c *Client) Watch(ctx context.Context, files map[string]string, opts BuildOpts) error {
	return mapError(fmt.Errorf("watch mode: %w", model.ErrNotSupported))
}
