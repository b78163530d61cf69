package fake

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/slok/bopbridge/internal/args"
	"github.com/slok/bopbridge/internal/conventions"
	"github.com/slok/bopbridge/internal/log"
	"github.com/slok/bopbridge/internal/model"
)

// Version is what the default program prints for --version.
const Version = "bebopc 0.0.0-fake"

// ErrorMarker makes the default program fail with a compiler exception when
// an input file contains it.
const ErrorMarker = "@fake-error"

// Program simulates one compiler run against the invocation filesystem.
type Program func(ctx context.Context, fsys billy.Filesystem, args []string, stdout, stderr io.Writer) (exitCode int, err error)

// EngineConfig is the configuration for the fake engine.
type EngineConfig struct {
	// Program is run on every Exec, defaults to EchoProgram.
	Program Program
	// Checks are returned by Check, defaults to a single OK check.
	Checks []model.CheckResult
	Logger log.Logger
}

func (c *EngineConfig) defaults() error {
	if c.Program == nil {
		c.Program = EchoProgram
	}

	if c.Checks == nil {
		c.Checks = []model.CheckResult{{
			ID:      "fake_engine",
			Message: "Fake engine is always ready",
			Status:  model.CheckStatusOK,
		}}
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "engine.Fake"})
	return nil
}

// Engine is a fake implementation of the sandbox.Engine interface.
// It runs a Go program in place of the compiler, without any sandbox.
type Engine struct {
	program Program
	checks  []model.CheckResult
	calls   [][]string
	mu      sync.Mutex
	logger  log.Logger
}

// NewEngine creates a new fake engine.
func NewEngine(cfg EngineConfig) (*Engine, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Engine{
		program: cfg.Program,
		checks:  cfg.Checks,
		logger:  cfg.Logger,
	}, nil
}

// Check returns the configured check results.
func (e *Engine) Check(ctx context.Context) []model.CheckResult {
	return e.checks
}

// Exec runs the program.
func (e *Engine) Exec(ctx context.Context, fsys billy.Filesystem, args []string, opts model.ExecOpts) (*model.ExecResult, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("args cannot be empty: %w", model.ErrNotValid)
	}

	e.mu.Lock()
	e.calls = append(e.calls, append([]string(nil), args...))
	e.mu.Unlock()

	stdout := opts.Stdout
	if stdout == nil {
		stdout = io.Discard
	}
	stderr := opts.Stderr
	if stderr == nil {
		stderr = io.Discard
	}

	e.logger.Debugf("Running fake compiler: %v", args)

	code, err := e.program(ctx, fsys, args, stdout, stderr)
	if err != nil {
		return nil, err
	}

	return &model.ExecResult{ExitCode: code}, nil
}

// Calls returns the argument vectors of every Exec so far.
func (e *Engine) Calls() [][]string {
	e.mu.Lock()
	defer e.mu.Unlock()

	calls := make([][]string, 0, len(e.calls))
	for _, c := range e.calls {
		calls = append(calls, append([]string(nil), c...))
	}
	return calls
}

// EchoProgram behaves like an identity compiler: every requested generator
// output gets the concatenated schema sources (in path order).
//
//   - `--version` prints Version.
//   - `--init` creates `/bebop.json`.
//   - `build --stdout` prints the results as compiler output JSON instead of writing files.
//   - `build --no-emit` writes nothing.
//   - An input containing ErrorMarker makes it exit 400 with a compiler exception on stderr.
func EchoProgram(ctx context.Context, fsys billy.Filesystem, args []string, stdout, stderr io.Writer) (int, error) {
	argv := model.ArgVector(args)

	if argv.Has("--version") {
		fmt.Fprintln(stdout, Version)
		return 0, nil
	}

	if argv.Has("--init") {
		project := fmt.Sprintf(`{"include":[%q]}`, conventions.SchemaGlob)
		err := util.WriteFile(fsys, "/"+conventions.ProjectFile, []byte(project), 0o644)
		if err != nil {
			return 0, fmt.Errorf("could not write init file: %w", err)
		}
		return 0, nil
	}

	sources, err := readSources(fsys)
	if err != nil {
		return 0, err
	}

	for _, path := range sources.Paths() {
		if strings.Contains(sources[path], ErrorMarker) {
			exc := model.Diagnostic{
				Severity:  model.SeverityError,
				Message:   "fake compiler error",
				ErrorCode: 400,
				Span:      &model.Span{FileName: path},
			}
			b, _ := json.Marshal(exc)
			fmt.Fprintf(stderr, "Error: %s\n", b)
			return 400, nil
		}
	}

	if !argv.Has("build") || argv.Has("--no-emit") {
		return 0, nil
	}

	var content strings.Builder
	for _, path := range sources.Paths() {
		content.WriteString(sources[path])
	}

	var results []model.GeneratedFile
	for _, spec := range flagValues(args, "--generator") {
		res, err := generate(spec, content.String())
		if err != nil {
			fmt.Fprintf(stderr, "Error: %s\n", err)
			return 1, nil
		}
		results = append(results, res)
	}

	if argv.Has("--stdout") {
		out := model.CompilerOutput{Warnings: []model.Diagnostic{}, Errors: []model.Diagnostic{}, Results: results}
		if err := json.NewEncoder(stdout).Encode(out); err != nil {
			return 0, err
		}
		return 0, nil
	}

	for _, res := range results {
		if err := util.WriteFile(fsys, res.Name, []byte(res.Content), 0o644); err != nil {
			return 0, fmt.Errorf("could not write %q: %w", res.Name, err)
		}
		if res.AuxiliaryFile != nil {
			if err := util.WriteFile(fsys, res.AuxiliaryFile.Name, []byte(res.AuxiliaryFile.Content), 0o644); err != nil {
				return 0, fmt.Errorf("could not write %q: %w", res.AuxiliaryFile.Name, err)
			}
		}
	}

	return 0, nil
}

func generate(spec, content string) (model.GeneratedFile, error) {
	cfg, err := args.ParseGeneratorSpec(spec)
	if err != nil {
		return model.GeneratedFile{}, fmt.Errorf("invalid generator %q", spec)
	}

	gen, ok := model.Generators[cfg.Alias]
	if !ok {
		return model.GeneratedFile{}, fmt.Errorf("unknown generator %q", cfg.Alias)
	}

	name := model.NormalizePath(cfg.OutFile)
	res := model.GeneratedFile{Name: name, Content: content, Generator: cfg.Alias}
	if gen.AuxiliaryExtension != "" {
		res.AuxiliaryFile = &model.AuxiliaryFile{
			Name:    strings.TrimSuffix(name, gen.Extension) + gen.AuxiliaryExtension,
			Content: content,
		}
	}

	return res, nil
}

func readSources(fsys billy.Filesystem) (model.FileMap, error) {
	sources := model.FileMap{}
	err := util.Walk(fsys, "/", func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(path, ".bop") {
			return nil
		}

		b, err := util.ReadFile(fsys, path)
		if err != nil {
			return err
		}
		sources.Set(path, string(b))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("could not read sources: %w", err)
	}

	return sources, nil
}

// flagValues returns the token following every occurrence of the flag.
func flagValues(args []string, flag string) []string {
	var values []string
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag {
			values = append(values, args[i+1])
		}
	}
	return values
}
