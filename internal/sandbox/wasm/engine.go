package wasm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	billy "github.com/go-git/go-billy/v5"
	"github.com/opencontainers/go-digest"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/experimental/sysfs"
	"github.com/tetratelabs/wazero/sys"

	"github.com/slok/bopbridge/internal/log"
	"github.com/slok/bopbridge/internal/model"
	"github.com/slok/bopbridge/internal/utils/env"
)

const (
	// FaultExitCode is the exit code reported when the guest stops without
	// setting one (traps, runtime faults).
	FaultExitCode = 127
)

// DefaultEnv is the environment every invocation gets.
var DefaultEnv = map[string]string{
	"RUST_BACKTRACE": "full",
}

// EngineConfig is the configuration for the WASM engine.
type EngineConfig struct {
	// WASM is the compiler image, takes precedence over WASMPath.
	WASM []byte
	// WASMPath is the path of the compiler image on the host.
	WASMPath string
	// Env is merged on top of DefaultEnv.
	Env map[string]string
	// MaxSleep caps every guest sleep when positive, by default sleeps
	// block for the requested time.
	MaxSleep time.Duration
	Logger   log.Logger
}

func (c *EngineConfig) defaults() error {
	if len(c.WASM) == 0 && c.WASMPath == "" {
		return fmt.Errorf("wasm image or wasm path is required")
	}

	c.Env = env.MergeMaps(DefaultEnv, c.Env)

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "engine.WASM"})

	return nil
}

// Engine runs the compiler as a WASI module on wazero. Every Exec gets its
// own module instance, the compiled image is shared.
type Engine struct {
	image    *image
	env      map[string]string
	maxSleep time.Duration
	logger   log.Logger
}

// NewEngine creates a new WASM engine. The image is not loaded until it's needed.
func NewEngine(cfg EngineConfig) (*Engine, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Engine{
		image:    newImage(cfg.WASM, cfg.WASMPath),
		env:      cfg.Env,
		maxSleep: cfg.MaxSleep,
		logger:   cfg.Logger,
	}, nil
}

// Check performs preflight checks on the compiler image.
func (e *Engine) Check(ctx context.Context) []model.CheckResult {
	_, compiled, err := e.image.get(ctx)
	if err != nil {
		return []model.CheckResult{{
			ID:      "wasm_compile",
			Message: fmt.Sprintf("Compiler image could not be compiled: %v", err),
			Status:  model.CheckStatusError,
		}}
	}

	results := []model.CheckResult{{
		ID:      "wasm_compile",
		Message: "Compiler image compiled",
		Status:  model.CheckStatusOK,
	}}

	if _, ok := compiled.ExportedFunctions()["_start"]; ok {
		results = append(results, model.CheckResult{
			ID:      "wasi_command",
			Message: "Compiler image is a WASI command (exports _start)",
			Status:  model.CheckStatusOK,
		})
	} else {
		results = append(results, model.CheckResult{
			ID:      "wasi_command",
			Message: "Compiler image does not export _start",
			Status:  model.CheckStatusError,
		})
	}

	if _, ok := compiled.ExportedMemories()["memory"]; ok {
		results = append(results, model.CheckResult{
			ID:      "wasi_memory",
			Message: "Compiler image exports its memory",
			Status:  model.CheckStatusOK,
		})
	} else {
		results = append(results, model.CheckResult{
			ID:      "wasi_memory",
			Message: "Compiler image does not export memory",
			Status:  model.CheckStatusError,
		})
	}

	return results
}

// ImageDigest returns the digest of the compiler image, loading it if required.
func (e *Engine) ImageDigest(ctx context.Context) (digest.Digest, error) {
	if _, _, err := e.image.get(ctx); err != nil {
		return "", err
	}
	return e.image.digest, nil
}

// Exec runs the compiler once to completion.
func (e *Engine) Exec(ctx context.Context, fsys billy.Filesystem, args []string, opts model.ExecOpts) (*model.ExecResult, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("args cannot be empty: %w", model.ErrNotValid)
	}

	runtime, compiled, err := e.image.get(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not load compiler image: %w", err)
	}

	stdout := opts.Stdout
	if stdout == nil {
		stdout = io.Discard
	}
	stderr := opts.Stderr
	if stderr == nil {
		stderr = io.Discard
	}

	sl := newSleeper(e.maxSleep)
	defer sl.Stop()

	cfg := wazero.NewModuleConfig().
		WithName("").
		WithArgs(args...).
		WithStdout(stdout).
		WithStderr(stderr).
		WithSysWalltime().
		WithSysNanotime().
		WithNanosleep(sl.Sleep).
		WithFSConfig(wazero.NewFSConfig().(sysfs.FSConfig).WithSysFSMount(newGuestFS(fsys), "/"))

	vars := env.MergeMaps(e.env, opts.Env)
	for _, k := range env.SortedKeys(vars) {
		cfg = cfg.WithEnv(k, vars[k])
	}

	e.logger.Debugf("Running compiler: %v", args)

	// Once started the run is not cancellable.
	runCtx := context.WithoutCancel(ctx)
	mod, err := runtime.InstantiateModule(runCtx, compiled, cfg)
	if mod != nil {
		defer mod.Close(runCtx)
	}

	if err == nil {
		return &model.ExecResult{ExitCode: 0}, nil
	}

	var exitErr *sys.ExitError
	if errors.As(err, &exitErr) {
		return &model.ExecResult{ExitCode: int(exitErr.ExitCode())}, nil
	}

	e.logger.Warningf("Compiler stopped without exit code: %v", err)
	fmt.Fprintf(stderr, "\n%s\n", err)

	return &model.ExecResult{ExitCode: FaultExitCode}, nil
}

// Close releases the compiled image and its runtime.
func (e *Engine) Close(ctx context.Context) error {
	return e.image.close(ctx)
}
