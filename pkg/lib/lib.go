package lib

import (
	"context"
	"fmt"
	"os"
	"time"

	"k8s.io/client-go/util/homedir"

	"github.com/slok/bopbridge/internal/app/build"
	"github.com/slok/bopbridge/internal/app/check"
	"github.com/slok/bopbridge/internal/app/initialize"
	"github.com/slok/bopbridge/internal/app/invoke"
	"github.com/slok/bopbridge/internal/app/version"
	"github.com/slok/bopbridge/internal/conventions"
	"github.com/slok/bopbridge/internal/sandbox"
	"github.com/slok/bopbridge/internal/sandbox/fake"
	"github.com/slok/bopbridge/internal/sandbox/wasm"
	"github.com/slok/bopbridge/internal/storage/oci"
	"github.com/slok/bopbridge/pkg/lib/log"
)

// Config configures the SDK client.
//
// All fields are optional. An empty Config{} uses the WASM engine with the
// compiler image at $BOPBRIDGE_WASM_PATH or ~/.bopbridge/bebopc.wasm.
type Config struct {
	// Engine selects the engine, defaults to [EngineWASM].
	// Set this to [EngineFake] for testing without the compiler image.
	Engine EngineType

	// WASM is the compiler image, it takes precedence over the other image sources.
	WASM []byte

	// OCILayoutDir is an OCI image layout directory holding the compiler image
	// as a WASM artifact. OCIRef selects the manifest when there are several.
	OCILayoutDir string
	OCIRef       string

	// WASMPath is the path of the compiler image.
	// Default: $BOPBRIDGE_WASM_PATH or ~/.bopbridge/bebopc.wasm.
	WASMPath string

	// Env contains environment variables every compiler run gets.
	Env map[string]string

	// MaxSleep caps every compiler sleep when set.
	// Default: 0, sleeps block for the requested time.
	MaxSleep time.Duration

	// Logger receives structured log output from the SDK.
	// Default: noop (silent). See the log sub-package for the interface.
	Logger log.Logger
}

func (c *Config) defaults() error {
	if c.Engine == "" {
		c.Engine = EngineWASM
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}

	if c.Engine == EngineWASM && len(c.WASM) == 0 && c.OCILayoutDir == "" && c.WASMPath == "" {
		c.WASMPath = os.Getenv(conventions.WASMPathEnvVar)
		if c.WASMPath == "" {
			c.WASMPath = conventions.DefaultWASMPath(homedir.HomeDir())
		}
	}

	return nil
}

// Client is the main SDK entry point for running the compiler programmatically.
//
// Create a Client with [New] and release its resources with [Client.Close].
// A Client is safe for concurrent use, the compiler image is compiled once
// and shared by every call.
type Client struct {
	engine     sandbox.Engine
	invoker    invoke.Invoker
	buildSvc   *build.Service
	checkSvc   *check.Service
	initSvc    *initialize.Service
	versionSvc *version.Service
	logger     log.Logger
	closeFn    func(ctx context.Context) error
}

// New creates a new SDK client.
//
// The compiler image is loaded and compiled on the first call that needs it.
// The caller must call [Client.Close] when done:
//
//	client, err := lib.New(ctx, lib.Config{WASMPath: "./bebopc.wasm"})
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
func New(ctx context.Context, cfg Config) (*Client, error) {
	if err := cfg.defaults(); err != nil {
		return nil, mapError(fmt.Errorf("invalid config: %w", err))
	}

	c := &Client{logger: cfg.Logger}

	eng, closeFn, err := newEngine(ctx, cfg)
	if err != nil {
		return nil, mapError(fmt.Errorf("could not create engine: %w", err))
	}
	c.engine = eng
	c.closeFn = closeFn

	c.invoker, err = invoke.NewService(invoke.ServiceConfig{Engine: eng, Logger: cfg.Logger})
	if err != nil {
		return nil, fmt.Errorf("could not create invoke service: %w", err)
	}

	c.buildSvc, err = build.NewService(build.ServiceConfig{Invoker: c.invoker, Logger: cfg.Logger})
	if err != nil {
		return nil, fmt.Errorf("could not create build service: %w", err)
	}

	c.checkSvc, err = check.NewService(check.ServiceConfig{Invoker: c.invoker, Logger: cfg.Logger})
	if err != nil {
		return nil, fmt.Errorf("could not create check service: %w", err)
	}

	c.initSvc, err = initialize.NewService(initialize.ServiceConfig{Invoker: c.invoker, Logger: cfg.Logger})
	if err != nil {
		return nil, fmt.Errorf("could not create initialize service: %w", err)
	}

	c.versionSvc, err = version.NewService(version.ServiceConfig{Invoker: c.invoker, Logger: cfg.Logger})
	if err != nil {
		return nil, fmt.Errorf("could not create version service: %w", err)
	}

	return c, nil
}

// Close releases the compiler runtime. After Close returns, the client must not be used.
func (c *Client) Close() error {
	if c.closeFn != nil {
		return c.closeFn(context.Background())
	}
	return nil
}

// newEngine creates the engine selected by the config.
func newEngine(ctx context.Context, cfg Config) (sandbox.Engine, func(context.Context) error, error) {
	switch cfg.Engine {
	case EngineWASM:
		image := cfg.WASM
		if len(image) == 0 && cfg.OCILayoutDir != "" {
			repo := oci.NewWASMLayoutRepository(os.DirFS(cfg.OCILayoutDir))
			var err error
			image, err = repo.GetWASMImage(ctx, cfg.OCIRef)
			if err != nil {
				return nil, nil, fmt.Errorf("could not load image from OCI layout %q: %w", cfg.OCILayoutDir, err)
			}
		}

		eng, err := wasm.NewEngine(wasm.EngineConfig{
			WASM:     image,
			WASMPath: cfg.WASMPath,
			Env:      cfg.Env,
			MaxSleep: cfg.MaxSleep,
			Logger:   cfg.Logger,
		})
		if err != nil {
			return nil, nil, err
		}
		return eng, eng.Close, nil
	case EngineFake:
		eng, err := fake.NewEngine(fake.EngineConfig{Logger: cfg.Logger})
		if err != nil {
			return nil, nil, err
		}
		return eng, nil, nil
	default:
		return nil, nil, fmt.Errorf("unsupported engine type: %s: %w", cfg.Engine, ErrNotValid)
	}
}

// Doctor runs preflight health checks for the configured engine.
//
// For [EngineWASM], this checks the compiler image can be loaded and compiled,
// and that it is a WASI command. For [EngineFake], it always succeeds.
//
// Returns a slice of [CheckResult] describing each check's outcome.
func (c *Client) Doctor(ctx context.Context) ([]CheckResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := c.engine.Check(ctx)
	return fromInternalCheckResults(results), nil
}
