package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/slok/bopbridge/internal/app/invoke"
	"github.com/slok/bopbridge/internal/sandbox"
	"github.com/slok/bopbridge/internal/sandbox/fake"
	"github.com/slok/bopbridge/internal/sandbox/wasm"
	"github.com/slok/bopbridge/internal/storage/oci"
	"github.com/slok/bopbridge/internal/storage/sqlite"
)

// newEngine creates the engine selected with the global flags. The returned
// func releases it.
func newEngine(ctx context.Context, rootCmd *RootCommand) (sandbox.Engine, func(), error) {
	logger := rootCmd.Logger

	switch rootCmd.Engine {
	case EngineFake:
		eng, err := fake.NewEngine(fake.EngineConfig{Logger: logger})
		if err != nil {
			return nil, nil, err
		}
		return eng, func() {}, nil
	case EngineWASM:
		cfg := wasm.EngineConfig{
			WASMPath: rootCmd.WASMPath,
			MaxSleep: rootCmd.MaxSleep,
			Logger:   logger,
		}

		if rootCmd.OCILayout != "" {
			repo := oci.NewWASMLayoutRepository(os.DirFS(rootCmd.OCILayout))
			image, err := repo.GetWASMImage(ctx, rootCmd.OCIRef)
			if err != nil {
				return nil, nil, fmt.Errorf("could not load compiler image from OCI layout: %w", err)
			}
			cfg.WASM = image
			logger.Debugf("Compiler image loaded from OCI layout %s", rootCmd.OCILayout)
		}

		eng, err := wasm.NewEngine(cfg)
		if err != nil {
			return nil, nil, err
		}
		return eng, func() {
			if err := eng.Close(context.Background()); err != nil {
				logger.Warningf("Could not close WASM engine: %s", err)
			}
		}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported engine type: %s", rootCmd.Engine)
	}
}

// newInvoker creates the engine and the invoker on top of it.
func newInvoker(ctx context.Context, rootCmd *RootCommand) (invoke.Invoker, sandbox.Engine, func(), error) {
	eng, closeFn, err := newEngine(ctx, rootCmd)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("could not create engine: %w", err)
	}

	invoker, err := invoke.NewService(invoke.ServiceConfig{
		Engine: eng,
		Logger: rootCmd.Logger,
	})
	if err != nil {
		closeFn()
		return nil, nil, nil, fmt.Errorf("could not create invoker: %w", err)
	}

	return invoker, eng, closeFn, nil
}

// cacheSalt identifies the compiler the engine runs.
func cacheSalt(ctx context.Context, eng sandbox.Engine) (string, error) {
	switch e := eng.(type) {
	case *wasm.Engine:
		d, err := e.ImageDigest(ctx)
		if err != nil {
			return "", fmt.Errorf("could not get compiler image digest: %w", err)
		}
		return d.String(), nil
	default:
		return fake.Version, nil
	}
}

// newBuildCache opens the build cache database.
func newBuildCache(ctx context.Context, rootCmd *RootCommand, dbPath string) (*sqlite.Repository, func(), error) {
	repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
		DBPath: dbPath,
		Logger: rootCmd.Logger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("could not open build cache: %w", err)
	}

	return repo, func() {
		if err := repo.Close(); err != nil {
			rootCmd.Logger.Warningf("Could not close build cache: %s", err)
		}
	}, nil
}
