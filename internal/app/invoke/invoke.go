package invoke

import (
	"bytes"
	"context"
	"crypto/rand"
	"fmt"
	"os"
	"strings"
	"time"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/oklog/ulid/v2"

	"github.com/slok/bopbridge/internal/log"
	"github.com/slok/bopbridge/internal/model"
	"github.com/slok/bopbridge/internal/multiplex"
	"github.com/slok/bopbridge/internal/sandbox"
	"github.com/slok/bopbridge/internal/utils/env"
)

//go:generate mockery --case underscore --output invokemock --outpkg invokemock --name Invoker

// Invoker runs the compiler once against a set of in-memory files.
type Invoker interface {
	Run(ctx context.Context, req Request) (*model.InvocationResult, error)
}

// ServiceConfig is the configuration for the invoke service.
type ServiceConfig struct {
	Engine sandbox.Engine
	Logger log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Engine == nil {
		return fmt.Errorf("engine is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Invoke"})
	return nil
}

// Service runs the compiler in the sandbox engine, every run gets its own
// in-memory filesystem.
type Service struct {
	engine sandbox.Engine
	logger log.Logger
}

// NewService creates a new invoke service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		engine: cfg.Engine,
		logger: cfg.Logger,
	}, nil
}

// Request contains the parameters for a compiler run.
type Request struct {
	// Files are seeded in the filesystem before the run.
	Files model.FileMap
	// Args is the full argument vector, argv[0] included.
	Args model.ArgVector
	// Env contains additional environment variables for the compiler.
	Env map[string]string
}

// Run runs the compiler to completion and returns its exit code and streams.
// When the run produces files (a build not printing to stdout, or an init) the
// files created by the run replace stdout, multiplexed.
func (s *Service) Run(ctx context.Context, req Request) (*model.InvocationResult, error) {
	// 1. Validate.
	if len(req.Files) == 0 {
		return nil, fmt.Errorf("no input files: %w", model.ErrNotValid)
	}
	if len(req.Args) == 0 {
		return nil, fmt.Errorf("args cannot be empty: %w", model.ErrNotValid)
	}
	if err := env.ValidateMap(req.Env); err != nil {
		return nil, err
	}

	// Once started a run can't be cancelled.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id := ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
	logger := s.logger.WithValues(log.Kv{"invocation-id": id})

	// 2. Seed the filesystem.
	fsys := memfs.New()
	seeded := make(map[string]struct{}, len(req.Files))
	for _, p := range req.Files.Paths() {
		path := model.NormalizePath(p)
		if err := util.WriteFile(fsys, path, []byte(req.Files[p]), 0o644); err != nil {
			return nil, fmt.Errorf("could not seed file %q: %w", path, err)
		}
		seeded[path] = struct{}{}
	}
	logger.Debugf("Seeded %d files", len(seeded))

	// 3. Run.
	var stdout, stderr bytes.Buffer
	res, err := s.engine.Exec(ctx, fsys, req.Args, model.ExecOpts{
		Env:    req.Env,
		Stdout: &stdout,
		Stderr: &stderr,
	})
	if err != nil {
		return nil, fmt.Errorf("could not run compiler: %w", err)
	}

	result := &model.InvocationResult{
		ExitCode: res.ExitCode,
		StdOut:   strings.ToValidUTF8(stdout.String(), "�"),
		StdErr:   strings.ToValidUTF8(stderr.String(), "�"),
	}

	// 4. Collect produced files.
	if producesFiles(req.Args) {
		produced, err := producedFiles(fsys, seeded)
		if err != nil {
			return nil, fmt.Errorf("could not collect produced files: %w", err)
		}
		logger.Debugf("Collected %d produced files", len(produced))
		result.StdOut = multiplex.Encode(produced)
	}

	logger.Debugf("Compiler exited with code %d", result.ExitCode)

	return result, nil
}

func producesFiles(args model.ArgVector) bool {
	if args.Has("--init") {
		return true
	}
	return args.Has("build") && !args.Has("--stdout")
}

// producedFiles walks the filesystem depth first and returns the files that
// were not seeded.
func producedFiles(fsys billy.Filesystem, seeded map[string]struct{}) (model.FileMap, error) {
	produced := model.FileMap{}
	err := util.Walk(fsys, "/", func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		path = model.NormalizePath(path)
		if _, ok := seeded[path]; ok {
			return nil
		}

		content, err := util.ReadFile(fsys, path)
		if err != nil {
			return err
		}
		produced[path] = strings.ToValidUTF8(string(content), "�")
		return nil
	})
	if err != nil {
		return nil, err
	}

	return produced, nil
}
