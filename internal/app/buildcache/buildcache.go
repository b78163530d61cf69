// Package buildcache reuses the outputs of previous builds with the same inputs.
//
// The build service always runs the compiler, this layer sits in front of it for
// the callers that opt in (the CLI `--cache` flag).
package buildcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/opencontainers/go-digest"

	"github.com/slok/bopbridge/internal/app/build"
	"github.com/slok/bopbridge/internal/args"
	"github.com/slok/bopbridge/internal/log"
	"github.com/slok/bopbridge/internal/model"
	"github.com/slok/bopbridge/internal/storage"
)

// Builder runs builds.
type Builder interface {
	Build(ctx context.Context, req build.Request) (*model.CompilerOutput, error)
}

var _ Builder = &build.Service{}

// ServiceConfig is the configuration for the build cache service.
type ServiceConfig struct {
	Builder Builder
	Cache   storage.BuildCacheRepository
	// Salt identifies the compiler image in the cache keys.
	Salt   string
	Logger log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Builder == nil {
		return fmt.Errorf("builder is required")
	}
	if c.Cache == nil {
		return fmt.Errorf("cache is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.BuildCache"})
	return nil
}

// Service is a Builder that looks up the cache before building.
type Service struct {
	builder Builder
	cache   storage.BuildCacheRepository
	salt    string
	logger  log.Logger
}

// NewService creates a new build cache service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		builder: cfg.Builder,
		cache:   cfg.Cache,
		salt:    cfg.Salt,
		logger:  cfg.Logger,
	}, nil
}

// Build returns the cached output of an identical build, otherwise it builds and
// stores the output when it has no errors. Cache failures never fail the build.
func (s *Service) Build(ctx context.Context, req build.Request) (*model.CompilerOutput, error) {
	// 1. Lookup.
	key, err := Key(s.salt, req)
	if err != nil {
		return nil, err
	}

	cached, err := s.cache.GetBuildOutput(ctx, key)
	switch {
	case err == nil:
		s.logger.Debugf("Build output cache hit: %s", key)
		return cached.Normalize(), nil
	case !errors.Is(err, model.ErrNotFound):
		s.logger.Warningf("Could not get cached build output: %s", err)
	}

	// 2. Build.
	out, err := s.builder.Build(ctx, req)
	if err != nil {
		return nil, err
	}

	// 3. Store, only clean builds are reused.
	if len(out.Errors) == 0 {
		if err := s.cache.SaveBuildOutput(ctx, key, *out); err != nil {
			s.logger.Warningf("Could not cache build output: %s", err)
		}
	}

	return out, nil
}

// Key returns the digest identifying a build by everything the compiler sees.
func Key(salt string, req build.Request) (string, error) {
	// Map keys are sorted by the encoder so the key is stable.
	b, err := json.Marshal(struct {
		Salt  string            `json:"salt"`
		Args  []string          `json:"args"`
		Files map[string]string `json:"files"`
		Env   map[string]string `json:"env,omitempty"`
	}{
		Salt:  salt,
		Args:  args.Build(req.Options, req.Build),
		Files: model.NewFileMap(req.Files),
		Env:   req.Env,
	})
	if err != nil {
		return "", fmt.Errorf("could not encode cache key: %w", err)
	}

	return digest.FromBytes(b).String(), nil
}
