package io

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/helper/iofs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/slok/bopbridge/internal/log"
	"github.com/slok/bopbridge/internal/model"
)

// FilesRepositoryConfig is the configuration for the files repository.
type FilesRepositoryConfig struct {
	// Filesystem is the root every path is resolved against (e.g. an osfs on the project dir).
	Filesystem billy.Filesystem
	Logger     log.Logger
}

func (c *FilesRepositoryConfig) defaults() error {
	if c.Filesystem == nil {
		return fmt.Errorf("filesystem is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.Files"})
	return nil
}

// FilesRepository reads compiler inputs and writes compiler outputs on a billy filesystem.
// Paths inside the filesystem map one to one to FileMap paths.
type FilesRepository struct {
	fs     billy.Filesystem
	logger log.Logger
}

// NewFilesRepository creates a new files repository.
func NewFilesRepository(cfg FilesRepositoryConfig) (*FilesRepository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &FilesRepository{fs: cfg.Filesystem, logger: cfg.Logger}, nil
}

// GetSources returns the files matching any include glob and no exclude glob.
// Globs support `**` and are relative to the filesystem root.
func (r *FilesRepository) GetSources(ctx context.Context, include, exclude []string) (model.FileMap, error) {
	if len(include) == 0 {
		return nil, fmt.Errorf("at least one include pattern is required: %w", model.ErrNotValid)
	}

	for _, p := range append(append([]string{}, include...), exclude...) {
		if !doublestar.ValidatePattern(globPattern(p)) {
			return nil, fmt.Errorf("invalid pattern %q: %w", p, model.ErrNotValid)
		}
	}

	fsys := iofs.New(r.fs)
	files := model.FileMap{}
	for _, pattern := range include {
		matches, err := doublestar.Glob(fsys, globPattern(pattern), doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("could not glob %q: %w", pattern, err)
		}

		for _, m := range matches {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if excluded(m, exclude) {
				continue
			}

			data, err := util.ReadFile(r.fs, m)
			if err != nil {
				return nil, fmt.Errorf("could not read %q: %w", m, err)
			}
			files.Set(m, string(data))
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no files match %v: %w", include, model.ErrNotFound)
	}
	r.logger.Debugf("Loaded %d source files", len(files))

	return files, nil
}

// SaveFiles writes the files, creating the missing directories.
func (r *FilesRepository) SaveFiles(ctx context.Context, files model.FileMap) error {
	for _, p := range files.Paths() {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if err := util.WriteFile(r.fs, p, []byte(files[p]), 0o644); err != nil {
			return fmt.Errorf("could not write %q: %w", p, err)
		}
		r.logger.Debugf("Wrote %s", p)
	}

	return nil
}

// globPattern returns the fs.FS form of a pattern: slash separated, unrooted and clean.
func globPattern(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	p = strings.TrimLeft(path.Clean("/"+p), "/")
	if p == "" {
		return "."
	}
	return p
}

func excluded(name string, exclude []string) bool {
	for _, e := range exclude {
		if ok, _ := doublestar.Match(globPattern(e), name); ok {
			return true
		}
	}
	return false
}
