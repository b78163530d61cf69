package io

import (
	"context"
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"

	"github.com/slok/bopbridge/internal/model"
)

// ManifestYAMLRepository loads build manifests from YAML files.
type ManifestYAMLRepository struct {
	fs         fs.FS
	generators map[string]model.GeneratorSpec
}

// NewManifestYAMLRepository creates a new YAML manifest repository.
func NewManifestYAMLRepository(filesystem fs.FS) *ManifestYAMLRepository {
	return &ManifestYAMLRepository{fs: filesystem, generators: model.Generators}
}

// GetManifest loads a build manifest from a YAML file and returns a validated domain model.
func (r *ManifestYAMLRepository) GetManifest(ctx context.Context, path string) (model.BuildManifest, error) {
	data, err := fs.ReadFile(r.fs, path)
	if err != nil {
		return model.BuildManifest{}, fmt.Errorf("reading manifest file: %w", err)
	}

	if ctx.Err() != nil {
		return model.BuildManifest{}, ctx.Err()
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return model.BuildManifest{}, fmt.Errorf("parsing YAML: %w", err)
	}

	if err := m.validate(r.generators); err != nil {
		return model.BuildManifest{}, fmt.Errorf("invalid manifest: %w: %w", err, model.ErrNotValid)
	}

	return m.toModel(), nil
}

// Manifest represents the YAML structure of a build manifest.
type Manifest struct {
	Sources    []string                `yaml:"sources"`
	Generators []model.GeneratorConfig `yaml:"generators"`
	NoWarn     []int                   `yaml:"no_warn"`
	Compiler   CompilerConfig          `yaml:"compiler"`
	Env        map[string]string       `yaml:"env"`
}

// CompilerConfig represents the YAML structure of the compiler root options.
type CompilerConfig struct {
	Config  string   `yaml:"config"`
	Trace   bool     `yaml:"trace"`
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`
	Locale  string   `yaml:"locale"`
}

func (m Manifest) validate(generators map[string]model.GeneratorSpec) error {
	if len(m.Sources) == 0 {
		return fmt.Errorf("at least one source pattern is required")
	}

	for i, g := range m.Generators {
		if g.Alias == "" {
			return fmt.Errorf("generators[%d]: alias is required", i)
		}
		if _, ok := generators[g.Alias]; !ok {
			return fmt.Errorf("generators[%d]: unknown alias %q", i, g.Alias)
		}
		if g.OutFile == "" {
			return fmt.Errorf("generators[%d]: out_file is required", i)
		}
	}

	for _, code := range m.NoWarn {
		if code <= 0 {
			return fmt.Errorf("no_warn codes must be positive, got: %d", code)
		}
	}

	return nil
}

func (m Manifest) toModel() model.BuildManifest {
	return model.BuildManifest{
		Sources:    m.Sources,
		Generators: m.Generators,
		NoWarn:     m.NoWarn,
		Env:        m.Env,
		Options: model.CompilerOptions{
			Config:  m.Compiler.Config,
			Trace:   m.Compiler.Trace,
			Include: m.Compiler.Include,
			Exclude: m.Compiler.Exclude,
			Locale:  m.Compiler.Locale,
		},
	}
}
