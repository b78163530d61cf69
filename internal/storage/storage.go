package storage

import (
	"context"
	"time"

	"github.com/slok/bopbridge/internal/model"
)

// ManifestRepository is the interface to load build manifests.
type ManifestRepository interface {
	GetManifest(ctx context.Context, path string) (model.BuildManifest, error)
}

// WASMImageRepository is the interface to load compiler WASM images.
type WASMImageRepository interface {
	GetWASMImage(ctx context.Context, ref string) ([]byte, error)
}

// SourceRepository is the interface to load the compiler input files.
type SourceRepository interface {
	GetSources(ctx context.Context, include, exclude []string) (model.FileMap, error)
}

// OutputRepository is the interface to store the files the compiler generates.
type OutputRepository interface {
	SaveFiles(ctx context.Context, files model.FileMap) error
}

//go:generate mockery --case underscore --output storagemock --outpkg storagemock --name BuildCacheRepository

// BuildCacheRepository stores build outputs by the digest of the build inputs.
type BuildCacheRepository interface {
	// GetBuildOutput returns model.ErrNotFound when the key is not cached.
	GetBuildOutput(ctx context.Context, key string) (*model.CompilerOutput, error)
	SaveBuildOutput(ctx context.Context, key string, out model.CompilerOutput) error
	// PruneBuildOutputs removes the outputs stored before the time and returns how many were removed.
	PruneBuildOutputs(ctx context.Context, before time.Time) (int, error)
}
