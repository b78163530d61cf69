package commands

import (
	"context"
	"fmt"

	"github.com/go-git/go-billy/v5/osfs"

	"github.com/slok/bopbridge/internal/log"
	"github.com/slok/bopbridge/internal/model"
	storageio "github.com/slok/bopbridge/internal/storage/io"
)

// loadSources reads the files matching the globs below dir.
func loadSources(ctx context.Context, logger log.Logger, dir string, include, exclude []string) (model.FileMap, error) {
	repo, err := storageio.NewFilesRepository(storageio.FilesRepositoryConfig{
		Filesystem: osfs.New(dir),
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create files repository: %w", err)
	}

	return repo.GetSources(ctx, include, exclude)
}

// saveFiles writes the files below dir.
func saveFiles(ctx context.Context, logger log.Logger, dir string, files model.FileMap) error {
	repo, err := storageio.NewFilesRepository(storageio.FilesRepositoryConfig{
		Filesystem: osfs.New(dir),
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create files repository: %w", err)
	}

	return repo.SaveFiles(ctx, files)
}

// resultFiles returns the generated files, auxiliary files included.
func resultFiles(out *model.CompilerOutput) model.FileMap {
	files := model.FileMap{}
	for _, r := range out.Results {
		files.Set(r.Name, r.Content)
		if r.AuxiliaryFile != nil {
			files.Set(r.AuxiliaryFile.Name, r.AuxiliaryFile.Content)
		}
	}
	return files
}
