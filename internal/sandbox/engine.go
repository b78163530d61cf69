package sandbox

import (
	"context"

	billy "github.com/go-git/go-billy/v5"

	"github.com/slok/bopbridge/internal/model"
)

//go:generate mockery --case underscore --output sandboxmock --outpkg sandboxmock --name Engine

// Engine is the interface for running the compiler inside an isolated sandbox.
type Engine interface {
	// Check performs preflight checks and returns the results.
	// Checks verify that the engine can load and instantiate the compiler image.
	Check(ctx context.Context) []model.CheckResult

	// Exec runs the compiler once with the given argument vector (argv[0] included).
	// The filesystem is mounted as the guest root, everything the guest writes
	// ends up there. A non-zero exit code is not an error, errors are reserved
	// for failures to start the run at all.
	Exec(ctx context.Context, fsys billy.Filesystem, args []string, opts model.ExecOpts) (*model.ExecResult, error)
}
