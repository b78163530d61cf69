package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/slok/bopbridge/internal/log"
	"github.com/slok/bopbridge/internal/model"
	"github.com/slok/bopbridge/internal/storage/sqlite/migrations"
)

// RepositoryConfig is the configuration for the SQLite repository.
type RepositoryConfig struct {
	DBPath string
	// Now returns the current time, defaults to time.Now.
	Now    func() time.Time
	Logger log.Logger
}

func (c *RepositoryConfig) defaults() error {
	if c.DBPath == "" {
		return fmt.Errorf("db path is required")
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.SQLite"})
	return nil
}

// Repository is a SQLite implementation of storage.BuildCacheRepository.
type Repository struct {
	db     *sql.DB
	now    func() time.Time
	logger log.Logger
}

// NewRepository creates a new SQLite repository, the database is created and
// migrated if required.
func NewRepository(ctx context.Context, cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	dir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("could not create db directory: %w", err)
	}

	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", cfg.DBPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}

	if err := migrations.Up(ctx, db, cfg.Logger); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not run migrations: %w", err)
	}

	cfg.Logger.Debugf("SQLite repository initialized at %s", cfg.DBPath)

	return &Repository{db: db, now: cfg.Now, logger: cfg.Logger}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error { return r.db.Close() }

// GetBuildOutput returns the cached build output.
func (r *Repository) GetBuildOutput(ctx context.Context, key string) (*model.CompilerOutput, error) {
	query := `SELECT output FROM build_outputs WHERE cache_key = ?`

	var data string
	err := r.db.QueryRowContext(ctx, query, key).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("build output %s: %w", key, model.ErrNotFound)
		}
		return nil, fmt.Errorf("could not query build output: %w", err)
	}

	var out model.CompilerOutput
	if err := json.Unmarshal([]byte(data), &out); err != nil {
		return nil, fmt.Errorf("could not decode build output %s: %w", key, err)
	}

	return &out, nil
}

// SaveBuildOutput stores the build output, replacing the previous one with the same key.
func (r *Repository) SaveBuildOutput(ctx context.Context, key string, out model.CompilerOutput) error {
	if key == "" {
		return fmt.Errorf("key is required: %w", model.ErrNotValid)
	}

	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("could not encode build output: %w", err)
	}

	query := `
		INSERT INTO build_outputs (cache_key, output, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(cache_key) DO UPDATE SET
			output = excluded.output,
			created_at = excluded.created_at
	`

	_, err = r.db.ExecContext(ctx, query, key, string(data), r.now().UnixNano())
	if err != nil {
		return fmt.Errorf("could not save build output: %w", err)
	}

	r.logger.Debugf("Saved build output: %s", key)
	return nil
}

// PruneBuildOutputs removes the build outputs saved before the time.
func (r *Repository) PruneBuildOutputs(ctx context.Context, before time.Time) (int, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM build_outputs WHERE created_at < ?`, before.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("could not prune build outputs: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("could not get affected rows: %w", err)
	}

	r.logger.Debugf("Pruned %d build outputs", n)
	return int(n), nil
}
