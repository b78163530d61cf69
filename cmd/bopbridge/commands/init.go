package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/bopbridge/internal/app/initialize"
	"github.com/slok/bopbridge/internal/conventions"
	"github.com/slok/bopbridge/internal/model"
)

type InitCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	root   string
	dryRun bool
	format string
}

// NewInitCommand returns the init command.
func NewInitCommand(rootCmd *RootCommand, app *kingpin.Application) *InitCommand {
	c := &InitCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("init", "Initialize a compiler project.")
	c.Cmd.Flag("root", "Project directory.").Default(".").StringVar(&c.root)
	c.Cmd.Flag("dry-run", "Don't write the created files.").BoolVar(&c.dryRun)
	c.Cmd.Flag("format", "Output format (table, json).").Default(formatTable).EnumVar(&c.format, formatTable, formatJSON)

	return c
}

func (c InitCommand) Name() string { return c.Cmd.FullCommand() }

func (c InitCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	cmdEnv, err := c.rootCmd.Env()
	if err != nil {
		return err
	}

	files, err := seedFiles(ctx, c.rootCmd, c.root, []string{conventions.SchemaGlob})
	if err != nil {
		return err
	}

	invoker, _, closeFn, err := newInvoker(ctx, c.rootCmd)
	if err != nil {
		return err
	}
	defer closeFn()

	svc, err := initialize.NewService(initialize.ServiceConfig{
		Invoker: invoker,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	created, err := svc.Init(ctx, initialize.Request{Files: files, Env: cmdEnv})
	if err != nil {
		return fmt.Errorf("could not initialize project: %w", err)
	}

	if !c.dryRun {
		if err := saveFiles(ctx, logger, c.root, created); err != nil {
			return fmt.Errorf("could not write created files: %w", err)
		}
		logger.Infof("%d files created on %s", len(created), c.root)
	}

	return newPrinter(c.format, c.rootCmd.Stdout).PrintFiles(created)
}

// seedFiles loads the files used to seed a run, the compiler requires at
// least one so an empty placeholder is used when nothing matches.
func seedFiles(ctx context.Context, rootCmd *RootCommand, dir string, include []string) (model.FileMap, error) {
	files, err := loadSources(ctx, rootCmd.Logger, dir, include, nil)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return nil, fmt.Errorf("could not load sources: %w", err)
	}

	if len(files) == 0 {
		rootCmd.Logger.Debugf("No sources found, seeding a placeholder file")
		files = model.FileMap{"/.keep": ""}
	}

	return files, nil
}
