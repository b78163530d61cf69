package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/bopbridge/internal/app/check"
	"github.com/slok/bopbridge/internal/conventions"
	"github.com/slok/bopbridge/internal/model"
)

type CheckCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	root     string
	inputs   []string
	excludes []string
	noWarn   []int
	format   string
	compiler model.CompilerOptions
}

// NewCheckCommand returns the check command.
func NewCheckCommand(rootCmd *RootCommand, app *kingpin.Application) *CheckCommand {
	c := &CheckCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("check", "Type check schemas without generating code.")
	c.Cmd.Flag("root", "Project directory, inputs are relative to it.").Default(".").StringVar(&c.root)
	c.Cmd.Flag("input", "Schema files glob (supports **). Can be repeated.").Short('i').StringsVar(&c.inputs)
	c.Cmd.Flag("input-exclude", "Excluded schema files glob. Can be repeated.").StringsVar(&c.excludes)
	c.Cmd.Flag("no-warn", "Warning code to suppress. Can be repeated.").IntsVar(&c.noWarn)
	c.Cmd.Flag("format", "Output format (table, json).").Default(formatTable).EnumVar(&c.format, formatTable, formatJSON)
	registerCompilerFlags(c.Cmd, &c.compiler)

	return c
}

func (c CheckCommand) Name() string { return c.Cmd.FullCommand() }

func (c CheckCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	cmdEnv, err := c.rootCmd.Env()
	if err != nil {
		return err
	}

	inputs := c.inputs
	if len(inputs) == 0 {
		inputs = []string{conventions.SchemaGlob}
	}

	files, err := loadSources(ctx, logger, c.root, inputs, c.excludes)
	if err != nil {
		return fmt.Errorf("could not load sources: %w", err)
	}

	invoker, _, closeFn, err := newInvoker(ctx, c.rootCmd)
	if err != nil {
		return err
	}
	defer closeFn()

	svc, err := check.NewService(check.ServiceConfig{
		Invoker: invoker,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	out, err := svc.Check(ctx, check.Request{
		Files:   files,
		Options: c.compiler,
		NoWarn:  c.noWarn,
		Env:     cmdEnv,
	})
	if err != nil {
		return fmt.Errorf("could not check: %w", err)
	}

	if err := newPrinter(c.format, c.rootCmd.Stdout).PrintOutput(*out); err != nil {
		return fmt.Errorf("could not print output: %w", err)
	}

	if len(out.Errors) > 0 {
		return errors.New("schemas have errors")
	}

	return nil
}
