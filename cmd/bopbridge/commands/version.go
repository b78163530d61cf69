package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/bopbridge/internal/app/version"
)

type VersionCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	format string
}

// NewVersionCommand returns the version command.
func NewVersionCommand(rootCmd *RootCommand, app *kingpin.Application) *VersionCommand {
	c := &VersionCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("version", "Print the compiler version.")
	c.Cmd.Flag("format", "Output format (table, json).").Default(formatTable).EnumVar(&c.format, formatTable, formatJSON)

	return c
}

func (c VersionCommand) Name() string { return c.Cmd.FullCommand() }

func (c VersionCommand) Run(ctx context.Context) error {
	cmdEnv, err := c.rootCmd.Env()
	if err != nil {
		return err
	}

	invoker, _, closeFn, err := newInvoker(ctx, c.rootCmd)
	if err != nil {
		return err
	}
	defer closeFn()

	svc, err := version.NewService(version.ServiceConfig{
		Invoker: invoker,
		Logger:  c.rootCmd.Logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	v, err := svc.Version(ctx, version.Request{Env: cmdEnv})
	if err != nil {
		return fmt.Errorf("could not get version: %w", err)
	}

	return newPrinter(c.format, c.rootCmd.Stdout).PrintMessage(v)
}
