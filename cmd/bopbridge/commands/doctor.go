package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/bopbridge/internal/model"
)

type DoctorCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	format string
}

// NewDoctorCommand returns the doctor command.
func NewDoctorCommand(rootCmd *RootCommand, app *kingpin.Application) *DoctorCommand {
	c := &DoctorCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("doctor", "Run preflight checks for the compiler engine.")
	c.Cmd.Flag("format", "Output format (table, json).").Default(formatTable).EnumVar(&c.format, formatTable, formatJSON)

	return c
}

func (c DoctorCommand) Name() string { return c.Cmd.FullCommand() }

func (c DoctorCommand) Run(ctx context.Context) error {
	eng, closeFn, err := newEngine(ctx, c.rootCmd)
	if err != nil {
		return fmt.Errorf("could not create engine: %w", err)
	}
	defer closeFn()

	results := eng.Check(ctx)
	if err := newPrinter(c.format, c.rootCmd.Stdout).PrintChecks(results); err != nil {
		return fmt.Errorf("could not print checks: %w", err)
	}

	if model.HasErrors(results) {
		return fmt.Errorf("preflight checks failed")
	}

	return nil
}
