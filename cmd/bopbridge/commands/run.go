package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/bopbridge/internal/app/invoke"
	"github.com/slok/bopbridge/internal/args"
	"github.com/slok/bopbridge/internal/conventions"
	"github.com/slok/bopbridge/internal/model"
)

type RunCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	root   string
	inputs []string
	args   []string
}

// NewRunCommand returns the run command.
func NewRunCommand(rootCmd *RootCommand, app *kingpin.Application) *RunCommand {
	c := &RunCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("run", "Run the compiler with raw arguments (use -- to separate them).")
	c.Cmd.Flag("root", "Project directory, inputs are relative to it.").Default(".").StringVar(&c.root)
	c.Cmd.Flag("input", "Files glob seeded in the compiler filesystem (supports **). Can be repeated.").Short('i').StringsVar(&c.inputs)
	c.Cmd.Arg("args", "Compiler arguments.").Required().StringsVar(&c.args)

	return c
}

func (c RunCommand) Name() string { return c.Cmd.FullCommand() }

func (c RunCommand) Run(ctx context.Context) error {
	cmdEnv, err := c.rootCmd.Env()
	if err != nil {
		return err
	}

	inputs := c.inputs
	if len(inputs) == 0 {
		inputs = []string{conventions.SchemaGlob}
	}

	files, err := seedFiles(ctx, c.rootCmd, c.root, inputs)
	if err != nil {
		return err
	}

	argv := model.ArgVector(c.args)
	if argv[0] != args.Binary {
		argv = append(model.ArgVector{args.Binary}, argv...)
	}

	invoker, _, closeFn, err := newInvoker(ctx, c.rootCmd)
	if err != nil {
		return err
	}
	defer closeFn()

	res, err := invoker.Run(ctx, invoke.Request{Files: files, Args: argv, Env: cmdEnv})
	if err != nil {
		return fmt.Errorf("could not run compiler: %w", err)
	}

	_, _ = io.WriteString(c.rootCmd.Stdout, res.StdOut)
	_, _ = io.WriteString(c.rootCmd.Stderr, res.StdErr)

	if res.ExitCode != 0 {
		return &ExitCodeError{Code: res.ExitCode}
	}

	return nil
}

// ExitCodeError is returned when the compiler exits with a non-zero code, the
// process forwards it as its own exit code.
type ExitCodeError struct {
	Code int
}

func (e *ExitCodeError) Error() string {
	return fmt.Sprintf("compiler exited with code %d", e.Code)
}
