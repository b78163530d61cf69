package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/alecthomas/kingpin/v2"
)

// NewCacheCommand returns the cache parent command.
func NewCacheCommand(app *kingpin.Application) *kingpin.CmdClause {
	return app.Command("cache", "Manage the build cache.")
}

type CachePruneCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	cacheDB   string
	olderThan time.Duration
}

// NewCachePruneCommand returns the cache prune command.
func NewCachePruneCommand(rootCmd *RootCommand, cacheCmd *kingpin.CmdClause) *CachePruneCommand {
	c := &CachePruneCommand{rootCmd: rootCmd}

	c.Cmd = cacheCmd.Command("prune", "Remove cached build outputs.")
	c.Cmd.Flag("older-than", "Only remove the outputs cached longer ago than this.").Default("0s").DurationVar(&c.olderThan)
	registerCacheDBFlag(c.Cmd, &c.cacheDB)

	return c
}

func (c CachePruneCommand) Name() string { return c.Cmd.FullCommand() }

func (c CachePruneCommand) Run(ctx context.Context) error {
	cache, closeFn, err := newBuildCache(ctx, c.rootCmd, c.cacheDB)
	if err != nil {
		return err
	}
	defer closeFn()

	n, err := cache.PruneBuildOutputs(ctx, time.Now().Add(-c.olderThan))
	if err != nil {
		return fmt.Errorf("could not prune build cache: %w", err)
	}

	return newPrinter(formatTable, c.rootCmd.Stdout).PrintMessage(fmt.Sprintf("%d cached builds removed", n))
}
