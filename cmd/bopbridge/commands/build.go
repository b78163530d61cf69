package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/go-git/go-billy/v5/helper/iofs"
	"github.com/go-git/go-billy/v5/osfs"
	"k8s.io/client-go/util/homedir"

	"github.com/slok/bopbridge/internal/app/build"
	"github.com/slok/bopbridge/internal/app/buildcache"
	"github.com/slok/bopbridge/internal/args"
	"github.com/slok/bopbridge/internal/conventions"
	"github.com/slok/bopbridge/internal/model"
	"github.com/slok/bopbridge/internal/printer"
	storageio "github.com/slok/bopbridge/internal/storage/io"
	"github.com/slok/bopbridge/internal/utils/env"
)

type BuildCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	root       string
	inputs     []string
	excludes   []string
	manifest   string
	generators []string
	noEmit     bool
	noWarn     []int
	stdout     bool
	outDir     string
	dryRun     bool
	format     string
	cache      bool
	cacheDB    string
	compiler   model.CompilerOptions
}

// NewBuildCommand returns the build command.
func NewBuildCommand(rootCmd *RootCommand, app *kingpin.Application) *BuildCommand {
	c := &BuildCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("build", "Generate code from schemas.")
	c.Cmd.Flag("root", "Project directory, inputs and the manifest are relative to it.").Default(".").StringVar(&c.root)
	c.Cmd.Flag("input", "Schema files glob (supports **). Can be repeated.").Short('i').StringsVar(&c.inputs)
	c.Cmd.Flag("input-exclude", "Excluded schema files glob. Can be repeated.").StringsVar(&c.excludes)
	c.Cmd.Flag("manifest", "YAML build manifest with sources, generators and compiler options.").Short('m').StringVar(&c.manifest)
	c.Cmd.Flag("generator", "Generator as alias:outFile[,key=value...] (e.g. ts:out/models.ts). Can be repeated.").Short('g').StringsVar(&c.generators)
	c.Cmd.Flag("no-emit", "Type check only, don't generate code.").BoolVar(&c.noEmit)
	c.Cmd.Flag("no-warn", "Warning code to suppress. Can be repeated.").IntsVar(&c.noWarn)
	c.Cmd.Flag("stdout", "Ask the compiler to print the generated code instead of writing files.").BoolVar(&c.stdout)
	c.Cmd.Flag("out-dir", "Directory generated files are written to, relative to the project directory.").StringVar(&c.outDir)
	c.Cmd.Flag("dry-run", "Don't write the generated files.").BoolVar(&c.dryRun)
	c.Cmd.Flag("format", "Output format (table, json).").Default(formatTable).EnumVar(&c.format, formatTable, formatJSON)
	c.Cmd.Flag("cache", "Reuse the outputs of previous builds with the same inputs.").BoolVar(&c.cache)
	registerCacheDBFlag(c.Cmd, &c.cacheDB)
	registerCompilerFlags(c.Cmd, &c.compiler)

	return c
}

func (c BuildCommand) Name() string { return c.Cmd.FullCommand() }

func (c BuildCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger
	start := time.Now()

	cmdEnv, err := c.rootCmd.Env()
	if err != nil {
		return err
	}

	// Merge the manifest with the flags, flags win.
	inputs := c.inputs
	opts := c.compiler
	noWarn := c.noWarn
	var gens []model.GeneratorConfig
	if c.manifest != "" {
		repo := storageio.NewManifestYAMLRepository(iofs.New(osfs.New(c.root)))
		m, err := repo.GetManifest(ctx, c.manifest)
		if err != nil {
			return fmt.Errorf("could not load manifest: %w", err)
		}

		if len(inputs) == 0 {
			inputs = m.Sources
		}
		gens = append(gens, m.Generators...)
		noWarn = append(m.NoWarn, noWarn...)
		opts = mergeCompilerOptions(m.Options, opts)
		cmdEnv = env.MergeMaps(m.Env, cmdEnv)
	}
	if len(inputs) == 0 {
		inputs = []string{conventions.SchemaGlob}
	}

	for _, spec := range c.generators {
		g, err := args.ParseGeneratorSpec(spec)
		if err != nil {
			return fmt.Errorf("invalid --generator value: %w", err)
		}
		gens = append(gens, g)
	}

	files, err := loadSources(ctx, logger, c.root, inputs, c.excludes)
	if err != nil {
		return fmt.Errorf("could not load sources: %w", err)
	}

	invoker, eng, closeFn, err := newInvoker(ctx, c.rootCmd)
	if err != nil {
		return err
	}
	defer closeFn()

	var svc buildcache.Builder
	svc, err = build.NewService(build.ServiceConfig{
		Invoker: invoker,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	if c.cache {
		cache, closeCache, err := newBuildCache(ctx, c.rootCmd, c.cacheDB)
		if err != nil {
			return err
		}
		defer closeCache()

		salt, err := cacheSalt(ctx, eng)
		if err != nil {
			return err
		}

		svc, err = buildcache.NewService(buildcache.ServiceConfig{
			Builder: svc,
			Cache:   cache,
			Salt:    salt,
			Logger:  logger,
		})
		if err != nil {
			return fmt.Errorf("could not create cache service: %w", err)
		}
	}

	out, err := svc.Build(ctx, build.Request{
		Files:   files,
		Options: opts,
		Build: model.BuildOptions{
			Generators: gens,
			NoEmit:     c.noEmit,
			NoWarn:     noWarn,
			Stdout:     c.stdout,
		},
		Env: cmdEnv,
	})
	if err != nil {
		return fmt.Errorf("could not build: %w", err)
	}

	if len(out.Errors) == 0 && !c.dryRun && len(out.Results) > 0 {
		outDir := c.root
		if c.outDir != "" {
			outDir = c.outDir
			if !filepath.IsAbs(outDir) {
				outDir = filepath.Join(c.root, outDir)
			}
		}
		if err := saveFiles(ctx, logger, outDir, resultFiles(out)); err != nil {
			return fmt.Errorf("could not write generated files: %w", err)
		}
	}

	if err := newPrinter(c.format, c.rootCmd.Stdout).PrintOutput(*out); err != nil {
		return fmt.Errorf("could not print output: %w", err)
	}

	logger.Infof("Build of %d files finished in %s", len(files), printer.FormatDuration(time.Since(start)))

	if len(out.Errors) > 0 {
		return fmt.Errorf("build reported %d errors", len(out.Errors))
	}

	return nil
}

// registerCompilerFlags registers the compiler root flags.
func registerCompilerFlags(cmd *kingpin.CmdClause, opts *model.CompilerOptions) {
	cmd.Flag("config", "Compiler configuration file, relative to the project directory.").StringVar(&opts.Config)
	cmd.Flag("trace", "Enable compiler tracing.").BoolVar(&opts.Trace)
	cmd.Flag("locale", "Compiler messages locale.").StringVar(&opts.Locale)
}

// registerCacheDBFlag registers the build cache database flag.
func registerCacheDBFlag(cmd *kingpin.CmdClause, path *string) {
	defaultPath := conventions.DefaultCacheDBPath(homedir.HomeDir())
	cmd.Flag("cache-db", "Path to the build cache database.").Default(defaultPath).StringVar(path)
}

// mergeCompilerOptions returns base with the set values of override on top.
func mergeCompilerOptions(base, override model.CompilerOptions) model.CompilerOptions {
	if override.Config != "" {
		base.Config = override.Config
	}
	if override.Trace {
		base.Trace = true
	}
	if len(override.Include) > 0 {
		base.Include = override.Include
	}
	if len(override.Exclude) > 0 {
		base.Exclude = override.Exclude
	}
	if override.Locale != "" {
		base.Locale = override.Locale
	}
	return base
}
