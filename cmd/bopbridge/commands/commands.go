package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"k8s.io/client-go/util/homedir"

	"github.com/slok/bopbridge/internal/conventions"
	"github.com/slok/bopbridge/internal/log"
	"github.com/slok/bopbridge/internal/printer"
	"github.com/slok/bopbridge/internal/utils/env"
)

const (
	// LoggerTypeDefault is the logger default type.
	LoggerTypeDefault = "default"
	// LoggerTypeJSON is the logger json type.
	LoggerTypeJSON = "json"

	// EngineWASM runs the compiler image on wazero.
	EngineWASM = "wasm"
	// EngineFake runs an in-process identity compiler.
	EngineFake = "fake"

	formatTable = "table"
	formatJSON  = "json"
)

// Command represents an application command, all commands that want to be executed
// should implement and setup on main.
type Command interface {
	Name() string
	Run(ctx context.Context) error
}

// RootCommand represents the root command configuration and global configuration
// for all the commands.
type RootCommand struct {
	// Global flags.
	Debug      bool
	NoLog      bool
	NoColor    bool
	LoggerType string
	Engine     string
	WASMPath   string
	OCILayout  string
	OCIRef     string
	MaxSleep   time.Duration
	EnvSpecs   []string

	// Global instances.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger log.Logger
}

// NewRootCommand initializes the main root configuration.
func NewRootCommand(app *kingpin.Application) *RootCommand {
	c := &RootCommand{}

	app.Flag("debug", "Enable debug mode.").BoolVar(&c.Debug)
	app.Flag("no-log", "Disable logger.").BoolVar(&c.NoLog)
	app.Flag("no-color", "Disable logger color.").BoolVar(&c.NoColor)
	app.Flag("logger", "Selects the logger type.").Default(LoggerTypeDefault).EnumVar(&c.LoggerType, LoggerTypeDefault, LoggerTypeJSON)
	app.Flag("engine", "Selects the compiler engine.").Default(EngineWASM).EnumVar(&c.Engine, EngineWASM, EngineFake)

	defaultWASMPath := conventions.DefaultWASMPath(homedir.HomeDir())
	app.Flag("wasm-path", "Path to the compiler WASM image.").Envar(conventions.WASMPathEnvVar).Default(defaultWASMPath).StringVar(&c.WASMPath)
	app.Flag("oci-layout", "OCI image layout directory holding the compiler WASM image, takes precedence over --wasm-path.").StringVar(&c.OCILayout)
	app.Flag("oci-ref", "Reference name or digest of the image inside the OCI layout.").StringVar(&c.OCIRef)
	app.Flag("max-sleep", "Longest a single compiler sleep can block (0 is no limit).").Default("0s").DurationVar(&c.MaxSleep)
	app.Flag("env", "Compiler environment variables (KEY=VALUE or KEY from current environment). Can be repeated.").Short('e').StringsVar(&c.EnvSpecs)

	return c
}

// Env returns the compiler environment set with the global flags.
func (r *RootCommand) Env() (map[string]string, error) {
	vars, err := env.ParseSpecs(r.EnvSpecs)
	if err != nil {
		return nil, fmt.Errorf("invalid --env value: %w", err)
	}
	return vars, nil
}

func newPrinter(format string, w io.Writer) printer.Printer {
	switch format {
	case formatJSON:
		return printer.NewJSONPrinter(w)
	default: // table
		return printer.NewTablePrinter(w)
	}
}
