// Package args builds the compiler argument vectors.
package args

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/slok/bopbridge/internal/model"
)

// Binary is the argv[0] the compiler receives.
const Binary = "bebopc"

// Builder is an ordered append log of argument tokens. Flags added before a
// subcommand stay before it.
//
// Sequential use of the builders returned by AddFlag and AddSubCommand shares the
// same log, diverging handles must not be assumed to be independent.
type Builder struct {
	tokens *[]string
}

// New returns a builder starting with argv0.
func New(argv0 string) *Builder {
	tokens := []string{argv0}
	return &Builder{tokens: &tokens}
}

// AddFlag appends the flag and then each of the values as separate tokens.
func (b *Builder) AddFlag(name string, values ...string) *Builder {
	*b.tokens = append(*b.tokens, name)
	*b.tokens = append(*b.tokens, values...)
	return b
}

// AddSubCommand appends the subcommand token and returns the builder where the
// subcommand flags will be appended.
func (b *Builder) AddSubCommand(name string) *Builder {
	*b.tokens = append(*b.tokens, name)
	return &Builder{tokens: b.tokens}
}

// Build returns a copy of the argument vector.
func (b *Builder) Build() model.ArgVector {
	argv := make(model.ArgVector, len(*b.tokens))
	copy(argv, *b.tokens)
	return argv
}

// Root returns a builder with the compiler root flags already set.
func Root(opts model.CompilerOptions) *Builder {
	b := New(Binary)

	if opts.Config != "" {
		b.AddFlag("--config", opts.Config)
	}
	if opts.Trace {
		b.AddFlag("--trace")
	}
	if len(opts.Include) > 0 {
		b.AddFlag("--include", opts.Include...)
	}
	if len(opts.Exclude) > 0 {
		b.AddFlag("--exclude", opts.Exclude...)
	}
	if opts.Locale != "" {
		b.AddFlag("--locale", opts.Locale)
	}

	format := opts.DiagnosticFormat
	if format == "" {
		format = model.DiagnosticFormatJSON
	}
	b.AddFlag("--diagnostic-format", format)

	return b
}

// Build returns the argument vector of the build subcommand.
func Build(opts model.CompilerOptions, build model.BuildOptions) model.ArgVector {
	b := Root(opts).AddSubCommand("build")

	for _, g := range build.Generators {
		b.AddFlag("--generator", GeneratorSpec(g))
	}
	if build.NoEmit {
		b.AddFlag("--no-emit")
	}
	if len(build.NoWarn) > 0 {
		codes := make([]string, 0, len(build.NoWarn))
		for _, c := range build.NoWarn {
			codes = append(codes, strconv.Itoa(c))
		}
		b.AddFlag("--no-warn", codes...)
	}
	if build.Stdout {
		b.AddFlag("--stdout")
	}

	return b.Build()
}

// Init returns the argument vector that initializes a compiler project config.
func Init(opts model.CompilerOptions) model.ArgVector {
	return Root(opts).AddFlag("--init").Build()
}

// Version returns the argument vector that prints the compiler version.
func Version() model.ArgVector {
	return New(Binary).AddFlag("--version").Build()
}

// GeneratorSpec renders a generator config as
// `alias:outFile[,services=X][,emitNotice=true][,emitBinarySchema=true][,namespace=X][,k=v...]`.
func GeneratorSpec(g model.GeneratorConfig) string {
	var sb strings.Builder
	sb.WriteString(g.Alias)
	sb.WriteString(":")
	sb.WriteString(g.OutFile)

	if g.Services != "" {
		sb.WriteString(",services=" + g.Services)
	}
	if g.EmitNotice {
		sb.WriteString(",emitNotice=true")
	}
	if g.EmitBinarySchema {
		sb.WriteString(",emitBinarySchema=true")
	}
	if g.Namespace != "" {
		sb.WriteString(",namespace=" + g.Namespace)
	}

	// Sorted so the same config always renders the same vector.
	keys := make([]string, 0, len(g.Options))
	for k := range g.Options {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sb.WriteString("," + k + "=" + g.Options[k])
	}

	return sb.String()
}

// ParseGeneratorSpec parses the GeneratorSpec form back into a generator config.
// The alias is not checked against the known generators.
func ParseGeneratorSpec(spec string) (model.GeneratorConfig, error) {
	alias, rest, ok := strings.Cut(spec, ":")
	if !ok || alias == "" {
		return model.GeneratorConfig{}, fmt.Errorf("generator %q must be alias:outFile: %w", spec, model.ErrNotValid)
	}

	parts := strings.Split(rest, ",")
	g := model.GeneratorConfig{Alias: alias, OutFile: parts[0]}
	if g.OutFile == "" {
		return model.GeneratorConfig{}, fmt.Errorf("generator %q has no out file: %w", spec, model.ErrNotValid)
	}

	for _, opt := range parts[1:] {
		k, v, ok := strings.Cut(opt, "=")
		if !ok || k == "" {
			return model.GeneratorConfig{}, fmt.Errorf("generator %q option %q must be key=value: %w", spec, opt, model.ErrNotValid)
		}

		switch k {
		case "services":
			g.Services = v
		case "emitNotice":
			g.EmitNotice = v == "true"
		case "emitBinarySchema":
			g.EmitBinarySchema = v == "true"
		case "namespace":
			g.Namespace = v
		default:
			if g.Options == nil {
				g.Options = map[string]string{}
			}
			g.Options[k] = v
		}
	}

	return g, nil
}
