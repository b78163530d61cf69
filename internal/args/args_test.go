package args_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/slok/bopbridge/internal/args"
	"github.com/slok/bopbridge/internal/model"
)

func TestBuilder(t *testing.T) {
	tests := map[string]struct {
		build   func() model.ArgVector
		expArgv model.ArgVector
	}{
		"Root flags should precede the subcommand and its flags.": {
			build: func() model.ArgVector {
				return args.New("bebopc").AddFlag("--config", "x").AddSubCommand("build").AddFlag("--no-emit").Build()
			},
			expArgv: model.ArgVector{"bebopc", "--config", "x", "build", "--no-emit"},
		},

		"Multiple values should be appended as separate tokens.": {
			build: func() model.ArgVector {
				return args.New("bebopc").AddFlag("--include", "a.bop", "b.bop").Build()
			},
			expArgv: model.ArgVector{"bebopc", "--include", "a.bop", "b.bop"},
		},

		"Flags added on the root builder after the subcommand should be appended after it.": {
			build: func() model.ArgVector {
				root := args.New("bebopc")
				sub := root.AddSubCommand("build")
				sub.AddFlag("--stdout")
				root.AddFlag("--trace")
				return root.Build()
			},
			expArgv: model.ArgVector{"bebopc", "build", "--stdout", "--trace"},
		},

		"Without flags only argv0 should be returned.": {
			build: func() model.ArgVector {
				return args.New("bebopc").Build()
			},
			expArgv: model.ArgVector{"bebopc"},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.expArgv, test.build())
		})
	}
}

func TestBuilderBuildReturnsCopy(t *testing.T) {
	assert := assert.New(t)

	b := args.New("bebopc").AddFlag("--trace")
	argv := b.Build()
	argv[1] = "--changed"

	assert.Equal(model.ArgVector{"bebopc", "--trace"}, b.Build())
}

func TestBuild(t *testing.T) {
	tests := map[string]struct {
		opts    model.CompilerOptions
		build   model.BuildOptions
		expArgv model.ArgVector
	}{
		"Default options should set the json diagnostic format.": {
			build: model.BuildOptions{
				Generators: []model.GeneratorConfig{{Alias: "ts", OutFile: "/out/a.ts"}},
			},
			expArgv: model.ArgVector{"bebopc", "--diagnostic-format", "json", "build", "--generator", "ts:/out/a.ts"},
		},

		"All the root flags should be rendered in order before the subcommand.": {
			opts: model.CompilerOptions{
				Config:           "/bebop.json",
				Trace:            true,
				Include:          []string{"/a.bop", "/b.bop"},
				Exclude:          []string{"/c.bop"},
				Locale:           "es",
				DiagnosticFormat: "enhanced",
			},
			build: model.BuildOptions{NoEmit: true},
			expArgv: model.ArgVector{
				"bebopc",
				"--config", "/bebop.json",
				"--trace",
				"--include", "/a.bop", "/b.bop",
				"--exclude", "/c.bop",
				"--locale", "es",
				"--diagnostic-format", "enhanced",
				"build",
				"--no-emit",
			},
		},

		"Build flags should be rendered after the subcommand.": {
			build: model.BuildOptions{
				Generators: []model.GeneratorConfig{
					{Alias: "ts", OutFile: "/out/a.ts"},
					{Alias: "cs", OutFile: "/out/A.cs", Namespace: "Acme"},
				},
				NoWarn: []int{101, 202},
				Stdout: true,
			},
			expArgv: model.ArgVector{
				"bebopc", "--diagnostic-format", "json",
				"build",
				"--generator", "ts:/out/a.ts",
				"--generator", "cs:/out/A.cs,namespace=Acme",
				"--no-warn", "101", "202",
				"--stdout",
			},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.expArgv, args.Build(test.opts, test.build))
		})
	}
}

func TestGeneratorSpec(t *testing.T) {
	tests := map[string]struct {
		cfg     model.GeneratorConfig
		expSpec string
	}{
		"A minimal generator should render alias and out file.": {
			cfg:     model.GeneratorConfig{Alias: "ts", OutFile: "./out/a.ts"},
			expSpec: "ts:./out/a.ts",
		},

		"All the options should be rendered in a stable order.": {
			cfg: model.GeneratorConfig{
				Alias:            "cs",
				OutFile:          "/out/A.cs",
				Services:         "both",
				EmitNotice:       true,
				EmitBinarySchema: true,
				Namespace:        "Acme.Models",
				Options:          map[string]string{"zeta": "1", "alpha": "2"},
			},
			expSpec: "cs:/out/A.cs,services=both,emitNotice=true,emitBinarySchema=true,namespace=Acme.Models,alpha=2,zeta=1",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.expSpec, args.GeneratorSpec(test.cfg))
		})
	}
}

func TestInitAndVersion(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(model.ArgVector{"bebopc", "--diagnostic-format", "json", "--init"}, args.Init(model.CompilerOptions{}))
	assert.Equal(model.ArgVector{"bebopc", "--version"}, args.Version())
}

func TestParseGeneratorSpec(t *testing.T) {
	tests := map[string]struct {
		spec   string
		expGen model.GeneratorConfig
		expErr bool
	}{
		"A plain spec should parse.": {
			spec:   "ts:out/a.ts",
			expGen: model.GeneratorConfig{Alias: "ts", OutFile: "out/a.ts"},
		},

		"Known and extra options should parse.": {
			spec: "cs:/out/A.cs,services=client,emitNotice=true,emitBinarySchema=true,namespace=Acme,langVersion=9",
			expGen: model.GeneratorConfig{
				Alias:            "cs",
				OutFile:          "/out/A.cs",
				Services:         "client",
				EmitNotice:       true,
				EmitBinarySchema: true,
				Namespace:        "Acme",
				Options:          map[string]string{"langVersion": "9"},
			},
		},

		"A spec without out file should fail.": {
			spec:   "ts:",
			expErr: true,
		},

		"A spec without alias should fail.": {
			spec:   "out/a.ts",
			expErr: true,
		},

		"An option without value should fail.": {
			spec:   "ts:/a.ts,emitNotice",
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			got, err := args.ParseGeneratorSpec(test.spec)

			if test.expErr {
				assert.ErrorIs(err, model.ErrNotValid)
			} else if assert.NoError(err) {
				assert.Equal(test.expGen, got)
				assert.Equal(test.spec, args.GeneratorSpec(got))
			}
		})
	}
}
