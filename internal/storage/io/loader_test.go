package io

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/bopbridge/internal/model"
)

func TestManifestYAMLRepository_GetManifest(t *testing.T) {
	tests := map[string]struct {
		fs          fstest.MapFS
		path        string
		expManifest model.BuildManifest
		expErr      bool
		errMsg      string
	}{
		"A full manifest should load successfully": {
			fs: fstest.MapFS{
				"bopbridge.yaml": &fstest.MapFile{
					Data: []byte(`sources:
  - schemas/**/*.bop
generators:
  - alias: ts
    out_file: gen/schemas.ts
    services: client
    emit_notice: true
  - alias: c
    out_file: gen/schemas.c
    namespace: acme
    options:
      foo: bar
no_warn: [200, 201]
compiler:
  trace: true
  locale: en
  include: ["a.bop"]
env:
  FOO: bar
`),
				},
			},
			path: "bopbridge.yaml",
			expManifest: model.BuildManifest{
				Sources: []string{"schemas/**/*.bop"},
				Generators: []model.GeneratorConfig{
					{Alias: "ts", OutFile: "gen/schemas.ts", Services: "client", EmitNotice: true},
					{Alias: "c", OutFile: "gen/schemas.c", Namespace: "acme", Options: map[string]string{"foo": "bar"}},
				},
				NoWarn: []int{200, 201},
				Options: model.CompilerOptions{
					Trace:   true,
					Locale:  "en",
					Include: []string{"a.bop"},
				},
				Env: map[string]string{"FOO": "bar"},
			},
		},

		"A manifest with only sources should load successfully": {
			fs: fstest.MapFS{
				"m.yaml": &fstest.MapFile{Data: []byte("sources: [\"*.bop\"]\n")},
			},
			path: "m.yaml",
			expManifest: model.BuildManifest{
				Sources: []string{"*.bop"},
			},
		},

		"Missing sources should return error": {
			fs: fstest.MapFS{
				"m.yaml": &fstest.MapFile{Data: []byte("generators: []\n")},
			},
			path:   "m.yaml",
			expErr: true,
			errMsg: "source pattern is required",
		},

		"An unknown generator should return error": {
			fs: fstest.MapFS{
				"m.yaml": &fstest.MapFile{Data: []byte("sources: [\"*.bop\"]\ngenerators:\n  - alias: go\n    out_file: a.go\n")},
			},
			path:   "m.yaml",
			expErr: true,
			errMsg: `unknown alias "go"`,
		},

		"A generator without output should return error": {
			fs: fstest.MapFS{
				"m.yaml": &fstest.MapFile{Data: []byte("sources: [\"*.bop\"]\ngenerators:\n  - alias: ts\n")},
			},
			path:   "m.yaml",
			expErr: true,
			errMsg: "out_file is required",
		},

		"Invalid warning codes should return error": {
			fs: fstest.MapFS{
				"m.yaml": &fstest.MapFile{Data: []byte("sources: [\"*.bop\"]\nno_warn: [0]\n")},
			},
			path:   "m.yaml",
			expErr: true,
			errMsg: "no_warn codes must be positive",
		},

		"Missing file should return error": {
			fs:     fstest.MapFS{},
			path:   "nonexistent.yaml",
			expErr: true,
			errMsg: "reading manifest file",
		},

		"Invalid YAML should return error": {
			fs: fstest.MapFS{
				"invalid.yaml": &fstest.MapFile{
					Data: []byte(`invalid: yaml: content: {}`),
				},
			},
			path:   "invalid.yaml",
			expErr: true,
			errMsg: "parsing YAML",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			repo := NewManifestYAMLRepository(tc.fs)
			m, err := repo.GetManifest(context.Background(), tc.path)

			if tc.expErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.errMsg)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expManifest, m)
		})
	}
}

func TestManifestYAMLRepository_GetManifest_ContextCancellation(t *testing.T) {
	fs := fstest.MapFS{
		"test.yaml": &fstest.MapFile{
			Data: []byte("sources: [\"*.bop\"]\n"),
		},
	}

	repo := NewManifestYAMLRepository(fs)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.GetManifest(ctx, "test.yaml")
	require.Error(t, err)
	assert.Equal(t, context.Canceled, err)
}
