// Package output resolves the files produced by the compiler that satisfy the
// requested generators.
package output

import (
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/slok/bopbridge/internal/model"
)

var (
	// ErrNoGenerators is returned when no generator was requested.
	ErrNoGenerators = fmt.Errorf("no generators requested: %w", model.ErrNotValid)
	// ErrUnknownGenerator is returned when a generator alias is not in the alias table.
	ErrUnknownGenerator = fmt.Errorf("unknown generator: %w", model.ErrNotValid)
	// ErrOutputNotFound is returned when the primary output file of a generator was not produced.
	ErrOutputNotFound = fmt.Errorf("output file not found: %w", model.ErrNotFound)
	// ErrAuxiliaryNotFound is returned when the auxiliary file of a generator was not produced.
	ErrAuxiliaryNotFound = fmt.Errorf("auxiliary file not found: %w", model.ErrNotFound)
)

// Assembler matches requested generators with produced files.
type Assembler struct {
	// Generators is the alias table, defaults to model.Generators.
	Generators map[string]model.GeneratorSpec
}

// NewAssembler returns an assembler for the alias table, nil uses model.Generators.
func NewAssembler(generators map[string]model.GeneratorSpec) Assembler {
	if generators == nil {
		generators = model.Generators
	}
	return Assembler{Generators: generators}
}

// Validate checks that the generators can be assembled, without looking at any file.
func (a Assembler) Validate(gens []model.GeneratorConfig) error {
	if len(gens) == 0 {
		return ErrNoGenerators
	}

	for _, g := range gens {
		if _, ok := a.spec(g.Alias); !ok {
			return fmt.Errorf("%q: %w", g.Alias, ErrUnknownGenerator)
		}
	}

	return nil
}

// Assemble returns one generated file per requested generator, in request order.
func (a Assembler) Assemble(files model.FileMap, gens []model.GeneratorConfig) ([]model.GeneratedFile, error) {
	if err := a.Validate(gens); err != nil {
		return nil, err
	}

	paths := files.Paths()
	results := make([]model.GeneratedFile, 0, len(gens))
	for _, g := range gens {
		spec, _ := a.spec(g.Alias)
		outFile := model.NormalizePath(g.OutFile)

		primary, ok := findOutput(paths, outFile)
		if !ok {
			return nil, fmt.Errorf("%s (generator %q): %w", outFile, g.Alias, ErrOutputNotFound)
		}

		gf := model.GeneratedFile{
			Name:      primary,
			Content:   files[primary],
			Generator: g.Alias,
		}

		if spec.AuxiliaryExtension != "" {
			aux, ok := findAuxiliary(paths, primary, spec.AuxiliaryExtension)
			if !ok {
				return nil, fmt.Errorf("%s file next to %s (generator %q): %w", spec.AuxiliaryExtension, primary, g.Alias, ErrAuxiliaryNotFound)
			}
			gf.AuxiliaryFile = &model.AuxiliaryFile{Name: aux, Content: files[aux]}
		}

		results = append(results, gf)
	}

	return results, nil
}

func (a Assembler) spec(alias string) (model.GeneratorSpec, bool) {
	table := a.Generators
	if table == nil {
		table = model.Generators
	}
	spec, ok := table[alias]
	return spec, ok
}

// findOutput prefers the exact path, otherwise the first sorted path that ends with it,
// produced paths can live under a different virtual root.
func findOutput(paths []string, outFile string) (string, bool) {
	for _, p := range paths {
		if p == outFile {
			return p, true
		}
	}

	for _, p := range paths {
		if strings.HasSuffix(p, outFile) {
			return p, true
		}
	}

	return "", false
}

// findAuxiliary prefers the file sharing the primary's name, otherwise the first
// sorted file with the extension in the primary's directory.
func findAuxiliary(paths []string, primary, ext string) (string, bool) {
	sibling := strings.TrimSuffix(primary, path.Ext(primary)) + ext
	if slices.Contains(paths, sibling) {
		return sibling, true
	}

	dir := path.Dir(primary)
	for _, p := range paths {
		if p == primary || path.Dir(p) != dir {
			continue
		}
		if strings.HasSuffix(p, ext) {
			return p, true
		}
	}

	return "", false
}
