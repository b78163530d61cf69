// Package multiplex packs many named text files into a single text stream and back.
//
// Every file is a block that starts with a marker line followed by the file content:
//
//	// @filename: /schemas/a.bop
//	struct A { int32 x; }
//
//	// @filename: /schemas/b.bop
//	struct B { int32 y; }
package multiplex

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/slok/bopbridge/internal/model"
)

// ErrNoInputFiles is returned when a stream doesn't have any file marker.
var ErrNoInputFiles = fmt.Errorf("no input files found: %w", model.ErrNotValid)

const markerPrefix = "// @filename: "

var markerRegexp = regexp.MustCompile(`(?i)^\s*//\s*@filename:\s*(.+)$`)

// Encode packs the files sorted by path. The stream has no trailing whitespace.
func Encode(files model.FileMap) string {
	var sb strings.Builder
	for _, p := range files.Paths() {
		sb.WriteString(markerPrefix)
		sb.WriteString(p)
		sb.WriteString("\n")
		sb.WriteString(files[p])
		sb.WriteString("\n\n")
	}

	return strings.TrimRightFunc(sb.String(), unicode.IsSpace)
}

// Decode unpacks a stream into its files. Lines before the first marker are ignored
// and the content of each file is right trimmed.
func Decode(stream string) (model.FileMap, error) {
	files := model.FileMap{}

	var (
		current string
		content []string
		found   bool
	)
	flush := func() {
		if !found {
			return
		}
		files[current] = strings.TrimRightFunc(strings.Join(content, "\n"), unicode.IsSpace)
	}

	for _, line := range strings.Split(stream, "\n") {
		line = strings.TrimSuffix(line, "\r")

		m := markerRegexp.FindStringSubmatch(line)
		if m == nil {
			if found {
				content = append(content, line)
			}
			continue
		}

		flush()
		current = model.NormalizePath(strings.TrimSpace(m[1]))
		content = content[:0]
		found = true
	}
	flush()

	if !found {
		return nil, ErrNoInputFiles
	}

	return files, nil
}

// IsNoInputFiles returns true if the error is a decoding error because of a stream without files.
func IsNoInputFiles(err error) bool {
	return errors.Is(err, ErrNoInputFiles)
}
