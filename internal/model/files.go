package model

import (
	"path"
	"sort"
	"strings"
)

// FileMap maps absolute, normalized POSIX paths to their full text content.
type FileMap map[string]string

// NewFileMap returns a FileMap with all the keys normalized. When two keys
// normalize to the same path the last one in iteration order wins, so callers
// that care must not pass ambiguous keys.
func NewFileMap(files map[string]string) FileMap {
	fm := make(FileMap, len(files))
	for p, content := range files {
		fm.Set(p, content)
	}
	return fm
}

// Set stores the content under the normalized path, overwriting any previous content.
func (f FileMap) Set(p, content string) {
	f[NormalizePath(p)] = content
}

// Paths returns the paths of the map sorted.
func (f FileMap) Paths() []string {
	paths := make([]string, 0, len(f))
	for p := range f {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// NormalizePath returns the absolute and clean POSIX form of a path. Relative paths
// are resolved against the virtual root, and `..` never escapes it.
func NormalizePath(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}
