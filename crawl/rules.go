// Package crawl: input filtering rules.
// Provides helpers to filter and normalize paths during discovery.
package crawl

import (
	"path/filepath"
	"strings"
)

// htmlExtensions are the file extensions treated as HTML input.
var htmlExtensions = map[string]bool{
	".html": true, ".htm": true, ".xhtml": true,
}

// IsHTMLFile checks if the path names an HTML document.
func IsHTMLFile(path string) bool {
	return htmlExtensions[strings.ToLower(filepath.Ext(path))]
}

// IsHidden checks if a file or directory name starts with a dot.
func IsHidden(name string) bool {
	return len(name) > 1 && strings.HasPrefix(name, ".")
}

// IsWithin reports whether path is dir itself or lies below it.
func IsWithin(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || filepath.IsLocal(rel)
}

// NormalizePath cleans a path and makes it absolute for deduplication.
func NormalizePath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}
