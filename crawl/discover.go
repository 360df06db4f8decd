// Package crawl provides input discovery for batch mode.
// It walks a directory for HTML documents, keeping discovery logic
// separate from the serialize pipeline.
package crawl

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// DiscoverAll finds the HTML files to process under root, in walk order.
// A root that is a file is returned as the only input. Hidden entries and
// anything under skipDir (typically the output directory) are ignored,
// unless skipDir contains root itself.
func DiscoverAll(ctx context.Context, root string, skipDir string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	// An output directory that contains the input root cannot be skipped.
	skip := ""
	if skipDir != "" && !IsWithin(NormalizePath(root), NormalizePath(skipDir)) {
		skip = NormalizePath(skipDir)
	}

	var files []string
	seen := make(map[string]bool)
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if path != root && IsHidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if skip != "" && path != root && IsWithin(NormalizePath(path), skip) {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsHTMLFile(path) {
			return nil
		}
		// Symlinked documents are processed once, under the first name seen.
		abs := NormalizePath(path)
		key := abs
		if real, err := filepath.EvalSymlinks(abs); err == nil {
			key = real
		}
		if !seen[key] {
			seen[key] = true
			files = append(files, abs)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discovering inputs under %s: %w", root, err)
	}
	return files, nil
}
