// Package output handles file naming and writing for canonhtml outputs.
// For a single input, the filename is derived from the input's base name
// (e.g., index.html → index.html in the output directory).
// In batch mode, filenames mirror the input's path below the input root.
package output

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrOverwritesInput is returned when the output path is the input file.
var ErrOverwritesInput = errors.New("output would overwrite the input; choose another --output_dir")

// Writer writes rendered output to disk.
type Writer struct {
	OutputDir string
}

// New creates a Writer targeting the given output directory.
// If outputDir is empty, it defaults to the current working directory.
func New(outputDir string) (*Writer, error) {
	if outputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		outputDir = wd
	}

	// Ensure the output directory exists.
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &Writer{OutputDir: outputDir}, nil
}

// WriteOnly writes output for a single input.
// Filename: <input base name without extension><ext>.
func (w *Writer) WriteOnly(src string, data []byte, ext string) (string, error) {
	path := filepath.Join(w.OutputDir, stem(filepath.Base(src))+ext)
	if err := checkTarget(src, path); err != nil {
		return "", err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing file %s: %w", path, err)
	}
	return path, nil
}

// WriteAll writes output for batch mode, mirroring src's location below root.
// Example: root=site, src=site/docs/intro.htm, ext=.html → <out>/docs/intro.html
func (w *Writer) WriteAll(root, src string, data []byte, ext string) (string, error) {
	rel, err := filepath.Rel(root, src)
	if err != nil || !filepath.IsLocal(rel) {
		return "", fmt.Errorf("input %s is not below %s", src, root)
	}

	fullPath := filepath.Join(w.OutputDir, stem(rel)+ext)
	if err := checkTarget(src, fullPath); err != nil {
		return "", err
	}

	// Ensure parent directories exist.
	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", dir, err)
	}

	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return "", fmt.Errorf("writing file %s: %w", fullPath, err)
	}
	return fullPath, nil
}

// checkTarget refuses a destination that is the source file itself.
func checkTarget(src, dst string) error {
	dstInfo, err := os.Stat(dst)
	if err != nil {
		return nil
	}
	srcInfo, err := os.Stat(src)
	if err != nil {
		return nil
	}
	if os.SameFile(srcInfo, dstInfo) {
		return fmt.Errorf("%w: %s", ErrOverwritesInput, dst)
	}
	return nil
}

// stem drops the final extension from a path.
func stem(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}
