package datasync

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Fixup restores the readonly snapshot over the mutable data files when
// their version markers disagree, which happens after the data format
// changes underneath stale local files. Failures are logged, never returned.
func Fixup(path string, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	if path == "" {
		path = DefaultPath
	}
	readonly := filepath.Join(path, ReadonlyDir)

	remote, err := readVersion(filepath.Join(readonly, VersionFile))
	if err != nil {
		logger.Warn("couldn't check the datafile version; output may be unstable", "err", err)
		return
	}
	local, err := readVersion(filepath.Join(path, VersionFile))
	if err == nil && local == remote {
		return
	}

	entries, err := os.ReadDir(readonly)
	if err != nil {
		logger.Warn("couldn't update datafiles from the readonly snapshot; output may be unstable", "err", err)
		return
	}
	for _, e := range entries {
		if err := copyAnything(filepath.Join(readonly, e.Name()), filepath.Join(path, e.Name())); err != nil {
			logger.Warn("couldn't update datafiles from the readonly snapshot; output may be unstable", "file", e.Name(), "err", err)
			return
		}
	}
	logger.Info("restored datafiles from the readonly snapshot", "version", remote)
}

// Snapshot copies every mutable data file into the readonly snapshot.
func Snapshot(path string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	if path == "" {
		path = DefaultPath
	}
	readonly := filepath.Join(path, ReadonlyDir)

	entries, err := os.ReadDir(path)
	if err != nil {
		return fmt.Errorf("reading data directory: %w", err)
	}
	if err := os.MkdirAll(readonly, 0755); err != nil {
		return fmt.Errorf("creating readonly directory: %w", err)
	}
	copied := 0
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ReadonlyDir) {
			continue
		}
		if err := copyAnything(filepath.Join(path, e.Name()), filepath.Join(readonly, e.Name())); err != nil {
			return fmt.Errorf("copying %s: %w", e.Name(), err)
		}
		copied++
	}
	logger.Info("refreshed the readonly snapshot", "entries", copied)
	return nil
}

func readVersion(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", path, err)
	}
	return v, nil
}

// copyAnything replaces dst with a copy of src, file or directory.
func copyAnything(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(dst); err != nil {
		return err
	}
	if info.IsDir() {
		return os.CopyFS(dst, os.DirFS(src))
	}
	return copyFile(src, dst, info.Mode().Perm())
}

func copyFile(src, dst string, perm os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
