package datasync

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gaurav-prasanna/canonhtml/core"
)

// staleAfter is how old a remote manifest may be before the publishing job
// is presumed broken and the manifest is ignored.
const staleAfter = 48 * time.Hour

// Options selects what Update does.
type Options struct {
	// Selected restricts a full update to these datasets. When no dataset is
	// selected, all of them are updated.
	Selected map[Dataset]bool
	// Path is the data directory. Empty means DefaultPath.
	Path string
	// DryRun downloads but writes nothing.
	DryRun bool
	// Force skips the manifest fast path.
	Force bool
}

// Updater downloads reference data through a core.Fetcher.
type Updater struct {
	fetcher core.Fetcher
	logger  *slog.Logger
	now     func() time.Time
}

// New creates an Updater. If logger is nil, slog.Default() is used.
func New(fetcher core.Fetcher, logger *slog.Logger) *Updater {
	if logger == nil {
		logger = slog.Default()
	}
	return &Updater{fetcher: fetcher, logger: logger, now: time.Now}
}

// Update brings the data directory up to date. It tries the manifest first
// and falls back to updating each selected dataset when that fails or when
// opts.Force is set. It reports whether every step succeeded.
func (u *Updater) Update(ctx context.Context, opts Options) bool {
	path := opts.Path
	if path == "" {
		path = DefaultPath
	}

	if !opts.Force {
		if u.UpdateByManifest(ctx, path, opts.DryRun) {
			return true
		}
		u.logger.Info("falling back to a manual update", "path", path)
	}

	everything := true
	for _, on := range opts.Selected {
		if on {
			everything = false
			break
		}
	}

	ok := true
	for _, d := range AllDatasets {
		if !everything && !opts.Selected[d] {
			continue
		}
		if err := u.UpdateDataset(ctx, d, path, opts.DryRun); err != nil {
			u.logger.Warn("dataset update failed", "dataset", d, "err", err)
			ok = false
		}
	}
	if err := u.fetchFile(ctx, VersionFile, path, opts.DryRun); err != nil {
		u.logger.Warn("couldn't update the version marker", "err", err)
		ok = false
	}
	if err := u.CreateManifest(path, opts.DryRun); err != nil {
		u.logger.Warn("couldn't write the local manifest", "err", err)
		ok = false
	}
	return ok
}

// UpdateByManifest downloads only the files whose hashes differ from the
// local manifest and deletes files the remote no longer lists. It reports
// false when the caller should fall back to a full update.
func (u *Updater) UpdateByManifest(ctx context.Context, path string, dryRun bool) bool {
	local, err := ReadManifest(filepath.Join(path, ManifestFile))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			u.logger.Warn("ignoring unreadable local manifest", "err", err)
		}
		local = nil
	}

	data, err := u.fetcher.Fetch(ctx, ManifestFile)
	if err != nil {
		u.logger.Warn("couldn't download the remote manifest", "err", err)
		return false
	}
	remote, err := ParseManifest(data)
	if err != nil {
		u.logger.Warn("couldn't parse the remote manifest", "err", err)
		return false
	}

	if age := u.now().Sub(remote.Generated); age > staleAfter {
		u.logger.Warn("remote data is stale; the publishing job has probably stopped",
			"generated", remote.Generated, "age", age.Round(time.Hour))
		return false
	}
	if local != nil && local.Generated.After(remote.Generated) {
		u.logger.Info("local data is fresher than remote; nothing to update", "path", path)
		return true
	}

	changed, removed := remote.Diff(local)
	if dryRun {
		u.logger.Info("dry run", "would_update", len(changed), "would_remove", len(removed))
		return true
	}

	for _, p := range changed {
		body, err := u.fetcher.Fetch(ctx, p)
		if err != nil {
			u.logger.Warn("couldn't download data file", "file", p, "err", err)
			return false
		}
		if got := hashBytes(body); got != remote.Entries[p] {
			u.logger.Warn("data file does not match the manifest", "file", p, "want", remote.Entries[p], "got", got)
			return false
		}
		if err := writeFile(filepath.Join(path, filepath.FromSlash(p)), body); err != nil {
			u.logger.Warn("couldn't save data file", "file", p, "err", err)
			return false
		}
	}
	for _, p := range removed {
		if err := os.Remove(filepath.Join(path, filepath.FromSlash(p))); err != nil && !errors.Is(err, fs.ErrNotExist) {
			u.logger.Warn("couldn't remove outdated data file", "file", p, "err", err)
			return false
		}
	}
	if err := writeFile(filepath.Join(path, ManifestFile), data); err != nil {
		u.logger.Warn("couldn't save the manifest", "err", err)
		return false
	}

	u.logger.Info("updated data files", "updated", len(changed), "removed", len(removed))
	return true
}

// UpdateDataset downloads every file of d.
func (u *Updater) UpdateDataset(ctx context.Context, d Dataset, path string, dryRun bool) error {
	files := d.Files()
	if len(files) == 0 {
		return fmt.Errorf("unknown dataset %q", d)
	}
	for _, f := range files {
		if err := u.fetchFile(ctx, f, path, dryRun); err != nil {
			return fmt.Errorf("updating %s: %w", d, err)
		}
	}
	u.logger.Info("updated dataset", "dataset", d, "files", len(files), "dry_run", dryRun)
	return nil
}

// CreateManifest hashes the data directory into its manifest file.
func (u *Updater) CreateManifest(path string, dryRun bool) error {
	if dryRun {
		return nil
	}
	m, err := BuildManifest(path, u.now())
	if err != nil {
		return err
	}
	return writeFile(filepath.Join(path, ManifestFile), m.Bytes())
}

func (u *Updater) fetchFile(ctx context.Context, name, path string, dryRun bool) error {
	body, err := u.fetcher.Fetch(ctx, name)
	if err != nil {
		return err
	}
	if dryRun {
		return nil
	}
	return writeFile(filepath.Join(path, filepath.FromSlash(name)), body)
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing file %s: %w", path, err)
	}
	return nil
}
