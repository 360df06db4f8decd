package datasync

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ErrBadManifest is returned for manifests that cannot be trusted.
var ErrBadManifest = errors.New("malformed manifest")

// ManifestError reports where a manifest went wrong.
type ManifestError struct {
	Line   int
	Reason string
}

func (e *ManifestError) Error() string {
	return fmt.Sprintf("manifest line %d: %s", e.Line, e.Reason)
}

func (e *ManifestError) Unwrap() error { return ErrBadManifest }

// Manifest maps every data file to the hex SHA-256 of its contents.
// The first line of its text form is the generation time.
type Manifest struct {
	Generated time.Time
	Entries   map[string]string
}

// ParseManifest reads the text form: an RFC 3339 timestamp, then one
// "hash path" line per file. Paths must stay inside the data directory.
func ParseManifest(data []byte) (*Manifest, error) {
	sc := bufio.NewScanner(bytes.NewReader(data))
	if !sc.Scan() {
		return nil, &ManifestError{Line: 1, Reason: "missing timestamp"}
	}
	generated, err := time.Parse(time.RFC3339, strings.TrimSpace(sc.Text()))
	if err != nil {
		return nil, &ManifestError{Line: 1, Reason: fmt.Sprintf("bad timestamp: %v", err)}
	}

	m := &Manifest{Generated: generated, Entries: make(map[string]string)}
	for line := 2; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		hash, path, ok := strings.Cut(text, " ")
		path = strings.TrimSpace(path)
		if !ok || hash == "" || path == "" {
			return nil, &ManifestError{Line: line, Reason: "expected \"hash path\""}
		}
		if !safePath(path) {
			return nil, &ManifestError{Line: line, Reason: fmt.Sprintf("path %q escapes the data directory", path)}
		}
		m.Entries[path] = hash
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	return m, nil
}

// ReadManifest parses the manifest file at path.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseManifest(data)
}

// Bytes renders the manifest in its text form with paths sorted.
func (m *Manifest) Bytes() []byte {
	var buf bytes.Buffer
	buf.WriteString(m.Generated.UTC().Format(time.RFC3339))
	buf.WriteByte('\n')
	for _, p := range m.paths() {
		fmt.Fprintf(&buf, "%s %s\n", m.Entries[p], p)
	}
	return buf.Bytes()
}

func (m *Manifest) paths() []string {
	paths := make([]string, 0, len(m.Entries))
	for p := range m.Entries {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Diff returns the files of m that are missing or different in old, and the
// files of old that m no longer lists. old may be nil.
func (m *Manifest) Diff(old *Manifest) (changed, removed []string) {
	for _, p := range m.paths() {
		if old == nil || old.Entries[p] != m.Entries[p] {
			changed = append(changed, p)
		}
	}
	if old != nil {
		for _, p := range old.paths() {
			if _, ok := m.Entries[p]; !ok {
				removed = append(removed, p)
			}
		}
	}
	return changed, removed
}

// BuildManifest hashes every file under root except the manifest itself and
// the readonly snapshot.
func BuildManifest(root string, generated time.Time) (*Manifest, error) {
	m := &Manifest{Generated: generated, Entries: make(map[string]string)}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if rel == ReadonlyDir {
				return filepath.SkipDir
			}
			return nil
		}
		if rel == ManifestFile {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		m.Entries[rel] = hashBytes(data)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("building manifest for %s: %w", root, err)
	}
	return m, nil
}

func hashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// safePath accepts relative, slash-separated paths that stay below the data
// directory and outside the readonly snapshot.
func safePath(p string) bool {
	local := filepath.FromSlash(p)
	if !filepath.IsLocal(local) {
		return false
	}
	first, _, _ := strings.Cut(filepath.ToSlash(filepath.Clean(local)), "/")
	return first != ReadonlyDir
}
