// Package datasync keeps the local reference-data directory current.
//
// The fast path downloads only the files whose hashes changed according to
// a remote manifest. When that fails, or when forced, every selected dataset
// is downloaded in full and a fresh manifest is generated locally.
//
// The data directory also carries a readonly/ snapshot shipped alongside the
// program. Fixup restores it over the mutable copy whenever their version
// markers disagree, and Snapshot refreshes it from the mutable copy.
package datasync

import (
	"fmt"
	"strings"
)

const (
	// DefaultPath is the data directory used when none is configured.
	DefaultPath = "spec-data"
	// ManifestFile lists every data file with its hash.
	ManifestFile = "manifest.txt"
	// VersionFile holds the integer data-format version.
	VersionFile = "version.txt"
	// ReadonlyDir holds the shipped reference snapshot.
	ReadonlyDir = "readonly"
)

// Dataset names one group of reference data.
type Dataset string

const (
	Anchors      Dataset = "anchors"
	Biblio       Dataset = "biblio"
	CanIUse      Dataset = "caniuse"
	LinkDefaults Dataset = "link-defaults"
	TestSuites   Dataset = "test-suites"
	Languages    Dataset = "languages"
	WPT          Dataset = "wpt"
)

// AllDatasets lists every dataset in update order.
var AllDatasets = []Dataset{Anchors, Biblio, CanIUse, LinkDefaults, TestSuites, Languages, WPT}

var datasetFiles = map[Dataset][]string{
	Anchors:      {"anchors/anchors.json", "anchors/methods.json"},
	Biblio:       {"biblio/biblio.json"},
	CanIUse:      {"caniuse/data.json"},
	LinkDefaults: {"link-defaults.infotree"},
	TestSuites:   {"test-suites.json"},
	Languages:    {"languages.json"},
	WPT:          {"wpt-tests.txt"},
}

// Files returns the data files that make up d, slash-separated and relative
// to the data directory.
func (d Dataset) Files() []string {
	return datasetFiles[d]
}

// ParseDataset resolves a dataset by name.
func ParseDataset(name string) (Dataset, error) {
	d := Dataset(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := datasetFiles[d]; !ok {
		return "", fmt.Errorf("unknown dataset %q", name)
	}
	return d, nil
}
