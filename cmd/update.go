// Package cmd: reference-data commands.
// update downloads the datasets, fixup restores the shipped snapshot when
// the local data format is out of date, and snapshot refreshes that copy.
package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/canonhtml/core/datasync"
	"github.com/gaurav-prasanna/canonhtml/core/fetch"
)

// Flag variables.
var (
	flagDataPath string
	flagSource   string
	flagDryRun   bool
	flagForce    bool
	flagDatasets = map[datasync.Dataset]*bool{}
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update the local reference data",
	Long: `Update refreshes the reference data under the data directory.

By default only the files listed as changed in the remote manifest are
downloaded. If that fails, or with --force, every selected dataset is
downloaded in full (all of them when none is selected).

Examples:
  canonhtml update
  canonhtml update --force --biblio --anchors
  canonhtml update --dry-run --path ./spec-data`,
	Args: cobra.NoArgs,
	RunE: runUpdate,
}

var fixupCmd = &cobra.Command{
	Use:   "fixup",
	Short: "Restore the readonly data snapshot if its version differs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		datasync.Fixup(dataPath(cmd), slog.Default())
		return nil
	},
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Copy the current data files into the readonly snapshot",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return datasync.Snapshot(dataPath(cmd), slog.Default())
	},
}

func init() {
	rootCmd.AddCommand(updateCmd, fixupCmd, snapshotCmd)

	for _, c := range []*cobra.Command{updateCmd, fixupCmd, snapshotCmd} {
		c.Flags().StringVar(&flagDataPath, "path", "", "Data directory (default: "+datasync.DefaultPath+")")
	}

	updateCmd.Flags().StringVar(&flagSource, "source", "", "Base URL of the published data (default: "+fetch.DefaultBaseURL+")")
	updateCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Download but don't write anything")
	updateCmd.Flags().BoolVar(&flagForce, "force", false, "Skip the manifest and download the datasets in full")

	// One flag per dataset.
	for _, d := range datasync.AllDatasets {
		flagDatasets[d] = updateCmd.Flags().Bool(string(d), false, fmt.Sprintf("Update the %s dataset", d))
	}
}

func runUpdate(cmd *cobra.Command, args []string) error {
	source := cfg.SourceURL
	if cmd.Flags().Changed("source") {
		source = flagSource
	}
	fetcher, err := fetch.New(source)
	if err != nil {
		return err
	}

	path := dataPath(cmd)
	datasync.Fixup(path, slog.Default())

	selected := make(map[datasync.Dataset]bool, len(flagDatasets))
	for d, on := range flagDatasets {
		selected[d] = *on
	}

	updater := datasync.New(fetcher, slog.Default())
	ok := updater.Update(context.Background(), datasync.Options{
		Selected: selected,
		Path:     path,
		DryRun:   flagDryRun,
		Force:    flagForce,
	})
	if !ok {
		return fmt.Errorf("update of %s did not complete; see the log above", path)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Data is up to date: %s\n", path)
	return nil
}

// dataPath resolves the data directory from --path, then the config file.
func dataPath(cmd *cobra.Command) string {
	if cmd.Flags().Changed("path") {
		return flagDataPath
	}
	return cfg.DataPath
}
