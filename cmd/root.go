// Package cmd implements the CLI commands for canonhtml using Cobra.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/canonhtml/core/config"
)

// Persistent flag variables.
var (
	flagConfig  string
	flagVerbose bool
)

// cfg is loaded once per invocation before any command runs.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "canonhtml",
	Short: "canonhtml re-emits HTML documents in a canonical, readable form",
	Long: `canonhtml parses HTML documents and serializes them again with stable
attribute order, one-space indentation for block structure, and preserved
whitespace inside pre-formatted and inline content.

Usage:
  canonhtml serialize <file|dir> [flags]
  canonhtml update [flags]`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if flagVerbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

		loaded, err := config.Load(flagConfig)
		if err != nil {
			return err
		}
		cfg = loaded
		slog.Debug("configuration loaded", "opaque_tags", cfg.OpaqueTags, "block_tags", cfg.BlockTags, "data_path", cfg.DataPath)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default: ./"+config.FileName+" if present)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
