// Package cmd: serialize command.
// This is the main command that orchestrates the pipeline:
// read → extract → serialize (→ markdown) → write.
//
// It handles flag validation, renderer selection, and the single / --all modes.
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/canonhtml/core"
	"github.com/gaurav-prasanna/canonhtml/core/extract"
	"github.com/gaurav-prasanna/canonhtml/core/output"
	"github.com/gaurav-prasanna/canonhtml/core/render"
	"github.com/gaurav-prasanna/canonhtml/core/serialize"
	"github.com/gaurav-prasanna/canonhtml/crawl"
)

// Flag variables.
var (
	flagAll       bool
	flagMarkdown  bool
	flagStdout    bool
	flagSelector  string
	flagOpaque    []string
	flagBlock     []string
	flagOutputDir string
)

var serializeCmd = &cobra.Command{
	Use:   "serialize <file|dir>",
	Short: "Serialize HTML documents canonically",
	Long: `Serialize parses an HTML document and writes it back out in canonical form:
sorted attributes, one space of indentation per block level, and normalized
whitespace around inline text. Pre-formatted elements are left untouched.

Examples:
  canonhtml serialize index.html --stdout
  canonhtml serialize index.html --output_dir ./out
  canonhtml serialize ./site --all --output_dir ./out
  canonhtml serialize index.html --selector main --markdown`,
	Args: cobra.ExactArgs(1),
	RunE: runSerialize,
}

func init() {
	rootCmd.AddCommand(serializeCmd)

	// Mode flags.
	serializeCmd.Flags().BoolVar(&flagAll, "all", false, "Serialize every HTML file below the given directory")
	serializeCmd.Flags().BoolVar(&flagStdout, "stdout", false, "Print the result instead of writing a file")

	// Output format.
	serializeCmd.Flags().BoolVar(&flagMarkdown, "markdown", false, "Output Markdown instead of HTML")

	// Serializer overrides; these replace the config file values.
	serializeCmd.Flags().StringVar(&flagSelector, "selector", "", "CSS selector of the element to serialize (default: html)")
	serializeCmd.Flags().StringSliceVar(&flagOpaque, "opaque", nil, "Tags rendered pre-formatted (default: pre,xmp,script,style)")
	serializeCmd.Flags().StringSliceVar(&flagBlock, "block", nil, "Hyphenated custom tags laid out as blocks")

	// Output directory.
	serializeCmd.Flags().StringVar(&flagOutputDir, "output_dir", "", "Output directory (default: current directory)")
}

func runSerialize(cmd *cobra.Command, args []string) error {
	input := args[0]

	// --- Validate flags ---
	if err := validateSerializeFlags(); err != nil {
		return err
	}
	applyFlagOverrides(cmd)

	info, err := os.Stat(input)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	if info.IsDir() && !flagAll {
		return fmt.Errorf("%s is a directory; pass --all to serialize every file below it", input)
	}

	// Initialize pipeline components.
	serializer := serialize.New(cfg.OpaqueTags, cfg.BlockTags)
	renderer := selectRenderer(serializer)
	extractor := extract.New(cfg.Selector)

	if flagStdout {
		data, err := processFile(input, extractor, renderer)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}

	writer, err := output.New(cfg.OutputDir)
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}

	if flagAll {
		return runAll(cmd, input, extractor, renderer, writer)
	}
	return runOnly(cmd, input, extractor, renderer, writer)
}

// runOnly processes a single file through the pipeline.
func runOnly(
	cmd *cobra.Command,
	input string,
	extractor core.Extractor,
	renderer core.Renderer,
	writer *output.Writer,
) error {
	data, err := processFile(input, extractor, renderer)
	if err != nil {
		return err
	}

	path, err := writer.WriteOnly(input, data, renderer.Extension())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Written: %s\n", path)
	return nil
}

// runAll discovers every HTML file below root and processes each through the pipeline.
func runAll(
	cmd *cobra.Command,
	root string,
	extractor core.Extractor,
	renderer core.Renderer,
	writer *output.Writer,
) error {
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()
	fmt.Fprintf(out, "Discovering documents under %s...\n", root)

	files, err := crawl.DiscoverAll(context.Background(), root, writer.OutputDir)
	if err != nil {
		return fmt.Errorf("discovering documents: %w", err)
	}

	fmt.Fprintf(out, "Found %d documents to process\n", len(files))

	absRoot := crawl.NormalizePath(root)
	var errCount int
	for i, file := range files {
		fmt.Fprintf(out, "[%d/%d] Processing %s\n", i+1, len(files), file)

		data, err := processFile(file, extractor, renderer)
		if err != nil {
			fmt.Fprintf(errOut, "  ✗ Error: %v\n", err)
			errCount++
			continue
		}

		path, err := writer.WriteAll(absRoot, file, data, renderer.Extension())
		if err != nil {
			fmt.Fprintf(errOut, "  ✗ Write error: %v\n", err)
			errCount++
			continue
		}
		fmt.Fprintf(out, "  ✓ Written: %s\n", path)
	}

	if errCount > 0 {
		fmt.Fprintf(errOut, "\n%d/%d documents failed\n", errCount, len(files))
	}
	return nil
}

// processFile runs a single file through the full pipeline.
func processFile(path string, extractor core.Extractor, renderer core.Renderer) ([]byte, error) {
	// 1. Read
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	// 2. Extract the tree to serialize
	root, err := extractor.Extract(string(src))
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", filepath.Base(path), err)
	}

	// 3. Render to output format
	data, err := renderer.Render(root)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", filepath.Base(path), err)
	}
	return data, nil
}

// validateSerializeFlags checks flag combinations that cannot work together.
func validateSerializeFlags() error {
	if flagAll && flagStdout {
		return fmt.Errorf("--all and --stdout are mutually exclusive")
	}
	return nil
}

// applyFlagOverrides lets explicitly set flags win over the config file.
func applyFlagOverrides(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("selector") {
		cfg.Selector = flagSelector
	}
	if flags.Changed("opaque") {
		cfg.OpaqueTags = flagOpaque
	}
	if flags.Changed("block") {
		cfg.BlockTags = flagBlock
	}
	if flags.Changed("output_dir") {
		cfg.OutputDir = flagOutputDir
	}
}

// selectRenderer creates the appropriate Renderer based on flags.
func selectRenderer(s *serialize.Serializer) core.Renderer {
	if flagMarkdown {
		return render.NewMarkdownRenderer(s)
	}
	return render.NewHTMLRenderer(s)
}
