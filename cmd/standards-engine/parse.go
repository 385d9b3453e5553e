// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/standards-engine/internal/pipeline"
	"github.com/pdiddy/standards-engine/pkg/types"
)

var parsePDFCmd = &cobra.Command{
	Use:   "parse-pdf <input-file> <output-csv>",
	Short: "Parse one standards report into CSV rows",
	Long: `Parse-pdf extracts the standard/element/factor structure from a single
PDF report and appends one row per factor (or per element when an
element has no factors) to the output CSV. The header is written only
when the CSV is new.

Structural problems — dangling sections, missing markers, factor-count
mismatches — are printed as warnings and never abort the parse; the
affected fields stay empty for manual review.`,
	Args: cobra.ExactArgs(2),
	RunE: runParsePDF,
}

func runParsePDF(cmd *cobra.Command, args []string) error {
	return pipeline.ParseFileToCSV(args[0], args[1], parseOptions(cmd), os.Stdout)
}

var parseDirCmd = &cobra.Command{
	Use:   "parse-dir <input-dir> <output-csv>",
	Short: "Parse every report under a directory into one CSV",
	Long: `Parse-dir recursively finds PDF files under the input directory and
parses them on parallel workers. Rows are appended in directory-scan
order regardless of completion order, so repeated runs produce
identical output. A failed file is reported and skipped; the run exits
non-zero only when no input files exist or the output is unwritable.`,
	Args: cobra.ExactArgs(2),
	RunE: runParseDir,
}

func runParseDir(cmd *cobra.Command, args []string) error {
	_, err := pipeline.ParseDir(args[0], args[1], parseOptions(cmd), os.Stdout)
	return err
}

func parseOptions(cmd *cobra.Command) pipeline.Options {
	cfg := types.ParseConfig{
		SourceLabel: viper.GetString("parse.source_label"),
		Workers:     viper.GetInt("parse.workers"),
	}
	if label, _ := cmd.Flags().GetString("source-label"); label != "" {
		cfg.SourceLabel = label
	}
	if workers, _ := cmd.Flags().GetInt("workers"); workers > 0 {
		cfg.Workers = workers
	}
	return pipeline.Options{Config: cfg}
}

func init() {
	for _, cmd := range []*cobra.Command{parsePDFCmd, parseDirCmd} {
		cmd.Flags().String("source-label", "", fmt.Sprintf("report family recorded in the source column (default %q)", "NCQA Health Plan Standards"))
		cmd.Flags().Int("workers", 0, "concurrent documents in batch mode (0 = number of CPUs)")
		rootCmd.AddCommand(cmd)
	}
}
