// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/standards-engine/internal/store"
	"github.com/pdiddy/standards-engine/pkg/types"
)

// --- store subcommand ---

var storeCmd = &cobra.Command{
	Use:   "store <input-csv>",
	Short: "Ingest a parse CSV into the row index",
	Long: `Store loads the rows from a CSV produced by parse-pdf or parse-dir
into a SQLite database with FTS5 indexing over the explanation and
description fields. An unchanged CSV is skipped on subsequent runs; a
changed one replaces its previously ingested rows.`,
	Args: cobra.ExactArgs(1),
	RunE: runStore,
}

func runStore(cmd *cobra.Command, args []string) error {
	s, err := store.New(storeConfig(cmd))
	if err != nil {
		return err
	}
	defer s.Close()

	_, err = s.Ingest(context.Background(), args[0], os.Stdout)
	return err
}

// --- retrieve subcommand ---

var retrieveCmd = &cobra.Command{
	Use:   "retrieve [query]",
	Short: "Query the row index with full-text search and filters",
	Long: `Retrieve searches the ingested rows using FTS5 full-text search over
explanations and descriptions, structured filters, or both. Filters:
--standard, --element, --must-pass, --critical.`,
	RunE: runRetrieve,
}

func runRetrieve(cmd *cobra.Command, args []string) error {
	s, err := store.New(storeConfig(cmd))
	if err != nil {
		return err
	}
	defer s.Close()

	opts := queryOptsFromFlags(cmd, args)
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide a search query, --standard, --element, --must-pass, or --critical")
	}

	results, err := s.Retrieve(context.Background(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatRetrieveOutput(results, jsonOutput)
}

func formatRetrieveOutput(results []store.QueryResult, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-8s  %-10s  %-8s  %-50s  %s\n",
		"Rank", "Std", "Element", "Factor", "Description", "Reference")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))

	for i, r := range results {
		desc := r.FactorDescription
		if desc == "" {
			desc = r.ElementTitle
		}
		if len(desc) > 50 {
			desc = desc[:47] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-8s  %-10s  %-8s  %-50s  %s\n",
			i+1, r.StandardIndex, strings.TrimPrefix(r.ElementIndex, "Element "),
			r.FactorIndex, desc, r.FactorReference)
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}

// --- export subcommand ---

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the row index to YAML or JSON",
	Long: `Export writes the full row index (or a filtered subset) next to the
database. Supports the same filter flags as retrieve.`,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	s, err := store.New(storeConfig(cmd))
	if err != nil {
		return err
	}
	defer s.Close()

	opts := queryOptsFromFlags(cmd, args)

	var path string
	switch format {
	case "yaml", "":
		path, err = s.ExportYAML(context.Background(), opts)
	case "json":
		path, err = s.ExportJSON(context.Background(), opts)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}
	fmt.Println("Exported to", path)
	return nil
}

// --- shared helpers ---

func storeConfig(cmd *cobra.Command) types.StoreConfig {
	cfg := types.StoreConfig{
		DBDir:      viper.GetString("store.db_dir"),
		MaxResults: viper.GetInt("store.max_results"),
	}
	if dbDir, _ := cmd.Flags().GetString("db-dir"); dbDir != "" {
		cfg.DBDir = dbDir
	}
	if maxResults, _ := cmd.Flags().GetInt("max-results"); maxResults > 0 {
		cfg.MaxResults = maxResults
	}
	return cfg
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) store.QueryOptions {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}

	standard, _ := cmd.Flags().GetString("standard")
	element, _ := cmd.Flags().GetString("element")
	limit, _ := cmd.Flags().GetInt("limit")

	opts := store.QueryOptions{
		Query:         queryText,
		StandardIndex: standard,
		ElementIndex:  element,
		MaxResults:    limit,
	}
	if cmd.Flags().Changed("must-pass") {
		v, _ := cmd.Flags().GetBool("must-pass")
		opts.MustPass = &v
	}
	if cmd.Flags().Changed("critical") {
		v, _ := cmd.Flags().GetBool("critical")
		opts.Critical = &v
	}
	return opts
}

func init() {
	for _, cmd := range []*cobra.Command{storeCmd, retrieveCmd, exportCmd} {
		cmd.Flags().String("db-dir", "", "directory holding the SQLite index (default \"index\")")
		cmd.Flags().Int("max-results", 0, "maximum query results (0 = config default)")
	}

	for _, cmd := range []*cobra.Command{retrieveCmd, exportCmd} {
		cmd.Flags().String("query", "", "full-text search query")
		cmd.Flags().String("standard", "", "filter by standard index (e.g. \"QI 1\")")
		cmd.Flags().String("element", "", "filter by element index (e.g. \"Element A\")")
		cmd.Flags().Bool("must-pass", false, "filter by the element must-pass flag")
		cmd.Flags().Bool("critical", false, "filter by the factor critical flag")
		cmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	}

	retrieveCmd.Flags().Bool("json", false, "output results as JSON")
	exportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(retrieveCmd)
	rootCmd.AddCommand(exportCmd)
}
