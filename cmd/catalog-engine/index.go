// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/catalog-engine/internal/catalog"
	"github.com/pdiddy/catalog-engine/internal/catalogdb"
	"github.com/pdiddy/catalog-engine/pkg/types"
)

// --- index subcommand ---

var indexCmd = &cobra.Command{
	Use:   "index [dataset]",
	Short: "Load a parsed dataset into the local catalog index",
	Long: `Index reads a dataset JSON file (apps.json by default) and loads it into
a SQLite database under data/index/ with FTS5 indexing over names,
descriptions, and languages. An unchanged dataset is skipped.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIndex,
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()
	path := cfg.Parse.Output
	if len(args) == 1 {
		path = args[0]
	}

	ds, err := catalog.ReadJSON(path)
	if err != nil {
		return err
	}

	store, err := catalogdb.NewStore(cfg.Index)
	if err != nil {
		return err
	}
	defer store.Close()

	_, err = store.Ingest(cmd.Context(), ds, path, os.Stdout)
	return err
}

// --- query subcommand ---

var queryCmd = &cobra.Command{
	Use:   "query [terms...]",
	Short: "Search the catalog index with full-text search and filters",
	Long: `Query searches the catalog index using FTS5 full-text search over names,
descriptions, and languages, structured filters (--category, --language),
or a combination of both. Use --categories to list declared and indexed
counts per category instead.`,
	RunE: runQuery,
}

func runQuery(cmd *cobra.Command, args []string) error {
	store, err := catalogdb.NewStore(pipelineConfig().Index)
	if err != nil {
		return err
	}
	defer store.Close()

	jsonOutput, _ := cmd.Flags().GetBool("json")

	if listCategories, _ := cmd.Flags().GetBool("categories"); listCategories {
		counts, err := store.Categories(cmd.Context())
		if err != nil {
			return err
		}
		return formatCategoryOutput(counts, jsonOutput)
	}

	opts, err := queryOptsFromFlags(cmd, args)
	if err != nil {
		return err
	}
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide search terms, --category, or --language")
	}

	results, err := store.Retrieve(cmd.Context(), opts)
	if err != nil {
		return err
	}
	return formatQueryOutput(results, jsonOutput)
}

func formatQueryOutput(results []types.App, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-12s  %-24s  %-20s  %s\n",
		"Rank", "ID", "Name", "Category", "Languages")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 90))

	for i, r := range results {
		fmt.Fprintf(os.Stdout, "%-4d  %-12s  %-24s  %-20s  %s\n",
			i+1, r.ID, truncate(r.Name, 24), truncate(r.Category, 20), strings.Join(r.Languages, ", "))
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}

func formatCategoryOutput(counts []catalogdb.CategoryCount, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(counts)
	}

	if len(counts) == 0 {
		fmt.Println("No categories indexed.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-32s  %8s  %8s\n", "Category", "Declared", "Indexed")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 52))
	for _, c := range counts {
		fmt.Fprintf(os.Stdout, "%-32s  %8d  %8d\n", truncate(c.Name, 32), c.Declared, c.Indexed)
	}
	return nil
}

// --- export subcommand ---

var exportCmd = &cobra.Command{
	Use:   "export [terms...]",
	Short: "Export the catalog index to YAML or JSON",
	Long: `Export writes the full catalog index (or a filtered subset) to
data/index/export.yaml or export.json. Supports the same filter flags as
query for partial exports.`,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	store, err := catalogdb.NewStore(pipelineConfig().Index)
	if err != nil {
		return err
	}
	defer store.Close()

	opts, err := queryOptsFromFlags(cmd, args)
	if err != nil {
		return err
	}

	var path string
	switch format {
	case "yaml", "":
		path, err = store.ExportYAML(cmd.Context(), opts)
	case "json":
		path, err = store.ExportJSON(cmd.Context(), opts)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Exported to %s\n", path)
	return nil
}

// --- shared helpers ---

func queryOptsFromFlags(cmd *cobra.Command, args []string) (catalogdb.QueryOptions, error) {
	category, _ := cmd.Flags().GetString("category")
	language, _ := cmd.Flags().GetString("language")
	sortName, _ := cmd.Flags().GetString("sort")
	limit, _ := cmd.Flags().GetInt("limit")

	order, err := catalogdb.ParseSortOrder(sortName)
	if err != nil {
		return catalogdb.QueryOptions{}, err
	}

	return catalogdb.QueryOptions{
		Query:      strings.Join(args, " "),
		Category:   category,
		Language:   language,
		Sort:       order,
		MaxResults: limit,
	}, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func init() {
	queryCmd.Flags().String("category", "", "filter by category name")
	queryCmd.Flags().String("language", "", "filter by language tag")
	queryCmd.Flags().String("sort", "", "result order: relevance, name, name-desc, recent, popular")
	queryCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	queryCmd.Flags().Bool("json", false, "output results as JSON")
	queryCmd.Flags().Bool("categories", false, "list categories with declared and indexed counts")

	exportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	exportCmd.Flags().String("category", "", "filter by category for partial export")
	exportCmd.Flags().String("language", "", "filter by language for partial export")
	exportCmd.Flags().String("sort", "", "export order: relevance, name, name-desc, recent, popular")
	exportCmd.Flags().Int("limit", 0, "maximum apps to export (0 = all)")

	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(exportCmd)
}
