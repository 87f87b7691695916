// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/catalog-engine/internal/catalog"
	"github.com/pdiddy/catalog-engine/internal/source"
)

var parseCmd = &cobra.Command{
	Use:   "parse [input]",
	Short: "Parse the catalog document into a JSON dataset",
	Long: `Parse reads the catalog document (README.md by default, or the given path
or URL), extracts categories and project records, and writes the dataset to
apps.json. Malformed lines are skipped; only I/O failures are errors. The
output file is replaced only after the whole dataset has been built.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig().Parse
	if len(args) == 1 {
		cfg.Input = args[0]
	}

	client := &http.Client{
		Timeout: cfg.Fetch.Timeout,
	}

	fmt.Fprintf(os.Stdout, "Parsing %s...\n", cfg.Input)
	content, err := source.Read(cmd.Context(), client, cfg.Input, cfg.Fetch, os.Stderr)
	if err != nil {
		return err
	}

	ds := catalog.Parse(content)
	catalog.PrintSummary(os.Stdout, ds)

	if err := catalog.WriteJSON(cfg.Output, ds); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Saved to %s\n", cfg.Output)
	return nil
}
