// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/catalog-engine/internal/catalog"
)

var validateCmd = &cobra.Command{
	Use:   "validate [dataset]",
	Short: "Check a dataset file against the output schema",
	Long: `Validate checks a dataset JSON file (apps.json by default) against the
embedded JSON Schema and prints every violation with its location.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := pipelineConfig().Parse.Output
	if len(args) == 1 {
		path = args[0]
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	err = catalog.Validate(data)
	var verr *catalog.ValidationError
	if errors.As(err, &verr) {
		for _, issue := range verr.Issues {
			loc := issue.Location
			if loc == "" {
				loc = "#"
			}
			fmt.Fprintf(os.Stdout, "  %s: %s\n", loc, issue.Message)
		}
		return fmt.Errorf("%s: %d schema violation(s)", path, len(verr.Issues))
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "%s: valid\n", path)
	return nil
}
