// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the catalog-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/catalog-engine/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets secrets.Secrets

// rootCmd parses the catalog when run without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "catalog-engine",
	Short: "Extract a structured dataset from a markdown project catalog",
	Long: `catalog-engine reads a markdown catalog of software projects grouped into
"### Category (N)" sections and writes a JSON dataset with category
statistics, the language vocabulary, and one record per project.

Run without arguments to parse README.md into apps.json. Subcommands index
the dataset into a local SQLite database, query and export it, and check a
dataset file against the output schema.`,
	Args: cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
	RunE: runParse,
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ./catalog-engine.yaml or ~/.config/catalog-engine/config.yaml)")
	flags.String("input", defaultInput, "catalog document: local path or http(s) URL")
	flags.String("output", defaultOutput, "dataset JSON file")
	flags.String("data-dir", defaultDataDir, "base directory for the catalog index (contains index/)")

	viper.BindPFlag("parse.input", flags.Lookup("input"))
	viper.BindPFlag("parse.output", flags.Lookup("output"))
	viper.BindPFlag("index.data_dir", flags.Lookup("data-dir"))

	viper.SetDefault("parse.fetch.timeout", defaultTimeout)
	viper.SetDefault("parse.fetch.user_agent", defaultUserAgent)
	viper.SetDefault("parse.fetch.max_retries", 0)
	viper.SetDefault("index.max_results", 20)
}

func initConfig() {
	// A missing .env file is not an error.
	_ = godotenv.Load()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("catalog-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "catalog-engine"))
		}
	}

	viper.SetEnvPrefix("CATALOG_ENGINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
