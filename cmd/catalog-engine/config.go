// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/catalog-engine/internal/secrets"
	"github.com/pdiddy/catalog-engine/pkg/types"
)

const (
	defaultInput     = "README.md"
	defaultOutput    = "apps.json"
	defaultDataDir   = "data"
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "catalog-engine/0.1"
)

// pipelineConfig assembles the typed configuration from flags, the config
// file, and CATALOG_ENGINE_* environment variables, in viper's precedence.
func pipelineConfig() types.PipelineConfig {
	input := viper.GetString("parse.input")
	if input == "" {
		input = defaultInput
	}
	output := viper.GetString("parse.output")
	if output == "" {
		output = defaultOutput
	}
	dataDir := viper.GetString("index.data_dir")
	if dataDir == "" {
		dataDir = defaultDataDir
	}
	timeout := viper.GetDuration("parse.fetch.timeout")
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return types.PipelineConfig{
		Parse: types.ParseConfig{
			Input:  input,
			Output: output,
			Fetch: types.FetchConfig{
				HTTPConfig: types.HTTPConfig{
					Timeout:    timeout,
					UserAgent:  viper.GetString("parse.fetch.user_agent"),
					MaxRetries: viper.GetInt("parse.fetch.max_retries"),
				},
				Token: loadedSecrets.Lookup(secrets.GitHubToken, viper.GetString("parse.fetch.token")),
			},
		},
		Index: types.IndexConfig{
			DataDir:    dataDir,
			MaxResults: viper.GetInt("index.max_results"),
		},
	}
}
