package types

import "time"

// HTTPConfig holds shared HTTP settings used when the catalog is fetched
// over the network.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "catalog-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// MaxRetries bounds retries on HTTP 429 (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// FetchConfig holds settings for reading the source document.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// Token is an optional bearer token sent with remote requests.
	Token string `json:"token,omitempty" yaml:"token,omitempty"`
}

// ParseConfig holds settings for the parse stage.
type ParseConfig struct {
	// Input is a local path or http(s) URL of the catalog document
	// (default "README.md").
	Input string `json:"input" yaml:"input"`

	// Output is the path of the Dataset JSON file (default "apps.json").
	Output string `json:"output" yaml:"output"`

	Fetch FetchConfig `json:"fetch" yaml:"fetch"`
}

// IndexConfig holds settings for the catalog index.
type IndexConfig struct {
	// DataDir is the base directory for the index (contains index/).
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Parse ParseConfig `json:"parse" yaml:"parse"`
	Index IndexConfig `json:"index" yaml:"index"`
}
