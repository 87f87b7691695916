// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package source reads a catalog document from a local path or an
// http(s) URL.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/pdiddy/catalog-engine/internal/httputil"
	"github.com/pdiddy/catalog-engine/pkg/types"
)

// maxDocumentBytes bounds a remote document.
const maxDocumentBytes = 32 << 20

// IsRemote reports whether location is an http(s) URL.
func IsRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// Read returns the full text of the document at location. Remote documents
// are fetched with client; throttled responses are retried and any other
// non-200 status is an error. Retry notices go to log, which may be nil.
func Read(ctx context.Context, client *http.Client, location string, cfg types.FetchConfig, log io.Writer) (string, error) {
	if !IsRemote(location) {
		data, err := os.ReadFile(location)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", location, err)
		}
		return string(data), nil
	}
	return fetch(ctx, client, location, cfg, log)
}

func fetch(ctx context.Context, client *http.Client, url string, cfg types.FetchConfig, log io.Writer) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("building request for %s: %w", url, err)
	}
	if cfg.UserAgent != "" {
		req.Header.Set("User-Agent", cfg.UserAgent)
	}
	if cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+cfg.Token)
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, cfg.MaxRetries, log)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching %s: HTTP %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes+1))
	if err != nil {
		return "", fmt.Errorf("reading response from %s: %w", url, err)
	}
	if len(data) > maxDocumentBytes {
		return "", fmt.Errorf("fetching %s: document exceeds %d bytes", url, maxDocumentBytes)
	}
	return string(data), nil
}
