// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package fetch

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/renameio/v2"
)

var unsafeRun = regexp.MustCompile(`[^.\w]+`)

// URLToFilename maps a URL to a flat cache file name. The site prefix is
// dropped and every run of characters other than dots and ASCII word
// characters becomes a single underscore.
func URLToFilename(site, rawURL string) string {
	name := strings.TrimPrefix(rawURL, site)
	name = unsafeRun.ReplaceAllString(name, "_")
	if name == "" || name == "." || name == ".." {
		return "_index"
	}
	return name
}

// CachePath returns where the response for rawURL is cached, or "" when
// caching is disabled.
func (c *Client) CachePath(rawURL string) string {
	if c.cacheDir == "" {
		return ""
	}
	return filepath.Join(c.cacheDir, URLToFilename(c.baseURL, rawURL))
}

func (c *Client) readCache(rawURL string) ([]byte, bool, error) {
	path := c.CachePath(rawURL)
	if path == "" {
		return nil, false, nil
	}
	// #nosec G304 -- cache paths are derived from sanitized URLs under the configured cache dir
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read cache %s: %w", path, err)
	}
	return data, true, nil
}

func (c *Client) writeCache(rawURL string, data []byte) error {
	path := c.CachePath(rawURL)
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(c.cacheDir, 0o750); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	if err := renameio.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write cache %s: %w", path, err)
	}
	return nil
}
