// Package imagecache keeps downloaded images on disk so repeated runs over the
// same URL skip the network.
package imagecache

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	httputil "github.com/jmylchreest/dynpal/internal/util/http"
)

// Cache stores remote images under Dir, one file per URL.
type Cache struct {
	Dir   string
	Fetch httputil.FetchOptions
}

// DefaultDir returns the default cache directory path.
func DefaultDir() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to determine cache directory: %w", err)
		}
		return filepath.Join(home, ".cache", "dynpal", "images"), nil
	}
	return filepath.Join(cacheDir, "dynpal", "images"), nil
}

// Filename derives a stable file name from a URL: a hash of the URL plus the
// original extension, or .img when there is none.
func Filename(url string) string {
	hash := sha256.Sum256([]byte(url))

	ext := filepath.Ext(url)
	if idx := strings.IndexAny(ext, "?#"); idx != -1 {
		ext = ext[:idx]
	}
	if ext == "" || len(ext) > 5 || strings.Contains(ext, "/") {
		ext = ".img"
	}
	return fmt.Sprintf("%x%s", hash[:16], ext)
}

// Path returns where url is, or would be, cached.
func (c *Cache) Path(url string) string {
	return filepath.Join(c.Dir, Filename(url))
}

// Get returns the cached copy of url, downloading it first if needed.
func (c *Cache) Get(ctx context.Context, url string) (string, error) {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return "", fmt.Errorf("invalid URL: must start with http:// or https://")
	}
	if c.Dir == "" {
		return "", fmt.Errorf("cache directory not set")
	}

	path := c.Path(url)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	if err := os.MkdirAll(c.Dir, 0o755); err != nil { // #nosec G301 - Cache directory needs standard permissions
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}

	data, err := httputil.Fetch(ctx, url, c.Fetch)
	if err != nil {
		return "", fmt.Errorf("failed to download image: %w", err)
	}

	// Renamed into place; readers never see a partial file.
	tmp, err := os.CreateTemp(c.Dir, ".download-*")
	if err != nil {
		return "", fmt.Errorf("failed to write cached image: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("failed to write cached image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write cached image: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to write cached image: %w", err)
	}
	return path, nil
}
