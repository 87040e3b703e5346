// fetch.go downloads remote job inputs. Downloads land in an on-disk cache
// keyed by URL hash; when the network is down a previously cached copy is
// used so batch runs keep working offline.

package imageio

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"tileforge/internal/atomicfile"
)

// maxFetchBytes bounds a single remote image download.
const maxFetchBytes = 64 << 20 // 64 MiB

// IsRemote reports whether input names an http(s) URL rather than a
// filesystem path.
func IsRemote(input string) bool {
	return strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://")
}

// Fetcher downloads remote inputs into an on-disk cache. Set CacheDir before
// use. One Fetcher is shared per run; it is safe for concurrent use.
type Fetcher struct {
	CacheDir string        // where downloads land; created on demand
	RetryMax int           // retries per request; 0 means 2, negative means none
	Timeout  time.Duration // per-request timeout; 0 means 10s

	clientOnce sync.Once
	client     *retryablehttp.Client
}

// httpClient returns the shared retryable HTTP client, initializing it on
// first call.
func (f *Fetcher) httpClient() *retryablehttp.Client {
	f.clientOnce.Do(func() {
		f.client = retryablehttp.NewClient()
		switch {
		case f.RetryMax > 0:
			f.client.RetryMax = f.RetryMax
		case f.RetryMax < 0:
			f.client.RetryMax = 0
		default:
			f.client.RetryMax = 2
		}
		f.client.HTTPClient.Timeout = 10 * time.Second
		if f.Timeout > 0 {
			f.client.HTTPClient.Timeout = f.Timeout
		}
		f.client.Logger = nil // suppress retryablehttp's default logging
	})
	return f.client
}

// Fetch downloads rawURL and returns the local path of the cached copy.
//
// On download failure a previously cached copy is returned with a warning;
// the returned error is non-nil only when the download fails and no cached
// copy exists.
func (f *Fetcher) Fetch(rawURL string) (string, error) {
	cachePath := filepath.Join(f.CacheDir, cacheName(rawURL))

	body, err := f.download(rawURL)
	if err == nil {
		if writeErr := atomicfile.Write(cachePath, body, 0o644); writeErr != nil {
			return "", fmt.Errorf("caching %s: %w", rawURL, writeErr)
		}
		return cachePath, nil
	}
	slog.Warn("download failed, trying cache", "url", rawURL, "error", err)

	if _, statErr := os.Stat(cachePath); statErr == nil {
		return cachePath, nil
	}

	return "", fmt.Errorf("fetching %s: download: %w; no cached copy", rawURL, err)
}

// download GETs rawURL and returns the response body.
func (f *Fetcher) download(rawURL string) ([]byte, error) {
	resp, err := f.httpClient().Get(rawURL)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: status %d", rawURL, resp.StatusCode)
	}

	limited := io.LimitReader(resp.Body, maxFetchBytes+1)
	body, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", rawURL, err)
	}
	if int64(len(body)) > maxFetchBytes {
		return nil, fmt.Errorf("response from %s exceeds %d bytes", rawURL, maxFetchBytes)
	}
	return body, nil
}

// cacheName derives a stable cache file name from a URL: a short hash of the
// full URL plus the URL path's base name, so cache directories stay readable.
func cacheName(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	base := "download"
	if u, err := url.Parse(rawURL); err == nil {
		if b := path.Base(u.Path); b != "." && b != "/" && b != "" {
			base = b
		}
	}
	return hex.EncodeToString(sum[:8]) + "-" + base
}
