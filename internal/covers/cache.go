// Package covers caches book thumbnails on local disk so front ends can
// serve them without hitting the image CDN on every view.
package covers

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/logger"
)

const (
	DefaultMaxBytes = 5 << 20
	defaultTimeout  = 30 * time.Second
)

var (
	ErrNoCover        = errors.New("book has no cover")
	ErrHostNotAllowed = errors.New("cover host not allowed")
	ErrNotImage       = errors.New("cover is not an image")
	ErrTooLarge       = errors.New("cover exceeds size limit")
)

// extensions maps accepted image types to the file extension they are stored under.
var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type Options struct {
	// AllowedHosts restricts which hosts covers are fetched from. Empty allows any.
	AllowedHosts []string
	MaxBytes     int64
	Timeout      time.Duration
}

// Cache handles local caching of book cover images.
type Cache struct {
	cacheDir     string
	httpClient   *http.Client
	allowedHosts map[string]struct{}
	maxBytes     int64
	inflight     singleflight.Group
}

// NewCache creates a new cover cache at the specified directory.
func NewCache(cacheDir string, opts Options) (*Cache, error) {
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxBytes := opts.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	hosts := make(map[string]struct{}, len(opts.AllowedHosts))
	for _, h := range opts.AllowedHosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			hosts[h] = struct{}{}
		}
	}

	return &Cache{
		cacheDir:     cacheDir,
		httpClient:   &http.Client{Timeout: timeout},
		allowedHosts: hosts,
		maxBytes:     maxBytes,
	}, nil
}

// Path returns the cached cover file for a book, fetching it on first use.
// Concurrent requests for the same cover share one download, which is bounded
// by the client timeout rather than by any one caller's context. Fetching a
// new thumbnail URL drops the covers cached for the book's earlier URLs.
func (c *Cache) Path(ctx context.Context, book entities.Book) (string, error) {
	if !book.HasCover() {
		return "", ErrNoCover
	}
	u, err := url.Parse(book.Thumbnail)
	if err != nil {
		return "", fmt.Errorf("parse cover URL: %w", err)
	}
	if !c.hostAllowed(u.Hostname()) {
		return "", fmt.Errorf("%w: %s", ErrHostNotAllowed, u.Hostname())
	}

	prefix := c.coverPrefix(book)
	if path, ok := c.cached(prefix); ok {
		return path, nil
	}

	v, err, _ := c.inflight.Do(prefix, func() (any, error) {
		if path, ok := c.cached(prefix); ok {
			return path, nil
		}
		if err := c.Invalidate(book); err != nil {
			logger.For(ctx).WithError(err).Warn("failed to drop stale covers")
		}
		return c.fetchAndCache(context.WithoutCancel(ctx), book.Thumbnail, prefix)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Invalidate removes every cached cover of a book.
func (c *Cache) Invalidate(book entities.Book) error {
	matches, err := filepath.Glob(filepath.Join(c.cacheDir, "cover_"+shortKey(book)+"_*"))
	if err != nil {
		return err
	}
	for _, match := range matches {
		if err := os.Remove(match); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// CacheDir returns the cache directory path.
func (c *Cache) CacheDir() string {
	return c.cacheDir
}

func (c *Cache) hostAllowed(host string) bool {
	if len(c.allowedHosts) == 0 {
		return true
	}
	_, ok := c.allowedHosts[strings.ToLower(host)]
	return ok
}

// coverPrefix names a cover by book and URL, so a changed thumbnail URL is
// fetched again.
func (c *Cache) coverPrefix(book entities.Book) string {
	hash := sha256.Sum256([]byte(book.Thumbnail))
	return fmt.Sprintf("cover_%s_%x", shortKey(book), hash[:8])
}

func shortKey(book entities.Book) string {
	return book.Key()[:16]
}

func (c *Cache) cached(prefix string) (string, bool) {
	for _, ext := range extensions {
		path := filepath.Join(c.cacheDir, prefix+ext)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

// fetchAndCache downloads a cover image and saves it to the cache.
func (c *Cache) fetchAndCache(ctx context.Context, coverURL, prefix string) (string, error) {
	defer logger.Track(ctx, "fetch cover "+coverURL)()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, coverURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "Bookshelf/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch cover: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch cover: status %d", resp.StatusCode)
	}

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	ext, ok := extensions[mediaType]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrNotImage, mediaType)
	}

	// Create temp file in same directory for atomic write
	tmpFile, err := os.CreateTemp(c.cacheDir, "cover_tmp_")
	if err != nil {
		return "", err
	}
	tmpPath := tmpFile.Name()
	defer func() {
		tmpFile.Close()
		os.Remove(tmpPath) // Clean up if we didn't rename
	}()

	n, err := io.Copy(tmpFile, io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return "", err
	}
	if n > c.maxBytes {
		return "", fmt.Errorf("%w: more than %d bytes", ErrTooLarge, c.maxBytes)
	}
	if err := tmpFile.Close(); err != nil {
		return "", err
	}

	cachePath := filepath.Join(c.cacheDir, prefix+ext)
	if err := os.Rename(tmpPath, cachePath); err != nil {
		return "", err
	}
	return cachePath, nil
}
