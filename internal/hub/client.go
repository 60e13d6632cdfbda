package hub

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

// ErrEntryNotFound reports that the requested file does not exist locally or remotely.
var ErrEntryNotFound = errors.New("hub: entry not found")

const (
	// DefaultEndpoint is the remote model repository host.
	DefaultEndpoint = "https://huggingface.co"

	defaultMissCacheSize = 1024
	defaultRetryMax      = 3
	defaultTimeout       = 30 * time.Second

	// proxyClientCacheSize bounds the number of distinct proxy setups kept.
	proxyClientCacheSize = 16
)

// Resolver locates a file belonging to a model identifier.
//
// Resolve returns the local path of the file, or ErrEntryNotFound when the
// file does not exist.
type Resolver interface {
	Resolve(ctx context.Context, identifier, filename string, opts FetchOptions) (string, error)
}

// Client resolves files from local directories, the on-disk cache and a
// remote endpoint.
type Client struct {
	endpoint string
	cacheDir string
	offline  bool
	retryMax int
	timeout  time.Duration
	missSize int

	http    *retryablehttp.Client
	proxied *lru.Cache[string, *retryablehttp.Client]
	misses  *lru.Cache[string, struct{}]
	logger  *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithEndpoint sets the remote endpoint, e.g. "https://huggingface.co".
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		c.endpoint = strings.TrimRight(endpoint, "/")
	}
}

// WithCacheDir sets the default cache directory.
func WithCacheDir(dir string) Option {
	return func(c *Client) {
		c.cacheDir = dir
	}
}

// WithOffline disables all network access.
func WithOffline(offline bool) Option {
	return func(c *Client) {
		c.offline = offline
	}
}

// WithRetryMax sets the number of retries for failed downloads.
func WithRetryMax(n int) Option {
	return func(c *Client) {
		c.retryMax = n
	}
}

// WithTimeout sets the per-attempt HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithMissCacheSize sets how many remote misses are remembered.
func WithMissCacheSize(n int) Option {
	return func(c *Client) {
		c.missSize = n
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a Client.
func NewClient(opts ...Option) (*Client, error) {
	c := &Client{
		endpoint: DefaultEndpoint,
		cacheDir: defaultCacheDir(),
		retryMax: defaultRetryMax,
		timeout:  defaultTimeout,
		missSize: defaultMissCacheSize,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(zap.String("component", "hub"))

	misses, err := lru.New[string, struct{}](c.missSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create miss cache: %w", err)
	}
	c.misses = misses

	proxied, err := lru.NewWithEvict(proxyClientCacheSize, func(_ string, hc *retryablehttp.Client) {
		hc.HTTPClient.CloseIdleConnections()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create proxy client cache: %w", err)
	}
	c.proxied = proxied

	c.http = retryablehttp.NewClient()
	c.http.RetryMax = c.retryMax
	c.http.RetryWaitMin = 100 * time.Millisecond
	c.http.RetryWaitMax = 2 * time.Second
	c.http.HTTPClient.Timeout = c.timeout
	c.http.Logger = leveledLogger{c.logger.Sugar()}

	return c, nil
}

func defaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "autotokenizer")
	}
	return filepath.Join(os.TempDir(), "autotokenizer")
}

// Resolve implements Resolver.
func (c *Client) Resolve(ctx context.Context, identifier, filename string, opts FetchOptions) (string, error) {
	if opts.ResumeDownload {
		c.logger.Debug("resume_download is deprecated and ignored")
	}

	if info, err := os.Stat(identifier); err == nil && info.IsDir() {
		return resolveLocal(identifier, opts.Subfolder, filename)
	}

	if !isRepoID(identifier) {
		// Neither a directory nor something a remote repository could be named.
		return "", ErrEntryNotFound
	}

	cached := c.cachePath(identifier, filename, opts)
	if !opts.ForceDownload {
		if _, err := os.Stat(cached); err == nil {
			c.logger.Debug("cache hit", zap.String("path", cached))
			return cached, nil
		}
	}

	if c.offline || opts.LocalFilesOnly {
		return "", ErrEntryNotFound
	}

	key := identifier + "@" + opts.revision() + "/" + path.Join(opts.Subfolder, filename)
	if !opts.ForceDownload && c.misses.Contains(key) {
		return "", ErrEntryNotFound
	}

	err := c.download(ctx, identifier, filename, cached, opts)
	if errors.Is(err, ErrEntryNotFound) {
		c.misses.Add(key, struct{}{})
	}
	if err != nil {
		return "", err
	}
	c.misses.Remove(key)

	return cached, nil
}

func resolveLocal(dir, subfolder, filename string) (string, error) {
	p := filepath.Join(dir, subfolder, filename)
	info, err := os.Stat(p)
	if err != nil || info.IsDir() {
		return "", ErrEntryNotFound
	}
	return p, nil
}

// isRepoID reports whether identifier looks like "name" or "org/name".
func isRepoID(identifier string) bool {
	if identifier == "" || strings.HasPrefix(identifier, "/") || strings.HasPrefix(identifier, ".") {
		return false
	}
	if filepath.IsAbs(identifier) || strings.Contains(identifier, "\\") {
		return false
	}
	parts := strings.Split(identifier, "/")
	if len(parts) > 2 {
		return false
	}
	for _, p := range parts {
		if p == "" || p == ".." {
			return false
		}
	}
	return true
}

func (c *Client) cachePath(identifier, filename string, opts FetchOptions) string {
	dir := c.cacheDir
	if opts.CacheDir != "" {
		dir = opts.CacheDir
	}
	return filepath.Join(dir, filepath.FromSlash(identifier), opts.revision(), filepath.FromSlash(opts.Subfolder), filename)
}

func (c *Client) fileURL(identifier, filename string, opts FetchOptions) string {
	return c.endpoint + "/" + identifier + "/resolve/" + url.PathEscape(opts.revision()) + "/" + path.Join(opts.Subfolder, filename)
}

func (c *Client) download(ctx context.Context, identifier, filename, dest string, opts FetchOptions) error {
	fileURL := c.fileURL(identifier, filename, opts)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", fileURL, err)
	}
	if opts.Token != "" {
		req.Header.Set("Authorization", "Bearer "+opts.Token)
	}

	resp, err := c.clientFor(opts).Do(req)
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", fileURL, err)
	}
	defer resp.Body.Close() //nolint:errcheck // Read-only body.

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrEntryNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("failed to download %s: unexpected status %d", fileURL, resp.StatusCode)
	}

	if err := writeAtomic(dest, resp.Body); err != nil {
		return fmt.Errorf("failed to store %s: %w", fileURL, err)
	}

	c.logger.Debug("downloaded file", zap.String("url", fileURL), zap.String("path", dest))
	return nil
}

// clientFor returns the shared client, or a client routed through the
// given proxies. Clients are reused per proxy setup.
func (c *Client) clientFor(opts FetchOptions) *retryablehttp.Client {
	if len(opts.Proxies) == 0 {
		return c.http
	}

	key := proxyKey(opts.Proxies)
	if hc, ok := c.proxied.Get(key); ok {
		return hc
	}

	hc := retryablehttp.NewClient()
	hc.RetryMax = c.http.RetryMax
	hc.RetryWaitMin = c.http.RetryWaitMin
	hc.RetryWaitMax = c.http.RetryWaitMax
	hc.Logger = c.http.Logger
	hc.HTTPClient = &http.Client{
		Timeout:   c.timeout,
		Transport: &http.Transport{Proxy: proxyFunc(opts.Proxies)},
	}
	c.proxied.Add(key, hc)
	return hc
}

func proxyKey(proxies map[string]string) string {
	keys := make([]string, 0, len(proxies))
	for k, v := range proxies {
		keys = append(keys, k+"="+v)
	}
	sort.Strings(keys)
	return strings.Join(keys, ";")
}

func writeAtomic(dest string, r io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o750); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".download-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // Gone after a successful rename.

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dest)
}

// leveledLogger adapts zap to retryablehttp.LeveledLogger.
type leveledLogger struct {
	s *zap.SugaredLogger
}

func (l leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, keysAndValues...)
}

func (l leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.s.Warnw(msg, keysAndValues...)
}
