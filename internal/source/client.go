package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/sync/errgroup"

	"github.com/blackwell-systems/tweetgenie/internal/analyzer"
	"github.com/blackwell-systems/tweetgenie/internal/logging"
	"github.com/blackwell-systems/tweetgenie/internal/reqcache"
)

// CacheScope prefixes every request cache key written by the client.
const CacheScope = "analytics"

// maxBodyBytes bounds how much of a response body is read.
const maxBodyBytes = 8 << 20

// Analytics endpoints, relative to the API base URL.
const (
	PathOverview         = "/analytics/overview"
	PathPreviousOverview = "/analytics/overview/previous"
	PathDaily            = "/analytics/daily"
	PathHourly           = "/analytics/hourly"
	PathPatterns         = "/analytics/patterns"
	PathContentTypes     = "/analytics/content-types"
	PathOptimalTimes     = "/analytics/optimal-times"
	PathReach            = "/analytics/reach"
	PathDistribution     = "/analytics/distribution"
)

// APIError is returned for a non-2xx response.
type APIError struct {
	Path   string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: HTTP %d", e.Path, e.Status)
	}
	return fmt.Sprintf("%s: HTTP %d: %s", e.Path, e.Status, e.Body)
}

// ClientConfig configures the analytics API client.
type ClientConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration

	// Days is the reporting window requested by Dataset.
	Days int

	// HTTPClient overrides the default client; its Timeout is left alone.
	HTTPClient *http.Client
}

// Client reads datasets from the analytics API. Every endpoint read goes
// through the request cache and a circuit breaker.
type Client struct {
	base    *url.URL
	cfg     ClientConfig
	http    *http.Client
	cache   *reqcache.Cache
	breaker *gobreaker.CircuitBreaker[[]byte]
	log     *logrus.Logger
}

// NewClient creates a client. A nil cache disables caching.
func NewClient(cfg ClientConfig, cache *reqcache.Cache, log *logrus.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, ErrNoSource
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing api url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("parsing api url: unsupported scheme %q", base.Scheme)
	}
	if log == nil {
		log = logging.Discard()
	}

	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}

	c := &Client{base: base, cfg: cfg, http: hc, cache: cache, log: log}
	c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "analytics-api",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// Client errors mean the request was wrong, not that the API is down.
		IsSuccessful: func(err error) bool {
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				return apiErr.Status < 500
			}
			return err == nil
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("circuit breaker state change")
		},
	})
	return c, nil
}

// Dataset implements Provider using the configured window.
func (c *Client) Dataset(ctx context.Context) (*analyzer.Dataset, error) {
	return c.FetchDataset(ctx, c.cfg.Days)
}

// Refresh drops every cached analytics response and returns how many were
// dropped.
func (c *Client) Refresh() int {
	if c.cache == nil {
		return 0
	}
	return c.cache.InvalidatePrefix(CacheScope + ":")
}

// FetchDataset reads all analytics endpoints for the last days days
// concurrently and returns the first failure. Without a cache the first
// failure also cancels the reads still in flight. With a cache each read runs
// detached from cancellation and settles on its own, so later callers can
// reuse the result.
func (c *Client) FetchDataset(ctx context.Context, days int) (*analyzer.Dataset, error) {
	if days <= 0 {
		days = analyzer.DefaultTimeframeDays
	}
	ds := &analyzer.Dataset{TimeframeDays: analyzer.Number(days)}

	reads := []struct {
		path   string
		target any
	}{
		{PathOverview, &ds.Overview},
		{PathPreviousOverview, &ds.Previous},
		{PathDaily, &ds.Daily},
		{PathHourly, &ds.Hourly},
		{PathPatterns, &ds.Patterns},
		{PathContentTypes, &ds.ContentTypes},
		{PathOptimalTimes, &ds.OptimalTimes},
		{PathReach, &ds.ReachByDay},
		{PathDistribution, &ds.Distribution},
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, r := range reads {
		g.Go(func() error {
			return c.getJSON(gctx, r.path, days, r.target)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetching analytics: %w", err)
	}
	return ds, nil
}

func (c *Client) getJSON(ctx context.Context, path string, days int, target any) error {
	start := time.Now()
	body, err := c.read(ctx, path, days)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	c.log.WithFields(logrus.Fields{
		"path":    path,
		"days":    days,
		"bytes":   len(body),
		"elapsed": time.Since(start).Round(time.Millisecond),
	}).Debug("analytics read")
	return nil
}

func (c *Client) read(ctx context.Context, path string, days int) ([]byte, error) {
	fetch := func(ctx context.Context) ([]byte, error) {
		return c.breaker.Execute(func() ([]byte, error) {
			return c.get(ctx, path, days)
		})
	}
	if c.cache == nil {
		return fetch(ctx)
	}
	key := reqcache.Key(CacheScope, path, map[string]int{"days": days}, nil)
	return reqcache.Fetch(ctx, c.cache, key, fetch)
}

func (c *Client) get(ctx context.Context, path string, days int) ([]byte, error) {
	u := *c.base
	u.Path += path
	u.RawQuery = url.Values{"days": {strconv.Itoa(days)}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Path: path, Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return body, nil
}
