// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package fetch downloads upstream pages and images through a URL-keyed
// disk cache, pacing network requests with a token bucket.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	xglog "github.com/ManuGH/lamesync/internal/log"
	"github.com/ManuGH/lamesync/internal/metrics"
	"github.com/ManuGH/lamesync/internal/resilience"
	"github.com/ManuGH/lamesync/internal/telemetry"
)

// Options configures the fetch client.
type Options struct {
	// BaseURL resolves relative references and is stripped from cache names.
	BaseURL string
	// CacheDir holds cached responses. Empty disables the cache.
	CacheDir          string
	UserAgent         string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	MaxRetries        int
	Backoff           time.Duration
	MaxBodyBytes      int64
	// BreakerThreshold consecutive transient failures stop network fetches
	// for BreakerReset.
	BreakerThreshold int
	BreakerReset     time.Duration
	// Transport overrides the base round tripper (tests).
	Transport http.RoundTripper
}

const (
	defaultTimeout      = 30 * time.Second
	defaultRetries      = 2
	defaultBackoff      = 500 * time.Millisecond
	defaultMaxBackoff   = 10 * time.Second
	defaultRPS          = 2
	defaultMaxBodyBytes = 32 << 20
	defaultBreakerTrips = 5
	defaultBreakerReset = time.Minute
)

// Client is safe for concurrent use.
type Client struct {
	baseURL    string
	cacheDir   string
	userAgent  string
	http       *http.Client
	base       http.RoundTripper
	limiter    *rate.Limiter
	breaker    *resilience.CircuitBreaker
	group      singleflight.Group
	maxRetries int
	backoff    time.Duration
	maxBody    int64

	mu  sync.Mutex
	rnd *rand.Rand
}

// New creates a fetch client.
func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	} else if opts.MaxRetries == 0 {
		opts.MaxRetries = defaultRetries
	}
	if opts.Backoff <= 0 {
		opts.Backoff = defaultBackoff
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = defaultRPS
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBodyBytes
	}
	if opts.BreakerThreshold <= 0 {
		opts.BreakerThreshold = defaultBreakerTrips
	}
	if opts.BreakerReset <= 0 {
		opts.BreakerReset = defaultBreakerReset
	}
	if strings.TrimSpace(opts.UserAgent) == "" {
		opts.UserAgent = "lamesync"
	}

	base := opts.Transport
	if base == nil {
		base = http.DefaultTransport.(*http.Transport).Clone()
	}

	return &Client{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		cacheDir:  opts.CacheDir,
		userAgent: opts.UserAgent,
		http: &http.Client{
			Timeout:   opts.Timeout,
			Transport: otelhttp.NewTransport(base),
		},
		base:    base,
		limiter: rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), opts.Burst),
		breaker: resilience.NewCircuitBreaker("upstream", opts.BreakerThreshold, opts.BreakerReset,
			resilience.WithFailureFilter(isTransient)),
		maxRetries: opts.MaxRetries,
		backoff:    opts.Backoff,
		maxBody:    opts.MaxBodyBytes,
		rnd:        rand.New(rand.NewSource(time.Now().UnixNano())), // #nosec G404 -- jitter only
	}
}

// Close releases idle connections.
func (c *Client) Close() {
	if t, ok := c.base.(interface{ CloseIdleConnections() }); ok {
		t.CloseIdleConnections()
	}
}

// BreakerState reports whether network fetches are currently allowed.
func (c *Client) BreakerState() resilience.State { return c.breaker.State() }

// Resolve turns a site-relative reference into an absolute URL.
func (c *Client) Resolve(ref string) string {
	ref = strings.TrimSpace(ref)
	u, err := url.Parse(ref)
	if err != nil || u.IsAbs() {
		return ref
	}
	base, err := url.Parse(c.baseURL + "/")
	if err != nil {
		return c.baseURL + ref
	}
	return base.ResolveReference(u).String()
}

// Get returns the body of rawURL, serving it from the cache when present.
// Concurrent requests for the same URL share one download.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	logger := xglog.WithComponentFromContext(ctx, "fetch")

	data, ok, err := c.readCache(rawURL)
	if err != nil {
		logger.Warn().Err(err).Str(xglog.FieldURL, rawURL).Msg("cache read failed, refetching")
	}
	if ok {
		metrics.RecordFetch("cache", 0, nil)
		logger.Debug().Str(xglog.FieldURL, rawURL).Msg("served from cache")
		return data, nil
	}

	v, err, shared := c.group.Do(rawURL, func() (any, error) {
		return c.download(ctx, rawURL)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		logger.Debug().Str(xglog.FieldURL, rawURL).Msg("shared in-flight download")
	}
	return v.([]byte), nil
}

func (c *Client) download(ctx context.Context, rawURL string) ([]byte, error) {
	logger := xglog.WithComponentFromContext(ctx, "fetch")
	ctx, span := telemetry.Tracer(telemetry.InstrumentationName).Start(ctx, "fetch.get",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String(telemetry.HTTPURLKey, rawURL)),
	)
	defer span.End()

	start := time.Now()
	var data []byte
	err := c.breaker.Execute(func() error {
		var err error
		data, err = c.fetchWithRetry(ctx, rawURL)
		return err
	})
	metrics.RecordFetch("network", time.Since(start), err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if err := c.writeCache(rawURL, data); err != nil {
		logger.Warn().Err(err).Str(xglog.FieldURL, rawURL).Msg("cache write failed")
	}
	logger.Info().
		Str(xglog.FieldEvent, "fetch.downloaded").
		Str(xglog.FieldURL, rawURL).
		Int("bytes", len(data)).
		Dur("duration", time.Since(start)).
		Msg("downloaded")
	return data, nil
}

func (c *Client) fetchWithRetry(ctx context.Context, rawURL string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= c.maxRetries+1; attempt++ {
		if attempt > 1 {
			if err := c.sleep(ctx, attempt); err != nil {
				return nil, err
			}
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
		}

		data, status, err := c.once(ctx, rawURL)
		if err == nil {
			return data, nil
		}
		lastErr = err
		if !shouldRetry(status, err) {
			break
		}
		trace.SpanFromContext(ctx).AddEvent("retry", trace.WithAttributes(
			attribute.Int(telemetry.FetchAttemptKey, attempt),
		))
	}
	return nil, lastErr
}

func (c *Client) once(ctx context.Context, rawURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, resp.StatusCode, &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read %s: %w", rawURL, err)
	}
	if int64(len(data)) > c.maxBody {
		return nil, resp.StatusCode, fmt.Errorf("fetch %s: body exceeds %d bytes", rawURL, c.maxBody)
	}
	return data, resp.StatusCode, nil
}

func (c *Client) sleep(ctx context.Context, attempt int) error {
	d := c.backoff << (attempt - 2)
	if d > defaultMaxBackoff || d <= 0 {
		d = defaultMaxBackoff
	}
	c.mu.Lock()
	d += time.Duration(c.rnd.Int63n(int64(d)/2 + 1))
	c.mu.Unlock()

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// isTransient reports whether err says something about the upstream's health.
func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return shouldRetry(se.StatusCode, err)
	}
	return true
}

func shouldRetry(status int, err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if status == 0 {
		return true
	}
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}
