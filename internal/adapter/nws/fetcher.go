// Package nws downloads point forecasts from the National Weather Service.
package nws

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/nws-dwml-etl/internal/config"
	"github.com/couchcryptid/nws-dwml-etl/internal/domain"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
)

// Fetcher downloads the DWML document for a single forecast point.
// It implements pipeline.Fetcher.
type Fetcher struct {
	client    *resty.Client
	url       string
	userAgent string
	limiter   *rate.Limiter
	logger    *slog.Logger
}

// NewFetcher creates a Fetcher for the configured forecast point.
func NewFetcher(cfg config.ScrapeConfig, logger *slog.Logger) *Fetcher {
	client := resty.New().
		SetTransport(otelhttp.NewTransport(http.DefaultTransport)).
		SetTimeout(cfg.FetchTimeout).
		SetRetryCount(0)

	return &Fetcher{
		client:    client,
		url:       cfg.ForecastURL(),
		userAgent: cfg.UserAgent,
		limiter:   newLimiter(cfg.FetchMinInterval),
		logger:    logger,
	}
}

// newLimiter allows one request per interval. A zero interval disables limiting.
func newLimiter(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

// URL returns the forecast URL this Fetcher requests.
func (f *Fetcher) URL() string {
	return f.url
}

// Fetch performs one GET of the forecast URL and returns the response body
// unmodified. Transport failures and non-2xx statuses wrap domain.ErrFetch.
func (f *Fetcher) Fetch(ctx context.Context) ([]byte, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limit wait: %w", domain.ErrFetch, err)
	}

	start := time.Now()
	resp, err := f.client.R().
		SetContext(ctx).
		SetHeader("User-Agent", f.userAgent).
		SetHeader("Accept", "application/xml, text/xml;q=0.9, */*;q=0.1").
		Get(f.url)
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %w", domain.ErrFetch, f.url, err)
	}

	if resp.IsError() || resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return nil, fmt.Errorf("%w: get %s: unexpected status %d", domain.ErrFetch, f.url, resp.StatusCode())
	}

	body := resp.Body()
	f.logger.Debug("dwml fetched",
		"url", f.url,
		"status", resp.StatusCode(),
		"bytes", len(body),
		"duration", time.Since(start),
	)
	return body, nil
}
