// Package catalog resolves product ids to metadata via the external catalog
// service.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aluiziolira/go-order-report/config"
	"github.com/aluiziolira/go-order-report/models"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Client performs sequential catalog lookups, one request in flight at a
// time. Resolved metadata is kept in a bounded LRU cache so repeated runs in
// watch mode skip lookups for products already seen.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	pause      time.Duration
	cache      *lru.Cache[string, *models.Product]
	Metrics    *Metrics
}

// NewClient builds a catalog client configured from cfg.
func NewClient(cfg *config.Config) (*Client, error) {
	parsed, err := url.Parse(cfg.CatalogBaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse catalog base url: %w", err)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("catalog base url must include a host")
	}

	cache, err := lru.New[string, *models.Product](cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("create metadata cache: %w", err)
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		baseURL:   strings.TrimSuffix(cfg.CatalogBaseURL, "/"),
		userAgent: cfg.UserAgent,
		pause:     cfg.RateLimitPause,
		cache:     cache,
		Metrics:   NewMetrics(),
	}, nil
}

// WithTransport swaps the underlying HTTP transport. Used by tests.
func (c *Client) WithTransport(rt http.RoundTripper) {
	c.httpClient.Transport = rt
}

// Enrich resolves each distinct product id to metadata, in order, one call
// per id. A rate-limit response drops the current id and takes one fixed
// pause before the next lookup; the id is not retried within this run. Any
// other failure skips the id with a diagnostic. Enrich never fails: the
// returned index is complete for exactly the ids that resolved.
func (c *Client) Enrich(ctx context.Context, ids []string) models.CatalogIndex {
	index := make(models.CatalogIndex, len(ids))

	for _, id := range ids {
		if product, ok := c.cache.Get(id); ok {
			c.Metrics.IncCacheHit()
			index[id] = product
			continue
		}

		product, err := c.lookup(ctx, id)
		if err != nil {
			category := errorTypeLabel(err)
			c.Metrics.IncError(category)
			c.Metrics.IncLookup("unresolved")

			var rateLimited ErrRateLimited
			if errors.As(err, &rateLimited) {
				slog.Warn("rate limit hit, pausing before next lookup",
					slog.String("product_id", id),
					slog.Duration("pause", c.pause),
				)
				c.Metrics.IncRateLimitPause()
				c.pauseFor(ctx)
			} else {
				slog.Warn("catalog lookup failed",
					slog.String("product_id", id),
					slog.String("category", category),
					slog.Any("error", err),
				)
			}
			continue
		}

		c.cache.Add(id, product)
		index[id] = product
		c.Metrics.IncLookup("resolved")
	}

	return index
}

func (c *Client) lookup(ctx context.Context, id string) (*models.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/products/"+id, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyError(err, 0)
	}
	defer resp.Body.Close()
	c.Metrics.ObserveDuration(time.Since(start))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyError(err, resp.StatusCode)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		if classified := classifyError(nil, resp.StatusCode); classified != nil {
			return nil, classified
		}
		return nil, fmt.Errorf("http status %d", resp.StatusCode)
	}

	// The catalog answers unknown ids with 200 and an empty body.
	if strings.TrimSpace(string(body)) == "" {
		return nil, ErrDecode{Err: errors.New("empty response body")}
	}

	var product models.Product
	if err := json.Unmarshal(body, &product); err != nil {
		return nil, ErrDecode{Err: err}
	}
	product.ID = id
	return &product, nil
}

// pauseFor blocks the whole pipeline for the configured interval. The pause
// only shields subsequent lookups from hammering the service; it does not
// recover the lookup that triggered it.
func (c *Client) pauseFor(ctx context.Context) {
	if c.pause <= 0 {
		return
	}
	timer := time.NewTimer(c.pause)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
