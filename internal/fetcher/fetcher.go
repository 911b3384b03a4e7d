// Package fetcher retrieves people-search pages over HTTP with rate limiting,
// retries, block detection and an optional page cache.
package fetcher

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/skiptrace-cli/internal/model"
)

// Fetcher retrieves one page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*model.Page, error)
}

// PageCache persists fetched page bodies. GetPage returns nil, nil on a miss
// or an expired entry.
type PageCache interface {
	GetPage(ctx context.Context, url string) (*model.PageCache, error)
	PutPage(ctx context.Context, url string, body []byte, ttl time.Duration) error
}

// CachedFetcher serves pages from a PageCache and falls through to the
// wrapped Fetcher on a miss. Cache errors are logged and never fail a fetch.
type CachedFetcher struct {
	next  Fetcher
	cache PageCache
	ttl   time.Duration
}

// NewCachedFetcher wraps next. A non-positive ttl disables caching.
func NewCachedFetcher(next Fetcher, cache PageCache, ttl time.Duration) *CachedFetcher {
	return &CachedFetcher{next: next, cache: cache, ttl: ttl}
}

// Fetch implements Fetcher.
func (c *CachedFetcher) Fetch(ctx context.Context, url string) (*model.Page, error) {
	if c.cache == nil || c.ttl <= 0 {
		return c.next.Fetch(ctx, url)
	}

	hit, err := c.cache.GetPage(ctx, url)
	if err != nil {
		zap.L().Warn("page cache read failed", zap.String("url", url), zap.Error(err))
	}
	if hit != nil {
		return &model.Page{URL: url, StatusCode: 200, Body: hit.Body, FromCache: true}, nil
	}

	page, err := c.next.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := c.cache.PutPage(ctx, url, page.Body, c.ttl); err != nil {
		zap.L().Warn("page cache write failed", zap.String("url", url), zap.Error(eris.Wrap(err, "put page")))
	}
	return page, nil
}
