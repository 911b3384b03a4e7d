package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/skiptrace-cli/internal/address"
	"github.com/sells-group/skiptrace-cli/internal/extract"
	"github.com/sells-group/skiptrace-cli/internal/fetcher"
	"github.com/sells-group/skiptrace-cli/internal/resolve"
	"github.com/sells-group/skiptrace-cli/internal/store"
)

// resolveEnv holds the store and the resolver shared by run, resolve and
// serve.
type resolveEnv struct {
	Store    store.Store
	Resolver *resolve.Resolver
}

// Close releases the store.
func (e *resolveEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// initStore opens and migrates the configured store.
func initStore(ctx context.Context) (store.Store, error) {
	st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}

// initResolver validates config and wires fetcher, cache, extractor and
// resolver. cascade overrides resolve.cascade when non-empty. Callers should
// defer env.Close().
func initResolver(ctx context.Context, cascade string) (*resolveEnv, error) {
	if cascade != "" {
		cfg.Resolve.Cascade = cascade
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	mode, err := resolve.ParseMode(cfg.Resolve.Cascade)
	if err != nil {
		return nil, err
	}

	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	httpFetcher := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		UserAgent:  cfg.Site.UserAgent,
		Timeout:    cfg.Site.Timeout(),
		RatePerSec: cfg.Site.RatePerSec,
		Burst:      cfg.Site.Burst,
		Retry:      cfg.RetryPolicy(),
		Breaker:    cfg.BreakerConfig(),
	})
	f := fetcher.NewCachedFetcher(httpFetcher, st, cfg.Store.CacheTTL())

	r := resolve.New(f, extract.New(), resolve.Options{
		BaseURL:         cfg.Site.BaseURL,
		AcceptThreshold: cfg.Resolve.AcceptThreshold,
		MaxShortlist:    cfg.Resolve.MaxShortlist,
		MaxCandidates:   cfg.Resolve.MaxCandidates,
		Mode:            mode,
		Matcher:         address.NewMatcher(nil),
	})

	zap.L().Debug("resolver ready",
		zap.String("site", cfg.Site.BaseURL),
		zap.String("cascade", string(mode)),
		zap.String("store", cfg.Store.Driver),
	)
	return &resolveEnv{Store: st, Resolver: r}, nil
}
