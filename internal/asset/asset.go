package asset

import (
	"context"
	"fmt"
	"log"

	"MarketLens/internal/cache"
	"MarketLens/internal/collector"
	"MarketLens/internal/model"
)

// Asset represents one financial instrument: its ticker, a display
// label, and the resolved price series once Fetch has succeeded. The
// cache manager is shared with other assets and not owned here.
type Asset struct {
	Ticker string
	Label  string
	Series model.PriceSeries

	// Refresh bypasses the cache lookup (the result is still written back).
	Refresh bool

	cache   *cache.Manager
	fetcher collector.Fetcher
}

// New constructs an Asset. The series stays empty until Fetch succeeds.
func New(ticker, label string, cm *cache.Manager, f collector.Fetcher) *Asset {
	return &Asset{Ticker: ticker, Label: label, cache: cm, fetcher: f}
}

// Fetch resolves the price series for the asset: a fresh cache entry is
// adopted without network access, anything else triggers a download,
// normalization and a cache write. It populates the series at most once
// per instance. (nil, nil) means the provider has no data.
func (a *Asset) Fetch(ctx context.Context) (model.PriceSeries, error) {
	if !a.Series.Empty() {
		return a.Series, nil
	}

	if !a.Refresh {
		if series, state := a.cache.Lookup(a.Ticker); state == cache.Fresh {
			a.Series = series
			return a.Series, nil
		}
	}

	log.Printf("[INFO] downloading data for %s", a.Ticker)
	hist, err := a.fetcher.FetchHistory(ctx, a.Ticker)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", a.Ticker, err)
	}
	if hist.Empty() {
		return nil, nil
	}

	series, err := collector.Normalize(hist)
	if err != nil {
		return nil, fmt.Errorf("normalize %s: %w", a.Ticker, err)
	}
	if series.Empty() {
		return nil, nil
	}

	if err := a.cache.Save(a.Ticker, series); err != nil {
		// The downloaded series is still usable; next run refetches.
		log.Printf("[WARN] cache save failed for %s: %v", a.Ticker, err)
	}

	a.Series = series
	return a.Series, nil
}
