package fetcher

import (
	"context"
	"log"

	"golang.org/x/sync/errgroup"

	"MarketLens/internal/asset"
	"MarketLens/internal/cache"
	"MarketLens/internal/collector"
)

// TickerSpec pairs a ticker symbol with its display label. Batch input
// is a slice so the caller's ordering is preserved.
type TickerSpec struct {
	Ticker string
	Label  string
}

// DataFetcher loads multiple assets concurrently through a shared cache
// manager, bounded by a worker limit.
type DataFetcher struct {
	Fetcher    collector.Fetcher
	Cache      *cache.Manager
	MaxWorkers int
	// Refresh forces every asset past the cache freshness check.
	Refresh bool
}

// New creates a DataFetcher.
func New(f collector.Fetcher, cm *cache.Manager, maxWorkers int) *DataFetcher {
	return &DataFetcher{Fetcher: f, Cache: cm, MaxWorkers: maxWorkers}
}

// LoadAssets fetches all specs concurrently and returns the assets that
// resolved a series, in input order. One asset slot exists per input
// index, so completion order never affects result order, and a failing
// ticker only costs its own slot.
func (d *DataFetcher) LoadAssets(ctx context.Context, specs []TickerSpec) []*asset.Asset {
	assets := make([]*asset.Asset, len(specs))
	for i, spec := range specs {
		assets[i] = asset.New(spec.Ticker, spec.Label, d.Cache, d.Fetcher)
		assets[i].Refresh = d.Refresh
	}

	g := new(errgroup.Group)
	g.SetLimit(d.MaxWorkers)
	for _, a := range assets {
		a := a
		g.Go(func() error {
			if _, err := a.Fetch(ctx); err != nil {
				log.Printf("[WARN] %v", err)
			}
			return nil
		})
	}
	// Tasks absorb their own failures; Wait is only the join barrier.
	_ = g.Wait()

	out := make([]*asset.Asset, 0, len(assets))
	for _, a := range assets {
		if a.Series.Empty() {
			log.Printf("[WARN] no data for %s, skipping", a.Ticker)
			continue
		}
		out = append(out, a)
	}
	return out
}
