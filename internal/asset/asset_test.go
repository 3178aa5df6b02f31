package asset

import (
	"context"
	"errors"
	"testing"
	"time"

	"MarketLens/internal/cache"
	"MarketLens/internal/collector"
	"MarketLens/internal/config"
	"MarketLens/internal/model"
)

func testManager(t *testing.T) *cache.Manager {
	t.Helper()
	cfg := &config.Config{}
	cfg.Cache.Dir = t.TempDir()
	cfg.Cache.SchemaVersion = "1.0"
	cfg.Cache.Engine = "json"
	cfg.Fetch.MaxWorkers = 1
	m, err := cache.NewManager(cfg)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	return m
}

// freshHistory ends on the latest completed business day, so a cache
// write from it passes the freshness check.
func freshHistory(n int) *collector.RawHistory {
	end := cache.LatestBusinessDay(time.Now())
	prices := make([]float64, n)
	for i := range prices {
		prices[i] = 100 + float64(i)
	}
	return collector.GenerateHistory(collector.ColClose, end.AddDate(0, 0, -(n-1)), prices)
}

func TestFetch_DownloadsAndCaches(t *testing.T) {
	cm := testManager(t)
	mock := &collector.MockFetcher{
		History: map[string]*collector.RawHistory{"TEST": freshHistory(5)},
	}

	a := New("TEST", "Test", cm, mock)
	series, err := a.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(series) != 5 {
		t.Fatalf("expected 5 points, got %d", len(series))
	}
	if err := series.Validate(); err != nil {
		t.Errorf("series invariants violated: %v", err)
	}
	if _, state := cm.Lookup("TEST"); state != cache.Fresh {
		t.Errorf("expected fresh cache entry after fetch, got %s", state)
	}
}

func TestFetch_FreshCacheSkipsProvider(t *testing.T) {
	cm := testManager(t)
	mock := &collector.MockFetcher{
		History: map[string]*collector.RawHistory{"TEST": freshHistory(5)},
	}

	// First instance downloads and persists.
	first := New("TEST", "Test", cm, mock)
	if _, err := first.Fetch(context.Background()); err != nil {
		t.Fatal(err)
	}
	if mock.Calls("TEST") != 1 {
		t.Fatalf("expected 1 provider call, got %d", mock.Calls("TEST"))
	}

	// A second instance finds a fresh cache and never hits the network.
	second := New("TEST", "Test", cm, mock)
	series, err := second.Fetch(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if series.Empty() {
		t.Fatal("expected cached series")
	}
	if mock.Calls("TEST") != 1 {
		t.Errorf("fresh cache must not trigger a provider call, got %d calls", mock.Calls("TEST"))
	}

	// Repeat fetch on the same instance is a no-op too.
	if _, err := second.Fetch(context.Background()); err != nil {
		t.Fatal(err)
	}
	if mock.Calls("TEST") != 1 {
		t.Errorf("repeat fetch must not refetch, got %d calls", mock.Calls("TEST"))
	}
}

func TestFetch_RefreshBypassesCache(t *testing.T) {
	cm := testManager(t)
	mock := &collector.MockFetcher{
		History: map[string]*collector.RawHistory{"TEST": freshHistory(5)},
	}

	first := New("TEST", "Test", cm, mock)
	if _, err := first.Fetch(context.Background()); err != nil {
		t.Fatal(err)
	}

	second := New("TEST", "Test", cm, mock)
	second.Refresh = true
	if _, err := second.Fetch(context.Background()); err != nil {
		t.Fatal(err)
	}
	if mock.Calls("TEST") != 2 {
		t.Errorf("refresh must bypass the cache, got %d calls", mock.Calls("TEST"))
	}
}

func TestFetch_NoData(t *testing.T) {
	cm := testManager(t)
	mock := &collector.MockFetcher{}

	a := New("NOPE", "Nope", cm, mock)
	series, err := a.Fetch(context.Background())
	if err != nil {
		t.Fatalf("no data must not be an error, got %v", err)
	}
	if !series.Empty() {
		t.Fatalf("expected empty series, got %v", series)
	}
	if _, state := cm.Lookup("NOPE"); state != cache.Absent {
		t.Error("no cache entry may be written for an empty result")
	}
}

func TestFetch_NoUsableColumn(t *testing.T) {
	cm := testManager(t)
	mock := &collector.MockFetcher{
		History: map[string]*collector.RawHistory{
			"TEST": {
				Index:   []time.Time{model.Day(2020, 1, 1)},
				Columns: map[string][]float64{"Volume": {1}},
			},
		},
	}

	a := New("TEST", "Test", cm, mock)
	if _, err := a.Fetch(context.Background()); !errors.Is(err, collector.ErrNoUsablePriceColumn) {
		t.Fatalf("expected ErrNoUsablePriceColumn, got %v", err)
	}
	if _, state := cm.Lookup("TEST"); state != cache.Absent {
		t.Error("no cache entry may be written when normalization fails")
	}
}

func TestFetch_ProviderFailure(t *testing.T) {
	cm := testManager(t)
	mock := &collector.MockFetcher{
		Errs: map[string]error{"TEST": errors.New("connection reset")},
	}

	a := New("TEST", "Test", cm, mock)
	if _, err := a.Fetch(context.Background()); err == nil {
		t.Fatal("expected provider error to propagate from Fetch")
	}
	if !a.Series.Empty() {
		t.Error("series must stay empty after a failed fetch")
	}
}

func TestFetch_StaleCacheRefetches(t *testing.T) {
	cm := testManager(t)
	stale := model.PriceSeries{{Date: model.Day(2020, 1, 2), AdjClose: 50}}
	if err := cm.Save("TEST", stale); err != nil {
		t.Fatal(err)
	}

	mock := &collector.MockFetcher{
		History: map[string]*collector.RawHistory{"TEST": freshHistory(3)},
	}
	a := New("TEST", "Test", cm, mock)
	series, err := a.Fetch(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if mock.Calls("TEST") != 1 {
		t.Fatalf("stale cache must trigger a download, got %d calls", mock.Calls("TEST"))
	}
	if len(series) != 3 {
		t.Fatalf("expected refetched series, got %d points", len(series))
	}
}
