package fetcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"MarketLens/internal/cache"
	"MarketLens/internal/collector"
	"MarketLens/internal/config"
	"MarketLens/internal/model"
)

func testSetup(t *testing.T) (*cache.Manager, string) {
	t.Helper()
	cfg := &config.Config{}
	cfg.Cache.Dir = t.TempDir()
	cfg.Cache.SchemaVersion = "1.0"
	cfg.Cache.Engine = "json"
	cfg.Fetch.MaxWorkers = 6
	cm, err := cache.NewManager(cfg)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	return cm, cfg.Cache.Dir
}

func history(prices ...float64) *collector.RawHistory {
	return collector.GenerateHistory(collector.ColClose, model.Day(2020, 1, 1), prices)
}

func TestLoadAssets_OrderAndFailureIsolation(t *testing.T) {
	cm, _ := testSetup(t)
	mock := &collector.MockFetcher{
		History: map[string]*collector.RawHistory{
			"AAA": history(1, 2, 3),
			"BBB": history(4, 5, 6),
		},
		Errs: map[string]error{"CCC": errors.New("provider down")},
		// AAA finishes last; result order must still follow input order.
		Delay: map[string]time.Duration{"AAA": 50 * time.Millisecond},
	}

	d := New(mock, cm, 3)
	assets := d.LoadAssets(context.Background(), []TickerSpec{
		{Ticker: "AAA", Label: "First"},
		{Ticker: "BBB", Label: "Second"},
		{Ticker: "CCC", Label: "Broken"},
	})

	if len(assets) != 2 {
		t.Fatalf("expected 2 assets, got %d", len(assets))
	}
	if assets[0].Ticker != "AAA" || assets[1].Ticker != "BBB" {
		t.Errorf("expected input order [AAA BBB], got [%s %s]", assets[0].Ticker, assets[1].Ticker)
	}
	for _, a := range assets {
		if a.Series.Empty() {
			t.Errorf("%s: included asset must have a series", a.Ticker)
		}
		if err := a.Series.Validate(); err != nil {
			t.Errorf("%s: %v", a.Ticker, err)
		}
	}
}

func TestLoadAssets_WorkerBoundOne(t *testing.T) {
	cm, _ := testSetup(t)
	mock := &collector.MockFetcher{
		History: map[string]*collector.RawHistory{
			"AAA": history(1, 2),
			"BBB": history(3, 4),
		},
	}
	d := New(mock, cm, 1)
	assets := d.LoadAssets(context.Background(), []TickerSpec{
		{Ticker: "AAA", Label: "A"},
		{Ticker: "BBB", Label: "B"},
	})
	if len(assets) != 2 {
		t.Fatalf("expected both assets with a single worker, got %d", len(assets))
	}
}

func TestLoadAssets_EndToEnd(t *testing.T) {
	cm, dir := testSetup(t)
	mock := &collector.MockFetcher{
		History: map[string]*collector.RawHistory{
			"TEST": history(100, 105, 102, 108, 110),
		},
	}

	d := New(mock, cm, 6)
	assets := d.LoadAssets(context.Background(), []TickerSpec{{Ticker: "TEST", Label: "Test"}})

	if len(assets) != 1 {
		t.Fatalf("expected 1 asset, got %d", len(assets))
	}
	a := assets[0]
	if a.Label != "Test" {
		t.Errorf("expected label Test, got %s", a.Label)
	}
	if len(a.Series) != 5 {
		t.Fatalf("expected 5-row series, got %d", len(a.Series))
	}
	if !a.Series.First().Date.Equal(model.Day(2020, 1, 1)) {
		t.Errorf("expected series to start 2020-01-01, got %s", a.Series.First().Date)
	}
	if a.Series.Last().AdjClose != 110 {
		t.Errorf("expected last AdjClose 110, got %v", a.Series.Last().AdjClose)
	}

	if mock.Calls("TEST") != 1 {
		t.Errorf("expected exactly one provider call, got %d", mock.Calls("TEST"))
	}
	if _, err := os.Stat(filepath.Join(dir, "TEST.json")); err != nil {
		t.Errorf("expected cache file written: %v", err)
	}
}

func TestLoadAssets_AllFailing(t *testing.T) {
	cm, _ := testSetup(t)
	mock := &collector.MockFetcher{
		Errs: map[string]error{"AAA": errors.New("boom")},
	}
	d := New(mock, cm, 2)
	assets := d.LoadAssets(context.Background(), []TickerSpec{
		{Ticker: "AAA", Label: "A"},
		{Ticker: "BBB", Label: "B"}, // no data configured
	})
	if len(assets) != 0 {
		t.Fatalf("expected empty result, got %d assets", len(assets))
	}
}
