package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"MarketLens/internal/fetcher"
)

// Scheduler re-runs the batch fetch on a cron schedule to keep the
// cache warm in watch mode.
type Scheduler struct {
	Cron   *cron.Cron
	Loader *fetcher.DataFetcher
	Specs  []fetcher.TickerSpec
	Ctx    context.Context
}

// New creates a Scheduler over a fixed ticker list.
func New(ctx context.Context, loader *fetcher.DataFetcher, specs []fetcher.TickerSpec) *Scheduler {
	return &Scheduler{
		Cron:   cron.New(cron.WithSeconds()),
		Loader: loader,
		Specs:  specs,
		Ctx:    ctx,
	}
}

// Register adds the refresh task under the given cron spec.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

func (s *Scheduler) refreshTask() {
	log.Println("[INFO] running cache refresh")
	assets := s.Loader.LoadAssets(s.Ctx, s.Specs)
	log.Printf("[INFO] cache refresh done: %d/%d tickers loaded", len(assets), len(s.Specs))
}
