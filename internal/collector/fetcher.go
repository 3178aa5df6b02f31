package collector

import (
	"context"
	"time"
)

// Column names as external providers commonly label them.
const (
	ColAdjClose = "Adj Close"
	ColClose    = "Close"
)

// RawHistory is a provider-shaped price table: a timestamp index, which
// may carry timezone information, plus named price columns.
type RawHistory struct {
	Index   []time.Time
	Columns map[string][]float64
}

// Empty reports whether the table has no rows.
func (h *RawHistory) Empty() bool {
	return h == nil || len(h.Index) == 0
}

// Fetcher retrieves the full available price history for a ticker.
// An empty RawHistory with a nil error means the provider has no data
// for the symbol; errors are reserved for network/provider failures.
type Fetcher interface {
	FetchHistory(ctx context.Context, ticker string) (*RawHistory, error)
	Name() string
}
