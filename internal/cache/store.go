package cache

import "MarketLens/internal/model"

// Entry is a persisted price series plus its schema version stamp.
type Entry struct {
	SchemaVersion string
	Series        model.PriceSeries
}

// Store persists one entry per ticker. Implementations keep each ticker
// in its own file, so concurrent access for distinct tickers never
// touches the same data.
type Store interface {
	// Load returns the entry for a ticker, (nil, nil) when none exists,
	// or an error when the stored data is unreadable.
	Load(ticker string) (*Entry, error)
	// Save overwrites the entry for a ticker.
	Save(ticker string, e *Entry) error
	Name() string
}
