package collector

import (
	"context"
	"sync"
	"time"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	History map[string]*RawHistory
	Errs    map[string]error
	Delay   map[string]time.Duration

	mu    sync.Mutex
	calls map[string]int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchHistory(_ context.Context, ticker string) (*RawHistory, error) {
	m.mu.Lock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[ticker]++
	m.mu.Unlock()

	if d, ok := m.Delay[ticker]; ok {
		time.Sleep(d)
	}
	if err, ok := m.Errs[ticker]; ok {
		return nil, err
	}
	if h, ok := m.History[ticker]; ok {
		return h, nil
	}
	return &RawHistory{}, nil
}

// Calls reports how many times FetchHistory was invoked for a ticker.
func (m *MockFetcher) Calls(ticker string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[ticker]
}

// GenerateHistory builds a single-column daily history starting at the
// given instant, one row per day.
func GenerateHistory(column string, start time.Time, prices []float64) *RawHistory {
	h := &RawHistory{Columns: map[string][]float64{column: prices}}
	for i := range prices {
		h.Index = append(h.Index, start.AddDate(0, 0, i))
	}
	return h
}
