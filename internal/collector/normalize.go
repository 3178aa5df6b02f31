package collector

import (
	"errors"
	"math"
	"sort"
	"time"

	"MarketLens/internal/model"
)

// ErrNoUsablePriceColumn reports provider data without a recognizable
// price column.
var ErrNoUsablePriceColumn = errors.New("no usable price column")

// Normalize converts a provider table into the canonical series form:
// the adjusted-close column (falling back to close) renamed AdjClose,
// every timestamp converted to UTC and truncated to its calendar date,
// duplicate dates collapsed to the last value, ascending order.
func Normalize(h *RawHistory) (model.PriceSeries, error) {
	if h.Empty() {
		return nil, nil
	}

	col, ok := h.Columns[ColAdjClose]
	if !ok {
		col, ok = h.Columns[ColClose]
	}
	if !ok {
		return nil, ErrNoUsablePriceColumn
	}

	byDate := make(map[int64]float64, len(h.Index))
	for i, t := range h.Index {
		if i >= len(col) {
			break
		}
		p := col[i]
		if math.IsNaN(p) || p <= 0 {
			continue
		}
		byDate[model.Midnight(t).Unix()] = p
	}

	series := make(model.PriceSeries, 0, len(byDate))
	for d, p := range byDate {
		series = append(series, model.PricePoint{Date: time.Unix(d, 0).UTC(), AdjClose: p})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Date.Before(series[j].Date) })
	return series, nil
}
