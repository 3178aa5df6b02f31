package stats

import (
	"fmt"

	"MarketLens/internal/model"
)

// Frequency selects the sampling granularity of a series.
type Frequency string

const (
	Daily   Frequency = "D"
	Monthly Frequency = "M"
	Yearly  Frequency = "Y"
)

// ParseFrequency accepts the CLI spellings D, M and Y.
func ParseFrequency(s string) (Frequency, error) {
	switch Frequency(s) {
	case Daily, Monthly, Yearly:
		return Frequency(s), nil
	}
	return "", fmt.Errorf("unknown frequency %q (want D, M or Y)", s)
}

func periodKey(f Frequency, i int, s model.PriceSeries) int {
	switch f {
	case Monthly:
		return s[i].Date.Year()*100 + int(s[i].Date.Month())
	case Yearly:
		return s[i].Date.Year()
	default:
		return i
	}
}

// Resample reduces a series to the last observation of each period.
// Daily input passes through unchanged.
func Resample(s model.PriceSeries, f Frequency) model.PriceSeries {
	if f == Daily || len(s) == 0 {
		return s
	}
	out := make(model.PriceSeries, 0, len(s))
	for i, p := range s {
		if i > 0 && periodKey(f, i, s) != periodKey(f, i-1, s) {
			out = append(out, s[i-1])
		}
		if i == len(s)-1 {
			out = append(out, p)
		}
	}
	return out
}
