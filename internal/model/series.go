package model

import (
	"fmt"
	"time"
)

// PricePoint is a single observation: a calendar date (midnight UTC, no
// time-of-day component) and the adjusted closing price.
type PricePoint struct {
	Date     time.Time
	AdjClose float64
}

// PriceSeries holds AdjClose observations in strictly increasing date order.
type PriceSeries []PricePoint

// Midnight truncates t to its calendar date at midnight UTC.
func Midnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Day builds a date at midnight UTC.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func (s PriceSeries) Empty() bool { return len(s) == 0 }

// First returns the earliest observation. Panics on an empty series.
func (s PriceSeries) First() PricePoint { return s[0] }

// Last returns the most recent observation. Panics on an empty series.
func (s PriceSeries) Last() PricePoint { return s[len(s)-1] }

// Range returns the sub-series with start <= date <= end.
func (s PriceSeries) Range(start, end time.Time) PriceSeries {
	start, end = Midnight(start), Midnight(end)
	lo := 0
	for lo < len(s) && s[lo].Date.Before(start) {
		lo++
	}
	hi := len(s)
	for hi > lo && s[hi-1].Date.After(end) {
		hi--
	}
	return s[lo:hi]
}

// Validate checks the series invariants: dates strictly increasing,
// normalized to midnight UTC, prices positive.
func (s PriceSeries) Validate() error {
	for i, p := range s {
		if !p.Date.Equal(Midnight(p.Date)) || p.Date.Location() != time.UTC {
			return fmt.Errorf("point %d: date %s is not a normalized UTC date", i, p.Date)
		}
		if p.AdjClose <= 0 {
			return fmt.Errorf("point %d (%s): non-positive price %v", i, p.Date.Format("2006-01-02"), p.AdjClose)
		}
		if i > 0 && !s[i-1].Date.Before(p.Date) {
			return fmt.Errorf("point %d (%s): dates not strictly increasing", i, p.Date.Format("2006-01-02"))
		}
	}
	return nil
}
