package stats

import (
	"errors"
	"math"

	"MarketLens/internal/model"
)

// ErrInsufficientData reports fewer than two observations in the
// requested range.
var ErrInsufficientData = errors.New("insufficient data")

// Returns computes period-over-period percentage changes.
func Returns(s model.PriceSeries) []float64 {
	if len(s) < 2 {
		return nil
	}
	out := make([]float64, 0, len(s)-1)
	for i := 1; i < len(s); i++ {
		out = append(out, s[i].AdjClose/s[i-1].AdjClose-1)
	}
	return out
}

// TotalReturn is end price over start price minus one.
func TotalReturn(s model.PriceSeries) (float64, error) {
	if len(s) < 2 {
		return 0, ErrInsufficientData
	}
	return s.Last().AdjClose/s.First().AdjClose - 1, nil
}

// CAGR annualizes the total return over the covered calendar span.
func CAGR(s model.PriceSeries) (float64, error) {
	tr, err := TotalReturn(s)
	if err != nil {
		return 0, err
	}
	years := s.Last().Date.Sub(s.First().Date).Hours() / 24 / 365.25
	if years <= 0 {
		return math.NaN(), nil
	}
	return math.Pow(1+tr, 1/years) - 1, nil
}

// Std is the sample standard deviation (n-1 denominator).
func Std(x []float64) float64 {
	if len(x) < 2 {
		return math.NaN()
	}
	mean := 0.0
	for _, v := range x {
		mean += v
	}
	mean /= float64(len(x))
	ss := 0.0
	for _, v := range x {
		ss += (v - mean) * (v - mean)
	}
	return math.Sqrt(ss / float64(len(x)-1))
}

// AnnualizedVolatility scales daily return volatility by √252; other
// frequencies report the per-period deviation unscaled.
func AnnualizedVolatility(returns []float64, f Frequency) float64 {
	sd := Std(returns)
	if f == Daily {
		return sd * math.Sqrt(252)
	}
	return sd
}

// MaxDrawdown is the deepest peak-to-trough decline of the cumulative
// return path, as a negative fraction.
func MaxDrawdown(returns []float64) float64 {
	if len(returns) == 0 {
		return math.NaN()
	}
	cum, peak, maxDD := 1.0, 1.0, 0.0
	for _, r := range returns {
		cum *= 1 + r
		if cum > peak {
			peak = cum
		}
		if dd := cum/peak - 1; dd < maxDD {
			maxDD = dd
		}
	}
	return maxDD
}

// Autocorr is the Pearson correlation between x[t] and x[t-lag].
func Autocorr(x []float64, lag int) float64 {
	if lag <= 0 || len(x) <= lag+1 {
		return math.NaN()
	}
	a, b := x[lag:], x[:len(x)-lag]
	meanA, meanB := 0.0, 0.0
	for i := range a {
		meanA += a[i]
		meanB += b[i]
	}
	n := float64(len(a))
	meanA /= n
	meanB /= n
	var cov, varA, varB float64
	for i := range a {
		da, db := a[i]-meanA, b[i]-meanB
		cov += da * db
		varA += da * da
		varB += db * db
	}
	if varA == 0 || varB == 0 {
		return math.NaN()
	}
	return cov / math.Sqrt(varA*varB)
}
