package stats

import (
	"fmt"
	"strings"
	"time"

	"MarketLens/internal/model"
)

// Report holds the summary statistics for one asset over a date range.
type Report struct {
	Label        string
	Frequency    Frequency
	Start, End   time.Time
	Observations int
	StartPrice   float64
	EndPrice     float64
	TotalReturn  float64
	CAGR         float64
	Volatility   float64
	MaxDrawdown  float64

	AutocorrDaily   float64
	AutocorrMonthly float64
	AutocorrYearly  float64
}

// Compute derives the report from a series restricted to [start, end]
// and resampled to the requested frequency.
func Compute(label string, s model.PriceSeries, start, end time.Time, f Frequency) (*Report, error) {
	prices := s.Range(start, end)
	if len(prices) < 2 {
		return nil, fmt.Errorf("%s between %s and %s: %w",
			label, start.Format("2006-01-02"), end.Format("2006-01-02"), ErrInsufficientData)
	}
	prices = Resample(prices, f)
	if len(prices) < 2 {
		return nil, fmt.Errorf("%s between %s and %s: %w",
			label, start.Format("2006-01-02"), end.Format("2006-01-02"), ErrInsufficientData)
	}

	returns := Returns(prices)

	tr, err := TotalReturn(prices)
	if err != nil {
		return nil, err
	}
	cagr, err := CAGR(prices)
	if err != nil {
		return nil, err
	}

	return &Report{
		Label:           label,
		Frequency:       f,
		Start:           prices.First().Date,
		End:             prices.Last().Date,
		Observations:    len(prices),
		StartPrice:      prices.First().AdjClose,
		EndPrice:        prices.Last().AdjClose,
		TotalReturn:     tr,
		CAGR:            cagr,
		Volatility:      AnnualizedVolatility(returns, f),
		MaxDrawdown:     MaxDrawdown(returns),
		AutocorrDaily:   Autocorr(Returns(prices), 1),
		AutocorrMonthly: Autocorr(Returns(Resample(prices, Monthly)), 1),
		AutocorrYearly:  Autocorr(Returns(Resample(prices, Yearly)), 1),
	}, nil
}

const rule = "--------------------------------------------------------------------------------"

// Format renders the report as a plain-text block.
func (r *Report) Format() string {
	var b strings.Builder
	b.WriteString(rule + "\n")
	b.WriteString(fmt.Sprintf("Asset statistics: %s\n", r.Label))
	b.WriteString(rule + "\n")
	b.WriteString(fmt.Sprintf("Period: %s - %s\n", r.Start.Format("2006-01-02"), r.End.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("Frequency: %s\n", r.Frequency))
	b.WriteString(fmt.Sprintf("Observations: %d\n", r.Observations))
	b.WriteString(fmt.Sprintf("Start price: %.2f\n", r.StartPrice))
	b.WriteString(fmt.Sprintf("End price:   %.2f\n", r.EndPrice))
	b.WriteString(fmt.Sprintf("Total return: %.2f%%\n", r.TotalReturn*100))
	b.WriteString(fmt.Sprintf("CAGR:         %.2f%%\n", r.CAGR*100))
	b.WriteString(fmt.Sprintf("Volatility:   %.2f%%\n", r.Volatility*100))
	b.WriteString(fmt.Sprintf("Max drawdown: %.2f%%\n", r.MaxDrawdown*100))
	b.WriteString("Autocorrelation:\n")
	b.WriteString(fmt.Sprintf("  Daily:   %.4f\n", r.AutocorrDaily))
	b.WriteString(fmt.Sprintf("  Monthly: %.4f\n", r.AutocorrMonthly))
	b.WriteString(fmt.Sprintf("  Yearly:  %.4f\n", r.AutocorrYearly))
	b.WriteString(rule + "\n")
	return b.String()
}
