package chart

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"math"
	"os"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"MarketLens/internal/model"
	"MarketLens/internal/stats"
)

// Options controls the rendered performance figure.
type Options struct {
	Frequency    stats.Frequency
	LogPrice     bool
	Window       int     // rolling window, in periods
	RiskFreeRate float64 // annualized
	Width        int
	PanelHeight  int
}

func (o Options) withDefaults() Options {
	if o.Frequency == "" {
		o.Frequency = stats.Daily
	}
	if o.Window <= 0 {
		o.Window = 63
	}
	if o.Width <= 0 {
		o.Width = 900
	}
	if o.PanelHeight <= 0 {
		o.PanelHeight = 220
	}
	return o
}

// Render draws the five-panel performance figure (price, cumulative
// return, drawdown, rolling volatility, rolling Sharpe ratio) for a
// series restricted to [start, end], and returns PNG bytes.
func Render(label, ticker string, s model.PriceSeries, start, end time.Time, opts Options) ([]byte, error) {
	opts = opts.withDefaults()

	prices := stats.Resample(s.Range(start, end), opts.Frequency)
	if len(prices) < 2 {
		return nil, fmt.Errorf("%s: %w", label, stats.ErrInsufficientData)
	}

	returns := stats.Returns(prices)
	retDates := make([]time.Time, len(returns))
	for i := range returns {
		retDates[i] = prices[i+1].Date
	}

	// Cumulative return and drawdown paths
	cumulative := make([]float64, len(returns))
	drawdown := make([]float64, len(returns))
	cum, peak := 1.0, 1.0
	for i, r := range returns {
		cum *= 1 + r
		if cum > peak {
			peak = cum
		}
		cumulative[i] = cum - 1
		drawdown[i] = cum/peak - 1
	}

	// Rolling volatility and Sharpe ratio
	rfPeriod := opts.RiskFreeRate
	volScale := 1.0
	if opts.Frequency == stats.Daily {
		rfPeriod = opts.RiskFreeRate / 252
		volScale = math.Sqrt(252)
	}
	var volDates []time.Time
	var rollVol, rollSharpe []float64
	for i := opts.Window; i <= len(returns); i++ {
		win := returns[i-opts.Window : i]
		sd := stats.Std(win) * volScale
		mean := 0.0
		for _, r := range win {
			mean += r
		}
		mean /= float64(len(win))

		volDates = append(volDates, retDates[i-1])
		rollVol = append(rollVol, sd)
		if sd > 0 {
			rollSharpe = append(rollSharpe, (mean-rfPeriod)/sd)
		} else {
			rollSharpe = append(rollSharpe, 0)
		}
	}

	priceDates := make([]time.Time, len(prices))
	priceVals := make([]float64, len(prices))
	for i, p := range prices {
		priceDates[i] = p.Date
		priceVals[i] = p.AdjClose
	}

	title := fmt.Sprintf("%s (ticker: %s, frequency: %s) %s - %s",
		label, ticker, opts.Frequency,
		prices[0].Date.Format("2006-01-02"), prices[len(prices)-1].Date.Format("2006-01-02"))

	pricePanel := panel{
		Title:  title,
		Dates:  priceDates,
		Values: priceVals,
		Color:  drawing.ColorBlack,
		Log:    opts.LogPrice,
	}
	cumPanel := panel{
		Title:   "Cumulative return",
		Dates:   retDates,
		Values:  cumulative,
		Color:   drawing.ColorFromHex("2563eb"), // blue-600
		Percent: true,
	}
	ddPanel := panel{
		Title:   "Drawdown",
		Dates:   retDates,
		Values:  drawdown,
		Color:   drawing.ColorFromHex("dc2626"), // red-600
		Fill:    true,
		Percent: true,
	}
	volPanel := panel{
		Title:   fmt.Sprintf("Rolling volatility (%d periods)", opts.Window),
		Dates:   volDates,
		Values:  rollVol,
		Color:   drawing.ColorFromHex("7c3aed"), // violet-600
		Percent: true,
	}
	sharpePanel := panel{
		Title:    fmt.Sprintf("Rolling Sharpe ratio (%d periods, risk free rate %.1f%% p.a.)", opts.Window, opts.RiskFreeRate*100),
		Dates:    volDates,
		Values:   rollSharpe,
		Color:    drawing.ColorFromHex("16a34a"), // green-600
		ZeroLine: true,
	}

	return stack(opts, pricePanel, cumPanel, ddPanel, volPanel, sharpePanel)
}

// WriteFile renders the figure and writes it to path, sanitizing the
// file name component.
func WriteFile(path, label, ticker string, s model.PriceSeries, start, end time.Time, opts Options) (string, error) {
	data, err := Render(label, ticker, s, start, end, opts)
	if err != nil {
		return "", err
	}
	path = SafePath(path)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write chart: %w", err)
	}
	return path, nil
}

// panel describes one stacked sub-chart.
type panel struct {
	Title    string
	Dates    []time.Time
	Values   []float64
	Color    drawing.Color
	Fill     bool
	Percent  bool
	Log      bool
	ZeroLine bool
}

func (p panel) render(width, height int) ([]byte, error) {
	if len(p.Dates) < 2 {
		return nil, stats.ErrInsufficientData
	}

	series := []chart.Series{chart.TimeSeries{
		Name:    p.Title,
		XValues: p.Dates,
		YValues: p.Values,
		Style: chart.Style{
			StrokeColor: p.Color,
			StrokeWidth: 1.5,
		},
	}}
	if p.Fill {
		series[0] = chart.TimeSeries{
			Name:    p.Title,
			XValues: p.Dates,
			YValues: p.Values,
			Style: chart.Style{
				StrokeColor: p.Color,
				StrokeWidth: 1.0,
				FillColor:   p.Color.WithAlpha(70),
			},
		}
	}
	if p.ZeroLine {
		zeros := make([]float64, len(p.Dates))
		series = append(series, chart.TimeSeries{
			XValues: p.Dates,
			YValues: zeros,
			Style: chart.Style{
				StrokeColor: drawing.ColorBlack,
				StrokeWidth: 1.0,
			},
		})
	}

	yaxis := chart.YAxis{}
	if p.Percent {
		yaxis.ValueFormatter = func(v interface{}) string {
			if f, ok := v.(float64); ok {
				return fmt.Sprintf("%.0f%%", f*100)
			}
			return ""
		}
	}
	if p.Log {
		yaxis.Range = &chart.LogarithmicRange{}
	}

	graph := chart.Chart{
		Title:  p.Title,
		Width:  width,
		Height: height,
		Background: chart.Style{
			Padding: chart.Box{Top: 30, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("2006-01-02")
				}
				return ""
			},
		},
		YAxis:  yaxis,
		Series: series,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}

// stack renders each panel and composes them vertically into one PNG.
// go-chart draws a single plot per image, so subplots are composed here.
func stack(opts Options, panels ...panel) ([]byte, error) {
	imgs := make([]image.Image, 0, len(panels))
	total := 0
	for _, p := range panels {
		data, err := p.render(opts.Width, opts.PanelHeight)
		if err != nil {
			return nil, err
		}
		img, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decode panel: %w", err)
		}
		imgs = append(imgs, img)
		total += img.Bounds().Dy()
	}

	out := image.NewRGBA(image.Rect(0, 0, opts.Width, total))
	draw.Draw(out, out.Bounds(), image.White, image.Point{}, draw.Src)
	y := 0
	for _, img := range imgs {
		r := image.Rect(0, y, img.Bounds().Dx(), y+img.Bounds().Dy())
		draw.Draw(out, r, img, img.Bounds().Min, draw.Src)
		y += img.Bounds().Dy()
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("encode figure: %w", err)
	}
	return buf.Bytes(), nil
}
