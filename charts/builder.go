package charts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NiranEC77/helens-dashboard/models"
	"github.com/NiranEC77/helens-dashboard/observability"
	"github.com/NiranEC77/helens-dashboard/services"
)

// ErrNoData indicates the provider had no usable bars for the ticker over
// the requested range, including the widened retry window.
var ErrNoData = errors.New("no chart data available")

// Range is a chart range token as it appears on the wire.
type Range string

const (
	Range1D Range = "1d"
	Range5D Range = "5d"
	Range1M Range = "1mo"
)

// ParseRange maps a range token to a Range. Empty and unrecognized tokens
// fall back to the one-day range.
func ParseRange(s string) Range {
	switch Range(s) {
	case Range5D, Range1M:
		return Range(s)
	default:
		return Range1D
	}
}

// window returns the lookback duration and bar interval for the range.
func (r Range) window() (time.Duration, string) {
	switch r {
	case Range5D:
		return 5 * 24 * time.Hour, "15m"
	case Range1M:
		return 30 * 24 * time.Hour, "1h"
	default:
		return 24 * time.Hour, "1m"
	}
}

// timeLayout returns the display layout for point time labels. Intraday
// charts show clock time only; longer ranges prefix the date.
func (r Range) timeLayout() string {
	if r == Range1D {
		return "15:04"
	}
	return "1/2, 15:04"
}

// Builder assembles display-ready chart series from raw provider bars.
type Builder struct {
	provider services.MarketDataService
	loc      *time.Location
	now      func() time.Time
}

// NewBuilder creates a Builder. loc is the timezone point labels are
// rendered in.
func NewBuilder(provider services.MarketDataService, loc *time.Location) *Builder {
	return &Builder{
		provider: provider,
		loc:      loc,
		now:      time.Now,
	}
}

// BuildChart fetches and formats the chart series for one ticker. A one-day
// request that comes back empty, as happens over weekends and holidays, is
// retried once with a doubled window before giving up with ErrNoData.
func (b *Builder) BuildChart(ctx context.Context, ticker string, r Range) (models.ChartResponse, error) {
	timer := observability.GetMetrics().NewTimer()

	window, interval := r.window()
	end := b.now()

	bars, err := b.provider.GetBars(ctx, ticker, end.Add(-window), end, interval)
	if err != nil {
		return models.ChartResponse{}, fmt.Errorf("fetching bars for %s: %w", ticker, err)
	}

	if len(bars) == 0 && r == Range1D {
		observability.WithTicker(ticker).Info("empty intraday chart, widening window")
		bars, err = b.provider.GetBars(ctx, ticker, end.Add(-2*window), end, interval)
		if err != nil {
			return models.ChartResponse{}, fmt.Errorf("fetching bars for %s: %w", ticker, err)
		}
	}

	if len(bars) == 0 {
		return models.ChartResponse{}, ErrNoData
	}

	layout := r.timeLayout()
	points := make([]models.ChartPoint, 0, len(bars))
	for _, bar := range bars {
		points = append(points, models.ChartPoint{
			Time:      time.Unix(bar.Timestamp, 0).In(b.loc).Format(layout),
			Timestamp: bar.Timestamp,
			Open:      models.SafeNum(bar.Open),
			High:      models.SafeNum(bar.High),
			Low:       models.SafeNum(bar.Low),
			Close:     models.SafeNum(bar.Close),
			Volume:    models.SafeNum(bar.Volume),
		})
	}

	observability.GetMetrics().RecordAggregation("chart", string(r))
	timer.ObserveAggregation("chart")

	return models.ChartResponse{
		Ticker: ticker,
		Name:   b.displayName(ctx, ticker),
		Points: points,
	}, nil
}

// displayName resolves the ticker's human name. Best-effort: any failure
// falls back to the symbol itself.
func (b *Builder) displayName(ctx context.Context, ticker string) string {
	quotes, err := b.provider.GetQuotes(ctx, []string{ticker})
	if err != nil || len(quotes) == 0 {
		return ticker
	}
	return quotes[0].DisplayName()
}
