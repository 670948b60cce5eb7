package movers

import (
	"context"
	"time"

	"github.com/NiranEC77/helens-dashboard/models"
	"github.com/NiranEC77/helens-dashboard/observability"
	"github.com/NiranEC77/helens-dashboard/services"
)

// Mapper enriches raw provider quotes into display-ready Movers.
type Mapper struct {
	provider      services.MarketDataService
	sparklineDays int
	now           func() time.Time
}

// NewMapper creates a Mapper. sparklineDays controls the lookback window of
// the per-symbol sparkline fetch.
func NewMapper(provider services.MarketDataService, sparklineDays int) *Mapper {
	return &Mapper{
		provider:      provider,
		sparklineDays: sparklineDays,
		now:           time.Now,
	}
}

// MapQuotes folds a batch of raw quotes into Movers, returning the successes
// and the count of records dropped for missing price data. A dropped record
// never aborts the batch.
func (m *Mapper) MapQuotes(ctx context.Context, quotes []models.Quote) ([]models.Mover, int) {
	movers := make([]models.Mover, 0, len(quotes))
	dropped := 0

	for _, q := range quotes {
		mover, ok := m.mapQuote(ctx, q)
		if !ok {
			dropped++
			continue
		}
		movers = append(movers, mover)
	}

	return movers, dropped
}

// mapQuote derives gap and volume metrics for one quote. The record is
// rejected when price or previous close is missing or zero: previous close
// is a divisor and a zero price means no session data.
func (m *Mapper) mapQuote(ctx context.Context, q models.Quote) (models.Mover, bool) {
	price := models.SafeNum(q.Price)
	prevClose := models.SafeNum(q.PreviousClose)

	if price == nil || prevClose == nil || *price == 0 || *prevClose == 0 {
		return models.Mover{}, false
	}

	gapPct := models.Round2((*price - *prevClose) / *prevClose * 100)

	volume := models.SafeNum(q.Volume)
	avgVolume := models.SafeNum(q.AvgVolume3M)

	var volumeRatio *float64
	if volume != nil && avgVolume != nil && *volume > 0 && *avgVolume > 0 {
		r := models.Round2(*volume / *avgVolume)
		volumeRatio = &r
	}

	return models.Mover{
		Ticker:      q.Symbol,
		Name:        q.DisplayName(),
		Price:       *price,
		PrevClose:   *prevClose,
		GapPct:      gapPct,
		Volume:      volume,
		AvgVolume:   avgVolume,
		VolumeRatio: volumeRatio,
		MarketCap:   models.SafeNum(q.MarketCap),
		Sparkline:   m.sparkline(ctx, q.Symbol),
	}, true
}

// sparkline fetches recent daily closes for compact trend display. It is
// best-effort: any fetch failure degrades to an empty sequence rather than
// failing the parent record.
func (m *Mapper) sparkline(ctx context.Context, symbol string) []float64 {
	end := m.now()
	start := end.AddDate(0, 0, -m.sparklineDays)

	bars, err := m.provider.GetBars(ctx, symbol, start, end, "1d")
	if err != nil {
		observability.WithTicker(symbol).Debug("sparkline fetch failed", "error", err)
		return []float64{}
	}

	return closesOf(bars)
}

// closesOf extracts the non-null closing prices from a bar series, rounded
// for display, oldest first.
func closesOf(bars []models.Bar) []float64 {
	closes := make([]float64, 0, len(bars))
	for _, b := range bars {
		if c := models.SafeNum(b.Close); c != nil {
			closes = append(closes, *c)
		}
	}
	return closes
}
