package movers

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/NiranEC77/helens-dashboard/models"
	"github.com/NiranEC77/helens-dashboard/observability"
	"github.com/NiranEC77/helens-dashboard/services"
)

// SnapshotStore persists movers responses so a later aggregation pass can
// fall back to the last good result when the provider is down.
type SnapshotStore interface {
	SaveMoversSnapshot(ctx context.Context, snapshot models.MoversResponse) error
	LatestMoversSnapshot(ctx context.Context) (*models.MoversResponse, error)
}

// Service aggregates the market movers view over a fixed scan list.
type Service struct {
	provider services.MarketDataService
	mapper   *Mapper
	store    SnapshotStore
	scanList []string
	cap      int
	now      func() time.Time
}

// NewService creates a movers Service. store may be nil, which disables the
// cached fallback tier and snapshot persistence.
func NewService(provider services.MarketDataService, mapper *Mapper, store SnapshotStore, scanList []string, watchlistCap int) *Service {
	return &Service{
		provider: provider,
		mapper:   mapper,
		store:    store,
		scanList: scanList,
		cap:      watchlistCap,
		now:      time.Now,
	}
}

// TopMovers builds the movers view. It never returns an error: each tier of
// the fallback chain degrades to the next, and when every tier is empty the
// result is an empty list tagged with the tier that was reached.
//
// Tier 1 is a single bulk quote call. Tier 2 rebuilds each symbol from its
// recent daily bars when live quotes are unavailable. Tier 3 serves the last
// persisted snapshot.
func (s *Service) TopMovers(ctx context.Context) models.MoversResponse {
	timer := observability.GetMetrics().NewTimer()

	source := models.SourceLive
	movers := s.liveMovers(ctx)

	if len(movers) == 0 {
		source = models.SourcePreviousClose
		movers = s.previousCloseMovers(ctx)
	}

	if len(movers) == 0 && s.store != nil {
		if cached, err := s.store.LatestMoversSnapshot(ctx); err != nil {
			observability.Warn("movers snapshot read failed", "error", err)
		} else if cached != nil && len(cached.Movers) > 0 {
			cached.Source = models.SourceCached
			observability.GetMetrics().RecordAggregation("movers", string(models.SourceCached))
			timer.ObserveAggregation("movers")
			return *cached
		}
	}

	sortByAbsGap(movers)

	resp := models.MoversResponse{
		Movers:    movers,
		Source:    source,
		Timestamp: s.now().UTC().Format(time.RFC3339),
	}

	if len(movers) > 0 && s.store != nil {
		if err := s.store.SaveMoversSnapshot(ctx, resp); err != nil {
			observability.Warn("movers snapshot write failed", "error", err)
		} else {
			observability.GetMetrics().RecordSnapshotWrite()
		}
	}

	observability.GetMetrics().RecordAggregation("movers", string(source))
	timer.ObserveAggregation("movers")
	return resp
}

// liveMovers is the primary tier: one bulk quote call over the scan list.
func (s *Service) liveMovers(ctx context.Context) []models.Mover {
	quotes, err := s.provider.GetQuotes(ctx, s.scanList)
	if err != nil {
		observability.Warn("bulk quote fetch failed", "error", err)
		return nil
	}

	movers, dropped := s.mapper.MapQuotes(ctx, quotes)
	if dropped > 0 {
		observability.GetMetrics().RecordDroppedRecords("movers", dropped)
		observability.Info("dropped quotes with missing price data", "count", dropped)
	}
	return movers
}

// previousCloseMovers rebuilds each symbol from its daily bar history. The
// last two usable closes stand in for current price and previous close;
// volume context and market cap are unavailable at this tier.
func (s *Service) previousCloseMovers(ctx context.Context) []models.Mover {
	end := s.now()
	start := end.AddDate(0, 0, -7)

	movers := make([]models.Mover, 0, len(s.scanList))
	dropped := 0
	for _, symbol := range s.scanList {
		bars, err := s.provider.GetBars(ctx, symbol, start, end, "1d")
		if err != nil {
			observability.WithTicker(symbol).Debug("daily bars fetch failed", "error", err)
			dropped++
			continue
		}

		closes := closesOf(bars)
		if len(closes) < 2 {
			dropped++
			continue
		}

		price := closes[len(closes)-1]
		prevClose := closes[len(closes)-2]
		if prevClose == 0 {
			dropped++
			continue
		}

		var volume *float64
		if len(bars) > 0 {
			volume = models.SafeNum(bars[len(bars)-1].Volume)
		}

		movers = append(movers, models.Mover{
			Ticker:    symbol,
			Name:      symbol,
			Price:     price,
			PrevClose: prevClose,
			GapPct:    models.Round2((price - prevClose) / prevClose * 100),
			Volume:    volume,
			Sparkline: closes,
		})
	}
	if dropped > 0 {
		observability.GetMetrics().RecordDroppedRecords("movers", dropped)
		observability.Info("dropped symbols in previous-close rebuild", "count", dropped)
	}
	return movers
}

// sortByAbsGap orders movers by gap magnitude, largest first. The sort is
// stable so symbols with equal gaps keep scan-list order.
func sortByAbsGap(movers []models.Mover) {
	sort.SliceStable(movers, func(i, j int) bool {
		return math.Abs(movers[i].GapPct) > math.Abs(movers[j].GapPct)
	})
}
