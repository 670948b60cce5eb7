package movers

import (
	"context"
	"fmt"
	"time"

	"github.com/NiranEC77/helens-dashboard/models"
	"github.com/NiranEC77/helens-dashboard/observability"
)

// WatchlistStocks enriches a caller-supplied symbol list with the same
// metrics as the movers view, preserving the caller's order. Unlike
// TopMovers there is no fallback chain: a failed quote fetch is a hard
// error for the whole request.
func (s *Service) WatchlistStocks(ctx context.Context, tickers []string) (models.WatchlistResponse, error) {
	if len(tickers) == 0 {
		return models.WatchlistResponse{
			Stocks:    []models.Mover{},
			Timestamp: s.now().UTC().Format(time.RFC3339),
		}, nil
	}

	if len(tickers) > s.cap {
		observability.Info("watchlist request truncated", "requested", len(tickers), "cap", s.cap)
		tickers = tickers[:s.cap]
	}

	quotes, err := s.provider.GetQuotes(ctx, tickers)
	if err != nil {
		return models.WatchlistResponse{}, fmt.Errorf("fetching watchlist quotes: %w", err)
	}

	movers, dropped := s.mapper.MapQuotes(ctx, quotes)
	if dropped > 0 {
		observability.GetMetrics().RecordDroppedRecords("watchlist", dropped)
	}

	bySymbol := make(map[string]models.Mover, len(movers))
	for _, m := range movers {
		if _, seen := bySymbol[m.Ticker]; !seen {
			bySymbol[m.Ticker] = m
		}
	}

	// Re-project into the caller's order. Symbols the provider returned
	// nothing usable for are silently absent from the result.
	stocks := make([]models.Mover, 0, len(tickers))
	for _, t := range tickers {
		if m, ok := bySymbol[t]; ok {
			stocks = append(stocks, m)
		}
	}

	observability.GetMetrics().RecordAggregation("watchlist", "live")
	return models.WatchlistResponse{
		Stocks:    stocks,
		Timestamp: s.now().UTC().Format(time.RFC3339),
	}, nil
}
