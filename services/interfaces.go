package services

import (
	"context"
	"time"

	"github.com/NiranEC77/helens-dashboard/models"
)

// NewsArticle is a raw provider news/search result, before display
// normalization.
type NewsArticle struct {
	Title       string
	Publisher   string
	Link        string
	PublishTime int64 // epoch seconds, 0 when the provider omits it
}

// MarketDataService defines the upstream provider operations the dashboard
// depends on. Yahoo Finance is the only implementation; the interface exists
// so aggregation and handler tests can substitute mocks.
type MarketDataService interface {
	// GetQuotes fetches a bulk quote snapshot for the given symbols.
	GetQuotes(ctx context.Context, symbols []string) ([]models.Quote, error)

	// GetBars fetches OHLCV bars for one symbol over [start, end] at the
	// given interval ("1m", "15m", "1h", "1d").
	GetBars(ctx context.Context, symbol string, start, end time.Time, interval string) ([]models.Bar, error)

	// SearchNews fetches up to count recent news results for a query.
	SearchNews(ctx context.Context, query string, count int) ([]NewsArticle, error)
}

// Compile-time interface verification
var _ MarketDataService = (*YahooService)(nil)
