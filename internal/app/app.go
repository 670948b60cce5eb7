package app

import (
	"context"
	"fmt"

	"github.com/NiranEC77/helens-dashboard/charts"
	"github.com/NiranEC77/helens-dashboard/config"
	"github.com/NiranEC77/helens-dashboard/models"
)

// MoversServiceInterface defines the aggregation operations needed by App
type MoversServiceInterface interface {
	TopMovers(ctx context.Context) models.MoversResponse
	WatchlistStocks(ctx context.Context, tickers []string) (models.WatchlistResponse, error)
}

// ChartServiceInterface defines the chart and news operations needed by App
type ChartServiceInterface interface {
	BuildChart(ctx context.Context, ticker string, r charts.Range) (models.ChartResponse, error)
	AnnotatedChart(ctx context.Context, ticker string, r charts.Range) (models.AnnotatedChartResponse, error)
	TickerNews(ctx context.Context, ticker string) (models.NewsResponse, error)
}

// WatchlistStoreInterface defines the persisted watchlist operations needed by App
type WatchlistStoreInterface interface {
	Symbols() []string
	Add(ctx context.Context, input string) ([]string, error)
	Remove(ctx context.Context, symbol string) ([]string, error)
	Move(ctx context.Context, symbol string, offset int) ([]string, error)
}

// RepositoryInterface defines the repository operations needed by App
type RepositoryInterface interface {
	Close() error
	Health(ctx context.Context) error
}

// App struct holds application dependencies using interfaces for testability
type App struct {
	cfg       *config.Config
	movers    MoversServiceInterface
	charts    ChartServiceInterface
	watchlist WatchlistStoreInterface
	repo      RepositoryInterface
}

// New creates a new App application struct
func New(cfg *config.Config, movers MoversServiceInterface, charts ChartServiceInterface, watchlist WatchlistStoreInterface, repo RepositoryInterface) *App {
	return &App{
		cfg:       cfg,
		movers:    movers,
		charts:    charts,
		watchlist: watchlist,
		repo:      repo,
	}
}

// Shutdown is called when the app is closing
func (a *App) Shutdown(ctx context.Context) {
	if a.repo != nil {
		_ = a.repo.Close()
	}
}

// Health reports whether the backing store is reachable.
func (a *App) Health(ctx context.Context) error {
	if a.repo == nil {
		return nil
	}
	return a.repo.Health(ctx)
}

// TopMovers returns the aggregated movers view.
func (a *App) TopMovers(ctx context.Context) models.MoversResponse {
	return a.movers.TopMovers(ctx)
}

// WatchlistStocks enriches the caller's symbols with movers metrics.
func (a *App) WatchlistStocks(ctx context.Context, tickers []string) (models.WatchlistResponse, error) {
	if a.movers == nil {
		return models.WatchlistResponse{}, fmt.Errorf("movers service not initialized")
	}
	return a.movers.WatchlistStocks(ctx, tickers)
}

// Chart returns the chart series for one ticker.
func (a *App) Chart(ctx context.Context, ticker string, r charts.Range) (models.ChartResponse, error) {
	if a.charts == nil {
		return models.ChartResponse{}, fmt.Errorf("chart service not initialized")
	}
	return a.charts.BuildChart(ctx, ticker, r)
}

// AnnotatedChart returns the chart series decorated with news events.
func (a *App) AnnotatedChart(ctx context.Context, ticker string, r charts.Range) (models.AnnotatedChartResponse, error) {
	if a.charts == nil {
		return models.AnnotatedChartResponse{}, fmt.Errorf("chart service not initialized")
	}
	return a.charts.AnnotatedChart(ctx, ticker, r)
}

// News returns recent articles for one ticker.
func (a *App) News(ctx context.Context, ticker string) (models.NewsResponse, error) {
	if a.charts == nil {
		return models.NewsResponse{}, fmt.Errorf("chart service not initialized")
	}
	return a.charts.TickerNews(ctx, ticker)
}

// WatchlistSymbols returns the persisted watchlist in display order.
func (a *App) WatchlistSymbols() ([]string, error) {
	if a.watchlist == nil {
		return nil, fmt.Errorf("watchlist store not initialized")
	}
	return a.watchlist.Symbols(), nil
}

// AddWatchlistSymbols adds comma-separated symbols to the persisted watchlist.
func (a *App) AddWatchlistSymbols(ctx context.Context, input string) ([]string, error) {
	if a.watchlist == nil {
		return nil, fmt.Errorf("watchlist store not initialized")
	}
	return a.watchlist.Add(ctx, input)
}

// RemoveWatchlistSymbol removes one symbol from the persisted watchlist.
func (a *App) RemoveWatchlistSymbol(ctx context.Context, symbol string) ([]string, error) {
	if a.watchlist == nil {
		return nil, fmt.Errorf("watchlist store not initialized")
	}
	return a.watchlist.Remove(ctx, symbol)
}

// MoveWatchlistSymbol shifts one symbol by offset positions.
func (a *App) MoveWatchlistSymbol(ctx context.Context, symbol string, offset int) ([]string, error) {
	if a.watchlist == nil {
		return nil, fmt.Errorf("watchlist store not initialized")
	}
	return a.watchlist.Move(ctx, symbol, offset)
}
