package movers

import (
	"context"
	"time"

	"github.com/NiranEC77/helens-dashboard/models"
	"github.com/NiranEC77/helens-dashboard/services"
)

type mockProvider struct {
	quotes    []models.Quote
	quotesErr error
	bars      map[string][]models.Bar
	barsErr   error
	news      []services.NewsArticle
	newsErr   error

	quoteCalls [][]string
	barCalls   []string
}

func (m *mockProvider) GetQuotes(ctx context.Context, symbols []string) ([]models.Quote, error) {
	m.quoteCalls = append(m.quoteCalls, symbols)
	if m.quotesErr != nil {
		return nil, m.quotesErr
	}
	return m.quotes, nil
}

func (m *mockProvider) GetBars(ctx context.Context, symbol string, start, end time.Time, interval string) ([]models.Bar, error) {
	m.barCalls = append(m.barCalls, symbol)
	if m.barsErr != nil {
		return nil, m.barsErr
	}
	return m.bars[symbol], nil
}

func (m *mockProvider) SearchNews(ctx context.Context, query string, count int) ([]services.NewsArticle, error) {
	if m.newsErr != nil {
		return nil, m.newsErr
	}
	return m.news, nil
}

type mockSnapshotStore struct {
	saved    []models.MoversResponse
	latest   *models.MoversResponse
	saveErr  error
	loadErr  error
}

func (m *mockSnapshotStore) SaveMoversSnapshot(ctx context.Context, snapshot models.MoversResponse) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, snapshot)
	return nil
}

func (m *mockSnapshotStore) LatestMoversSnapshot(ctx context.Context) (*models.MoversResponse, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.latest, nil
}

func fptr(v float64) *float64 {
	return &v
}
