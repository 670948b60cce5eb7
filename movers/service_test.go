package movers

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/NiranEC77/helens-dashboard/models"
	"github.com/NiranEC77/helens-dashboard/observability"
)

func newTestService(provider *mockProvider, store SnapshotStore, scanList []string) *Service {
	mapper := NewMapper(provider, 7)
	return NewService(provider, mapper, store, scanList, 50)
}

func TestTopMoversLiveTier(t *testing.T) {
	provider := &mockProvider{
		quotes: []models.Quote{
			{Symbol: "AAPL", Price: fptr(101), PreviousClose: fptr(100)},
			{Symbol: "TSLA", Price: fptr(95), PreviousClose: fptr(100)},
			{Symbol: "MSFT", Price: fptr(102), PreviousClose: fptr(100)},
		},
	}
	store := &mockSnapshotStore{}
	svc := newTestService(provider, store, []string{"AAPL", "TSLA", "MSFT"})

	resp := svc.TopMovers(context.Background())

	if resp.Source != models.SourceLive {
		t.Errorf("expected live source, got %q", resp.Source)
	}
	if len(resp.Movers) != 3 {
		t.Fatalf("expected 3 movers, got %d", len(resp.Movers))
	}
	// Ordered by gap magnitude: TSLA -5, MSFT +2, AAPL +1.
	got := []string{resp.Movers[0].Ticker, resp.Movers[1].Ticker, resp.Movers[2].Ticker}
	want := []string{"TSLA", "MSFT", "AAPL"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
	if resp.Timestamp == "" {
		t.Error("expected a timestamp")
	}
	if len(store.saved) != 1 {
		t.Errorf("expected one snapshot write, got %d", len(store.saved))
	}
}

func TestTopMoversFallsBackToPreviousClose(t *testing.T) {
	provider := &mockProvider{
		quotesErr: errors.New("quote endpoint down"),
		bars: map[string][]models.Bar{
			"AAPL": {
				{Timestamp: 1, Close: fptr(100), Volume: fptr(1000)},
				{Timestamp: 2, Close: nil},
				{Timestamp: 3, Close: fptr(103), Volume: fptr(2000)},
			},
			"TSLA": {
				{Timestamp: 1, Close: fptr(200)},
			},
		},
	}
	svc := newTestService(provider, &mockSnapshotStore{}, []string{"AAPL", "TSLA"})

	resp := svc.TopMovers(context.Background())

	if resp.Source != models.SourcePreviousClose {
		t.Fatalf("expected previous_close source, got %q", resp.Source)
	}
	// TSLA has only one usable close and is skipped.
	if len(resp.Movers) != 1 {
		t.Fatalf("expected 1 mover, got %d", len(resp.Movers))
	}

	m := resp.Movers[0]
	if m.Ticker != "AAPL" || m.Name != "AAPL" {
		t.Errorf("chart-derived movers use the symbol as name, got %q/%q", m.Ticker, m.Name)
	}
	if m.Price != 103 || m.PrevClose != 100 {
		t.Errorf("expected last two closes 103/100, got %v/%v", m.Price, m.PrevClose)
	}
	if m.GapPct != 3.0 {
		t.Errorf("expected gapPct 3.0, got %v", m.GapPct)
	}
	if m.VolumeRatio != nil || m.AvgVolume != nil || m.MarketCap != nil {
		t.Error("volume context and market cap must be absent at this tier")
	}
	if len(m.Sparkline) != 2 {
		t.Errorf("expected sparkline from usable closes, got %v", m.Sparkline)
	}
}

func TestPreviousCloseTierCountsDroppedSymbols(t *testing.T) {
	provider := &mockProvider{
		quotesErr: errors.New("quote endpoint down"),
		bars: map[string][]models.Bar{
			"AAPL": {
				{Timestamp: 1, Close: fptr(100)},
				{Timestamp: 2, Close: fptr(103)},
			},
			// One usable close only.
			"SHORT": {{Timestamp: 1, Close: fptr(200)}},
			// Previous close of zero cannot divide.
			"FLAT": {{Timestamp: 1, Close: fptr(0)}, {Timestamp: 2, Close: fptr(5)}},
		},
	}
	// GONE has no bar history at all.
	svc := newTestService(provider, &mockSnapshotStore{}, []string{"AAPL", "SHORT", "FLAT", "GONE"})

	counter := observability.GetMetrics().RecordsDropped.WithLabelValues("movers")
	before := testutil.ToFloat64(counter)

	resp := svc.TopMovers(context.Background())

	if len(resp.Movers) != 1 || resp.Movers[0].Ticker != "AAPL" {
		t.Fatalf("expected only AAPL to survive, got %+v", resp.Movers)
	}
	if got := testutil.ToFloat64(counter) - before; got != 3 {
		t.Errorf("expected 3 dropped symbols counted, got %v", got)
	}
}

func TestTopMoversServesCachedSnapshot(t *testing.T) {
	provider := &mockProvider{quotesErr: errors.New("down"), barsErr: errors.New("down")}
	store := &mockSnapshotStore{
		latest: &models.MoversResponse{
			Movers:    []models.Mover{{Ticker: "AAPL", Price: 100, PrevClose: 99, GapPct: 1.01}},
			Source:    models.SourceLive,
			Timestamp: "2026-08-30T12:00:00Z",
		},
	}
	svc := newTestService(provider, store, []string{"AAPL"})

	resp := svc.TopMovers(context.Background())

	if resp.Source != models.SourceCached {
		t.Fatalf("expected cached source, got %q", resp.Source)
	}
	if len(resp.Movers) != 1 || resp.Movers[0].Ticker != "AAPL" {
		t.Fatalf("expected the snapshot movers, got %+v", resp.Movers)
	}
	if resp.Timestamp != "2026-08-30T12:00:00Z" {
		t.Errorf("cached responses keep the snapshot timestamp, got %q", resp.Timestamp)
	}
	if len(store.saved) != 0 {
		t.Error("cached responses must not be re-persisted")
	}
}

func TestTopMoversEmptyWhenEveryTierFails(t *testing.T) {
	provider := &mockProvider{quotesErr: errors.New("down"), barsErr: errors.New("down")}
	svc := newTestService(provider, &mockSnapshotStore{}, []string{"AAPL"})

	resp := svc.TopMovers(context.Background())

	if len(resp.Movers) != 0 {
		t.Fatalf("expected empty movers, got %+v", resp.Movers)
	}
	if resp.Source != models.SourcePreviousClose {
		t.Errorf("expected previous_close marker on exhausted chain, got %q", resp.Source)
	}
}

func TestTopMoversSkipsEmptySnapshot(t *testing.T) {
	provider := &mockProvider{quotesErr: errors.New("down"), barsErr: errors.New("down")}
	store := &mockSnapshotStore{latest: &models.MoversResponse{Source: models.SourceLive}}
	svc := newTestService(provider, store, []string{"AAPL"})

	resp := svc.TopMovers(context.Background())

	if resp.Source == models.SourceCached {
		t.Error("an empty snapshot must not be served")
	}
}

func TestTopMoversWorksWithoutStore(t *testing.T) {
	provider := &mockProvider{
		quotes: []models.Quote{{Symbol: "AAPL", Price: fptr(101), PreviousClose: fptr(100)}},
	}
	svc := newTestService(provider, nil, []string{"AAPL"})

	resp := svc.TopMovers(context.Background())
	if len(resp.Movers) != 1 {
		t.Fatalf("expected 1 mover, got %d", len(resp.Movers))
	}
}
