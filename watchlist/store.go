package watchlist

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/NiranEC77/helens-dashboard/observability"
)

// DefaultSymbols seeds a fresh watchlist.
var DefaultSymbols = []string{"VOO", "QQQ", "SPY", "AAPL", "MSFT", "GOOGL", "AMZN", "NVDA"}

const blobName = "watchlist"

// BlobStore persists named JSON documents.
type BlobStore interface {
	GetBlob(ctx context.Context, name string) ([]byte, error)
	SetBlob(ctx context.Context, name string, data []byte) error
}

// Store is the user's ordered watchlist. All mutations persist through the
// injected BlobStore; a corrupt or missing stored document falls back to
// the defaults rather than failing.
type Store struct {
	mu      sync.Mutex
	blobs   BlobStore
	symbols []string
}

// NewStore loads the watchlist from persistence, seeding the defaults when
// nothing usable is stored.
func NewStore(ctx context.Context, blobs BlobStore) *Store {
	s := &Store{blobs: blobs}
	s.symbols = s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) []string {
	data, err := s.blobs.GetBlob(ctx, blobName)
	if err != nil || len(data) == 0 {
		return append([]string(nil), DefaultSymbols...)
	}

	var symbols []string
	if err := json.Unmarshal(data, &symbols); err != nil || len(symbols) == 0 {
		observability.Warn("stored watchlist unreadable, using defaults", "error", err)
		return append([]string(nil), DefaultSymbols...)
	}
	return symbols
}

// Symbols returns the watchlist in display order.
func (s *Store) Symbols() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.symbols...)
}

// Add appends one or more symbols. The input may be a comma-separated list;
// entries are trimmed and upper-cased, and symbols already present are
// skipped. Returns the updated list.
func (s *Store) Add(ctx context.Context, input string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	present := make(map[string]bool, len(s.symbols))
	for _, sym := range s.symbols {
		present[sym] = true
	}

	next := append([]string(nil), s.symbols...)
	for _, raw := range strings.Split(input, ",") {
		sym := strings.ToUpper(strings.TrimSpace(raw))
		if sym == "" || present[sym] {
			continue
		}
		next = append(next, sym)
		present[sym] = true
	}

	if len(next) == len(s.symbols) {
		return next, nil
	}
	return s.commit(ctx, next)
}

// Remove deletes a symbol if present. Removing an absent symbol is a no-op.
func (s *Store) Remove(ctx context.Context, symbol string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	idx := s.indexOf(symbol)
	if idx < 0 {
		return append([]string(nil), s.symbols...), nil
	}

	next := append([]string(nil), s.symbols[:idx]...)
	next = append(next, s.symbols[idx+1:]...)
	return s.commit(ctx, next)
}

// Move shifts a symbol by offset positions. The destination clamps to the
// list bounds, it never wraps. Moving an absent symbol is a no-op.
func (s *Store) Move(ctx context.Context, symbol string, offset int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	idx := s.indexOf(symbol)
	if idx < 0 || offset == 0 {
		return append([]string(nil), s.symbols...), nil
	}

	target := idx + offset
	if target < 0 {
		target = 0
	}
	if target > len(s.symbols)-1 {
		target = len(s.symbols) - 1
	}
	if target == idx {
		return append([]string(nil), s.symbols...), nil
	}

	next := append([]string(nil), s.symbols[:idx]...)
	next = append(next, s.symbols[idx+1:]...)
	next = append(next[:target], append([]string{symbol}, next[target:]...)...)
	return s.commit(ctx, next)
}

func (s *Store) indexOf(symbol string) int {
	for i, sym := range s.symbols {
		if sym == symbol {
			return i
		}
	}
	return -1
}

// commit persists the candidate list and adopts it only on success, so a
// failed write leaves the in-memory list untouched.
func (s *Store) commit(ctx context.Context, next []string) ([]string, error) {
	data, err := json.Marshal(next)
	if err != nil {
		return nil, err
	}
	if err := s.blobs.SetBlob(ctx, blobName, data); err != nil {
		return nil, err
	}
	s.symbols = next
	return append([]string(nil), next...), nil
}
