package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/NiranEC77/helens-dashboard/charts"
	"github.com/NiranEC77/helens-dashboard/config"
	"github.com/NiranEC77/helens-dashboard/internal/app"
	"github.com/NiranEC77/helens-dashboard/services"
)

// Handler handles HTTP API requests
type Handler struct {
	app *app.App
	cfg *config.Config
}

// NewHandler creates a new Handler
func NewHandler(application *app.App, cfg *config.Config) *Handler {
	return &Handler{app: application, cfg: cfg}
}

// HandleHealth returns the health status of the application
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status": "ok",
		"services": map[string]string{
			"database": "unknown",
		},
	}

	if err := h.app.Health(r.Context()); err == nil {
		status["services"].(map[string]string)["database"] = "connected"
	} else {
		status["services"].(map[string]string)["database"] = "disconnected"
		status["status"] = "degraded"
	}

	cbStatus := services.GetGlobalRegistry().Status()
	status["circuit_breakers"] = cbStatus

	for _, cb := range cbStatus {
		if cb.State == "open" {
			status["status"] = "degraded"
			break
		}
	}

	h.jsonResponse(w, status)
}

// HandleGetMovers returns the aggregated movers view. The aggregation
// degrades through its fallback tiers internally, so this never fails.
func (h *Handler) HandleGetMovers(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, h.app.TopMovers(r.Context()))
}

// HandleGetChart returns the chart series for one ticker. With news=true
// the series is decorated with matched news events.
func (h *Handler) HandleGetChart(w http.ResponseWriter, r *http.Request) {
	ticker := tickerParam(r)
	if ticker == "" {
		h.jsonError(w, "Missing ticker", http.StatusBadRequest)
		return
	}

	rng := charts.ParseRange(r.URL.Query().Get("range"))

	if r.URL.Query().Get("news") == "true" {
		resp, err := h.app.AnnotatedChart(r.Context(), ticker, rng)
		if err != nil {
			h.chartError(w, err)
			return
		}
		h.jsonResponse(w, resp)
		return
	}

	resp, err := h.app.Chart(r.Context(), ticker, rng)
	if err != nil {
		h.chartError(w, err)
		return
	}
	h.jsonResponse(w, resp)
}

func (h *Handler) chartError(w http.ResponseWriter, err error) {
	if errors.Is(err, charts.ErrNoData) {
		h.jsonError(w, "No chart data available", http.StatusNotFound)
		return
	}
	h.jsonError(w, err.Error(), http.StatusInternalServerError)
}

// HandleGetNews returns recent news articles for one ticker.
func (h *Handler) HandleGetNews(w http.ResponseWriter, r *http.Request) {
	ticker := tickerParam(r)
	if ticker == "" {
		h.jsonError(w, "Missing ticker", http.StatusBadRequest)
		return
	}

	resp, err := h.app.News(r.Context(), ticker)
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.jsonResponse(w, resp)
}

// HandleGetWatchlist enriches the caller's tickers with movers metrics.
// The tickers query parameter is required; an empty list is a valid
// request and yields an empty result.
func (h *Handler) HandleGetWatchlist(w http.ResponseWriter, r *http.Request) {
	if !r.URL.Query().Has("tickers") {
		h.jsonError(w, "tickers parameter is required", http.StatusBadRequest)
		return
	}

	tickers := parseTickers(r.URL.Query().Get("tickers"))
	resp, err := h.app.WatchlistStocks(r.Context(), tickers)
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.jsonResponse(w, resp)
}

// HandleGetWatchlistSymbols returns the persisted watchlist.
func (h *Handler) HandleGetWatchlistSymbols(w http.ResponseWriter, r *http.Request) {
	symbols, err := h.app.WatchlistSymbols()
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.jsonResponse(w, map[string][]string{"symbols": symbols})
}

// AddSymbolsRequest is the body of POST /api/watchlist/symbols. Tickers may
// be a single symbol or a comma-separated list.
type AddSymbolsRequest struct {
	Tickers string `json:"tickers"`
}

// HandleAddWatchlistSymbols appends symbols to the persisted watchlist.
func (h *Handler) HandleAddWatchlistSymbols(w http.ResponseWriter, r *http.Request) {
	var req AddSymbolsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Tickers) == "" {
		h.jsonError(w, "tickers is required", http.StatusBadRequest)
		return
	}

	symbols, err := h.app.AddWatchlistSymbols(r.Context(), req.Tickers)
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.jsonResponse(w, map[string][]string{"symbols": symbols})
}

// HandleRemoveWatchlistSymbol deletes one symbol from the persisted
// watchlist. Removing an absent symbol succeeds.
func (h *Handler) HandleRemoveWatchlistSymbol(w http.ResponseWriter, r *http.Request) {
	ticker := tickerParam(r)
	if ticker == "" {
		h.jsonError(w, "Missing ticker", http.StatusBadRequest)
		return
	}

	symbols, err := h.app.RemoveWatchlistSymbol(r.Context(), ticker)
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.jsonResponse(w, map[string][]string{"symbols": symbols})
}

// MoveSymbolRequest is the body of POST /api/watchlist/symbols/{ticker}/move.
type MoveSymbolRequest struct {
	Offset int `json:"offset"`
}

// HandleMoveWatchlistSymbol shifts one symbol within the persisted
// watchlist. The destination clamps to the list bounds.
func (h *Handler) HandleMoveWatchlistSymbol(w http.ResponseWriter, r *http.Request) {
	ticker := tickerParam(r)
	if ticker == "" {
		h.jsonError(w, "Missing ticker", http.StatusBadRequest)
		return
	}

	var req MoveSymbolRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	symbols, err := h.app.MoveWatchlistSymbol(r.Context(), ticker, req.Offset)
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.jsonResponse(w, map[string][]string{"symbols": symbols})
}

// tickerParam extracts and normalizes the ticker path parameter.
func tickerParam(r *http.Request) string {
	return strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "ticker")))
}

// parseTickers splits a comma-separated ticker list, trimming and
// upper-casing each entry and dropping empties.
func parseTickers(raw string) []string {
	parts := strings.Split(raw, ",")
	tickers := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.ToUpper(strings.TrimSpace(p))
		if t != "" {
			tickers = append(tickers, t)
		}
	}
	return tickers
}

func (h *Handler) jsonResponse(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
