package models

// MoversSource indicates which tier of the aggregation chain produced a
// movers response.
type MoversSource string

const (
	SourceLive          MoversSource = "live"
	SourcePreviousClose MoversSource = "previous_close"
	SourceCached        MoversSource = "cached"
)

// Quote is a raw provider quote snapshot. Everything except Symbol may be
// missing upstream.
type Quote struct {
	Symbol        string   `json:"symbol"`
	ShortName     string   `json:"shortName,omitempty"`
	LongName      string   `json:"longName,omitempty"`
	Price         *float64 `json:"regularMarketPrice,omitempty"`
	PreviousClose *float64 `json:"regularMarketPreviousClose,omitempty"`
	Volume        *float64 `json:"regularMarketVolume,omitempty"`
	AvgVolume3M   *float64 `json:"averageDailyVolume3Month,omitempty"`
	MarketCap     *float64 `json:"marketCap,omitempty"`
}

// DisplayName returns the best available human name for the quote.
func (q *Quote) DisplayName() string {
	if q.ShortName != "" {
		return q.ShortName
	}
	if q.LongName != "" {
		return q.LongName
	}
	return q.Symbol
}

// Bar is a single OHLCV bar from the provider. Fields are pointers because
// the provider emits explicit nulls for halted/empty minutes.
type Bar struct {
	Timestamp int64
	Open      *float64
	High      *float64
	Low       *float64
	Close     *float64
	Volume    *float64
}

// Mover is a ticker with derived gap/volume/sparkline metrics for display.
// Constructed fresh on each aggregation pass and never mutated.
type Mover struct {
	Ticker      string    `json:"ticker"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	PrevClose   float64   `json:"prevClose"`
	GapPct      float64   `json:"gapPct"`
	Volume      *float64  `json:"volume"`
	AvgVolume   *float64  `json:"avgVolume"`
	VolumeRatio *float64  `json:"volumeRatio"`
	MarketCap   *float64  `json:"marketCap"`
	Sparkline   []float64 `json:"sparkline"`
}

// MoversResponse is the payload of GET /api/movers.
type MoversResponse struct {
	Movers    []Mover      `json:"movers"`
	Source    MoversSource `json:"source"`
	Timestamp string       `json:"timestamp"`
}

// ChartPoint is one display-ready bar of a chart series. Time is a
// locale-formatted string whose granularity depends on the requested range;
// it doubles as the join key for news alignment.
type ChartPoint struct {
	Time      string   `json:"time"`
	Timestamp int64    `json:"timestamp"`
	Open      *float64 `json:"open"`
	High      *float64 `json:"high"`
	Low       *float64 `json:"low"`
	Close     *float64 `json:"close"`
	Volume    *float64 `json:"volume"`
}

// ChartResponse is the payload of GET /api/chart/{ticker}.
type ChartResponse struct {
	Ticker string       `json:"ticker"`
	Name   string       `json:"name"`
	Points []ChartPoint `json:"points"`
}

// EnrichedPoint is a ChartPoint optionally decorated with a news article
// whose publish minute coincides with the point's display time.
type EnrichedPoint struct {
	ChartPoint
	NewsTitle     string `json:"newsTitle,omitempty"`
	NewsPublisher string `json:"newsPublisher,omitempty"`
	NewsLink      string `json:"newsLink,omitempty"`
	HasNews       bool   `json:"hasNews"`
}

// NewsItem is a provider news article normalized for the dashboard. Time
// uses the same time-only formatting as a 1-day chart point so the two can
// be joined by exact string match.
type NewsItem struct {
	Title     string `json:"title"`
	Publisher string `json:"publisher"`
	Timestamp *int64 `json:"timestamp"`
	Time      string `json:"time"`
	Link      string `json:"link"`
}

// NewsResponse is the payload of GET /api/news/{ticker}.
type NewsResponse struct {
	Ticker string     `json:"ticker"`
	News   []NewsItem `json:"news"`
}

// TimelineEvent is a news article matched onto a chart point.
type TimelineEvent struct {
	Time  string   `json:"time"`
	Price float64  `json:"price"`
	News  NewsItem `json:"news"`
}

// AnnotatedChartResponse is the chart payload when news annotation is
// requested: points carry inline news decoration and Events lists the
// matched subset in chart order.
type AnnotatedChartResponse struct {
	Ticker string          `json:"ticker"`
	Name   string          `json:"name"`
	Points []EnrichedPoint `json:"points"`
	Events []TimelineEvent `json:"events"`
}

// WatchlistResponse is the payload of GET /api/watchlist.
type WatchlistResponse struct {
	Stocks    []Mover `json:"stocks"`
	Timestamp string  `json:"timestamp"`
}
