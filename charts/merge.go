package charts

import (
	"context"
	"fmt"
	"time"

	"github.com/NiranEC77/helens-dashboard/models"
)

// maxNewsItems caps how many articles a news lookup returns.
const maxNewsItems = 10

// TickerNews fetches recent articles for a ticker and normalizes them for
// timeline display. Articles without a title are dropped. The Time field
// uses the same clock-only formatting as intraday chart points so the two
// series can be joined by string equality.
func (b *Builder) TickerNews(ctx context.Context, ticker string) (models.NewsResponse, error) {
	articles, err := b.provider.SearchNews(ctx, ticker, maxNewsItems)
	if err != nil {
		return models.NewsResponse{}, fmt.Errorf("fetching news for %s: %w", ticker, err)
	}

	items := make([]models.NewsItem, 0, len(articles))
	for _, a := range articles {
		if a.Title == "" {
			continue
		}
		if len(items) == maxNewsItems {
			break
		}

		item := models.NewsItem{
			Title:     a.Title,
			Publisher: a.Publisher,
			Link:      a.Link,
		}
		if a.PublishTime > 0 {
			ts := a.PublishTime
			item.Timestamp = &ts
			item.Time = time.Unix(ts, 0).In(b.loc).Format("15:04")
		}
		items = append(items, item)
	}

	return models.NewsResponse{Ticker: ticker, News: items}, nil
}

// MergeNews aligns news articles onto a chart series by exact time-label
// match. When two articles share a minute the later one in the input wins.
// The returned events follow chart order, so a timeline rendered from them
// is already sorted.
func MergeNews(points []models.ChartPoint, news []models.NewsItem) ([]models.EnrichedPoint, []models.TimelineEvent) {
	byTime := make(map[string]models.NewsItem, len(news))
	for _, n := range news {
		if n.Time == "" {
			continue
		}
		byTime[n.Time] = n
	}

	enriched := make([]models.EnrichedPoint, 0, len(points))
	events := make([]models.TimelineEvent, 0, len(byTime))

	for _, p := range points {
		ep := models.EnrichedPoint{ChartPoint: p}
		if n, ok := byTime[p.Time]; ok {
			ep.NewsTitle = n.Title
			ep.NewsPublisher = n.Publisher
			ep.NewsLink = n.Link
			ep.HasNews = true

			var price float64
			if p.Close != nil {
				price = *p.Close
			}
			events = append(events, models.TimelineEvent{
				Time:  p.Time,
				Price: price,
				News:  n,
			})
		}
		enriched = append(enriched, ep)
	}

	return enriched, events
}

// AnnotatedChart builds a chart with news decoration in one call.
func (b *Builder) AnnotatedChart(ctx context.Context, ticker string, r Range) (models.AnnotatedChartResponse, error) {
	chart, err := b.BuildChart(ctx, ticker, r)
	if err != nil {
		return models.AnnotatedChartResponse{}, err
	}

	// News is decoration; a failed lookup leaves the chart bare.
	newsResp, err := b.TickerNews(ctx, ticker)
	if err != nil {
		newsResp = models.NewsResponse{Ticker: ticker, News: nil}
	}

	points, events := MergeNews(chart.Points, newsResp.News)
	return models.AnnotatedChartResponse{
		Ticker: chart.Ticker,
		Name:   chart.Name,
		Points: points,
		Events: events,
	}, nil
}
