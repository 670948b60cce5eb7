package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/NiranEC77/helens-dashboard/models"
	"github.com/NiranEC77/helens-dashboard/observability"
)

// YahooService handles communication with the Yahoo Finance public API
type YahooService struct {
	httpClient *http.Client
	baseURL    string
}

// NewYahooService creates a new YahooService instance. proxyURL may be empty.
func NewYahooService(baseURL, proxyURL string) *YahooService {
	if baseURL == "" {
		baseURL = "https://query1.finance.yahoo.com"
	}
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &YahooService{
		httpClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		baseURL: baseURL,
	}
}

// yahooQuoteResponse is the envelope of the v7 bulk quote endpoint
type yahooQuoteResponse struct {
	QuoteResponse struct {
		Result []models.Quote `json:"result"`
		Error  *yahooError    `json:"error"`
	} `json:"quoteResponse"`
}

// yahooChartResponse is the envelope of the v8 chart endpoint. OHLCV arrays
// use pointers because Yahoo emits explicit nulls for halted minutes.
type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *yahooError `json:"error"`
	} `json:"chart"`
}

// yahooSearchResponse is the envelope of the v1 search endpoint
type yahooSearchResponse struct {
	News []struct {
		Title               string `json:"title"`
		Publisher           string `json:"publisher"`
		Link                string `json:"link"`
		ProviderPublishTime int64  `json:"providerPublishTime"`
	} `json:"news"`
}

type yahooError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// GetQuotes fetches a bulk quote snapshot for the given symbols
func (s *YahooService) GetQuotes(ctx context.Context, symbols []string) ([]models.Quote, error) {
	return WithCircuitBreaker(ctx, BreakerYahooQuote, func() ([]models.Quote, error) {
		var quotes []models.Quote

		err := WithRetry(ctx, DefaultRetryConfig, func() error {
			params := url.Values{}
			params.Set("symbols", strings.Join(symbols, ","))

			body, err := s.get(ctx, "/v7/finance/quote?"+params.Encode(), "quote")
			if err != nil {
				return err
			}

			var resp yahooQuoteResponse
			if err := json.Unmarshal(body, &resp); err != nil {
				return fmt.Errorf("failed to decode quote response: %w", err)
			}
			if resp.QuoteResponse.Error != nil {
				return fmt.Errorf("quote API error: %s", resp.QuoteResponse.Error.Description)
			}

			quotes = resp.QuoteResponse.Result
			return nil
		})

		if err != nil {
			return nil, err
		}
		return quotes, nil
	})
}

// GetBars fetches OHLCV bars for one symbol over [start, end] at the given
// interval. Bars come back sorted ascending by timestamp; all-null bars
// (holidays) are dropped.
func (s *YahooService) GetBars(ctx context.Context, symbol string, start, end time.Time, interval string) ([]models.Bar, error) {
	return WithCircuitBreaker(ctx, BreakerYahooChart, func() ([]models.Bar, error) {
		var bars []models.Bar

		err := WithRetry(ctx, DefaultRetryConfig, func() error {
			params := url.Values{}
			params.Set("period1", strconv.FormatInt(start.Unix(), 10))
			params.Set("period2", strconv.FormatInt(end.Unix(), 10))
			params.Set("interval", interval)

			body, err := s.get(ctx, "/v8/finance/chart/"+url.PathEscape(symbol)+"?"+params.Encode(), "chart")
			if err != nil {
				return err
			}

			var resp yahooChartResponse
			if err := json.Unmarshal(body, &resp); err != nil {
				return fmt.Errorf("failed to decode chart response: %w", err)
			}
			if resp.Chart.Error != nil {
				return fmt.Errorf("chart API error: %s", resp.Chart.Error.Description)
			}

			bars = nil
			if len(resp.Chart.Result) == 0 || len(resp.Chart.Result[0].Indicators.Quote) == 0 {
				return nil
			}

			result := resp.Chart.Result[0]
			quote := result.Indicators.Quote[0]
			bars = make([]models.Bar, 0, len(result.Timestamp))

			for i, ts := range result.Timestamp {
				bar := models.Bar{Timestamp: ts}
				if i < len(quote.Open) {
					bar.Open = quote.Open[i]
				}
				if i < len(quote.High) {
					bar.High = quote.High[i]
				}
				if i < len(quote.Low) {
					bar.Low = quote.Low[i]
				}
				if i < len(quote.Close) {
					bar.Close = quote.Close[i]
				}
				if i < len(quote.Volume) {
					bar.Volume = quote.Volume[i]
				}
				// skip fully null bars (holidays etc.)
				if bar.Open == nil && bar.High == nil && bar.Low == nil && bar.Close == nil {
					continue
				}
				bars = append(bars, bar)
			}

			sort.Slice(bars, func(i, j int) bool { return bars[i].Timestamp < bars[j].Timestamp })
			return nil
		})

		if err != nil {
			return nil, err
		}
		return bars, nil
	})
}

// SearchNews fetches up to count recent news results for a query
func (s *YahooService) SearchNews(ctx context.Context, query string, count int) ([]NewsArticle, error) {
	if count <= 0 {
		count = 10
	}

	return WithCircuitBreaker(ctx, BreakerYahooSearch, func() ([]NewsArticle, error) {
		var articles []NewsArticle

		err := WithRetry(ctx, DefaultRetryConfig, func() error {
			params := url.Values{}
			params.Set("q", query)
			params.Set("newsCount", strconv.Itoa(count))
			params.Set("quotesCount", "0")

			body, err := s.get(ctx, "/v1/finance/search?"+params.Encode(), "search")
			if err != nil {
				return err
			}

			var resp yahooSearchResponse
			if err := json.Unmarshal(body, &resp); err != nil {
				return fmt.Errorf("failed to decode search response: %w", err)
			}

			articles = make([]NewsArticle, 0, len(resp.News))
			for _, item := range resp.News {
				if len(articles) >= count {
					break
				}
				articles = append(articles, NewsArticle{
					Title:       item.Title,
					Publisher:   item.Publisher,
					Link:        item.Link,
					PublishTime: item.ProviderPublishTime,
				})
			}
			return nil
		})

		if err != nil {
			return nil, err
		}
		return articles, nil
	})
}

// get performs an instrumented GET against the Yahoo API
func (s *YahooService) get(ctx context.Context, path, operation string) ([]byte, error) {
	metrics := observability.GetMetrics()
	metrics.RecordExternalAPIRequest("yahoo", operation)
	timer := metrics.NewTimer()
	defer timer.ObserveExternalAPI("yahoo", operation)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	// Yahoo rejects the default Go user agent
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		metrics.RecordExternalAPIError("yahoo", operation, "transport")
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordExternalAPIError("yahoo", operation, "read")
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		metrics.RecordExternalAPIError("yahoo", operation, strconv.Itoa(resp.StatusCode))
		return nil, fmt.Errorf("yahoo: status %d", resp.StatusCode)
	}

	return body, nil
}
