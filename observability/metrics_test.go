package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	if m == nil {
		t.Fatal("NewMetrics returned nil")
	}

	// Verify all metrics are initialized
	if m.AggregationTotal == nil {
		t.Error("AggregationTotal is nil")
	}
	if m.AggregationDuration == nil {
		t.Error("AggregationDuration is nil")
	}
	if m.RecordsDropped == nil {
		t.Error("RecordsDropped is nil")
	}
	if m.SnapshotWritesTotal == nil {
		t.Error("SnapshotWritesTotal is nil")
	}
	if m.ExternalAPIRequestsTotal == nil {
		t.Error("ExternalAPIRequestsTotal is nil")
	}
	if m.ExternalAPIErrorsTotal == nil {
		t.Error("ExternalAPIErrorsTotal is nil")
	}
	if m.ExternalAPIDuration == nil {
		t.Error("ExternalAPIDuration is nil")
	}
	if m.HTTPRequestsTotal == nil {
		t.Error("HTTPRequestsTotal is nil")
	}
	if m.HTTPRequestDuration == nil {
		t.Error("HTTPRequestDuration is nil")
	}
	if m.CircuitBreakerState == nil {
		t.Error("CircuitBreakerState is nil")
	}
	if m.CircuitBreakerTrips == nil {
		t.Error("CircuitBreakerTrips is nil")
	}
}

func TestRecordAggregation(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.RecordAggregation("movers", "live")
	m.RecordAggregation("movers", "live")
	m.RecordAggregation("movers", "cached")

	liveCount := testutil.ToFloat64(m.AggregationTotal.WithLabelValues("movers", "live"))
	if liveCount != 2 {
		t.Errorf("expected 2 live aggregations, got %v", liveCount)
	}

	cachedCount := testutil.ToFloat64(m.AggregationTotal.WithLabelValues("movers", "cached"))
	if cachedCount != 1 {
		t.Errorf("expected 1 cached aggregation, got %v", cachedCount)
	}
}

func TestRecordDroppedRecords(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.RecordDroppedRecords("movers", 3)
	m.RecordDroppedRecords("movers", 0)
	m.RecordDroppedRecords("watchlist", 1)

	moversCount := testutil.ToFloat64(m.RecordsDropped.WithLabelValues("movers"))
	if moversCount != 3 {
		t.Errorf("expected 3 dropped movers records, got %v", moversCount)
	}

	watchlistCount := testutil.ToFloat64(m.RecordsDropped.WithLabelValues("watchlist"))
	if watchlistCount != 1 {
		t.Errorf("expected 1 dropped watchlist record, got %v", watchlistCount)
	}
}

func TestRecordSnapshotWrite(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.RecordSnapshotWrite()
	m.RecordSnapshotWrite()

	count := testutil.ToFloat64(m.SnapshotWritesTotal)
	if count != 2 {
		t.Errorf("expected 2 snapshot writes, got %v", count)
	}
}

func TestRecordExternalAPIRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.RecordExternalAPIRequest("yahoo", "quote")
	m.RecordExternalAPIRequest("yahoo", "quote")
	m.RecordExternalAPIRequest("yahoo", "chart")

	quoteCount := testutil.ToFloat64(m.ExternalAPIRequestsTotal.WithLabelValues("yahoo", "quote"))
	if quoteCount != 2 {
		t.Errorf("expected 2 quote requests, got %v", quoteCount)
	}
}

func TestRecordExternalAPIError(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.RecordExternalAPIError("yahoo", "quote", "429")
	m.RecordExternalAPIError("yahoo", "quote", "transport")

	count := testutil.ToFloat64(m.ExternalAPIErrorsTotal.WithLabelValues("yahoo", "quote", "429"))
	if count != 1 {
		t.Errorf("expected 1 rate-limit error, got %v", count)
	}
}

func TestRecordHTTPRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.RecordHTTPRequest("GET", "/api/movers", "200", 50*time.Millisecond)
	m.RecordHTTPRequest("GET", "/api/movers", "200", 30*time.Millisecond)
	m.RecordHTTPRequest("GET", "/api/chart/{ticker}", "404", 10*time.Millisecond)

	moversCount := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/movers", "200"))
	if moversCount != 2 {
		t.Errorf("expected 2 movers requests, got %v", moversCount)
	}
}

func TestCircuitBreakerMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.SetCircuitBreakerState("yahoo_quote", 2)
	m.RecordCircuitBreakerTrip("yahoo_quote")

	state := testutil.ToFloat64(m.CircuitBreakerState.WithLabelValues("yahoo_quote"))
	if state != 2 {
		t.Errorf("expected open state (2), got %v", state)
	}

	trips := testutil.ToFloat64(m.CircuitBreakerTrips.WithLabelValues("yahoo_quote"))
	if trips != 1 {
		t.Errorf("expected 1 trip, got %v", trips)
	}
}

func TestTimer(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	timer := m.NewTimer()
	time.Sleep(10 * time.Millisecond)

	if d := timer.Duration(); d < 10*time.Millisecond {
		t.Errorf("expected at least 10ms, got %v", d)
	}

	// Observing must not panic and must hit the right series.
	timer.ObserveAggregation("movers")
	timer.ObserveExternalAPI("yahoo", "quote")

	count := testutil.CollectAndCount(m.AggregationDuration)
	if count != 1 {
		t.Errorf("expected 1 aggregation duration series, got %d", count)
	}
}

func TestGetMetricsInitializesOnce(t *testing.T) {
	m1 := GetMetrics()
	m2 := GetMetrics()
	if m1 == nil || m1 != m2 {
		t.Error("expected a stable global metrics instance")
	}
}
