// TravelBuddy - Travel Planning Places and Cache Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travelbuddy

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	io_prometheus_client "github.com/prometheus/client_model/go"
)

// getHistogramCount extracts the sample count from a Prometheus histogram,
// which testutil.ToFloat64 cannot read.
func getHistogramCount(t *testing.T, vec *prometheus.HistogramVec, labels ...string) uint64 {
	t.Helper()
	observer, err := vec.GetMetricWithLabelValues(labels...)
	if err != nil {
		t.Fatalf("failed to get histogram: %v", err)
	}
	var m io_prometheus_client.Metric
	if err := observer.(prometheus.Metric).Write(&m); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/places/ai/nearby", "200"))

	RecordAPIRequest("GET", "/api/places/ai/nearby", "200", 25*time.Millisecond)

	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/places/ai/nearby", "200"))
	if after-before != 1 {
		t.Errorf("expected counter to increase by 1, got %v", after-before)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	start := testutil.ToFloat64(APIActiveRequests)

	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != start+1 {
		t.Errorf("expected %v active requests, got %v", start+1, got)
	}

	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != start {
		t.Errorf("expected %v active requests, got %v", start, got)
	}
}

func TestRecordUpstream(t *testing.T) {
	before := testutil.ToFloat64(UpstreamRequests.WithLabelValues("newsapi", "http_error"))

	RecordUpstream("newsapi", "http_error", 120*time.Millisecond)
	RecordUpstream("newsapi", "http_error", 0)

	after := testutil.ToFloat64(UpstreamRequests.WithLabelValues("newsapi", "http_error"))
	if after-before != 2 {
		t.Errorf("expected counter to increase by 2, got %v", after-before)
	}
}

func TestRecordCacheLoad(t *testing.T) {
	before := testutil.ToFloat64(CacheLoads.WithLabelValues("metrics_test", "shared"))
	observed := getHistogramCount(t, CacheLoadDuration, "metrics_test")

	RecordCacheLoad("metrics_test", "shared", 0)
	RecordCacheLoad("metrics_test", "success", time.Second)

	if got := testutil.ToFloat64(CacheLoads.WithLabelValues("metrics_test", "shared")); got-before != 1 {
		t.Errorf("expected one shared load, got %v", got-before)
	}
	// Shared loads did no work and are not timed.
	if got := getHistogramCount(t, CacheLoadDuration, "metrics_test"); got-observed != 1 {
		t.Errorf("expected one timed load, got %d", got-observed)
	}
}

func TestRecordLLMUsage(t *testing.T) {
	prompt := testutil.ToFloat64(LLMTokens.WithLabelValues("metrics_test", "prompt"))
	completion := testutil.ToFloat64(LLMTokens.WithLabelValues("metrics_test", "completion"))

	RecordLLMUsage("metrics_test", 120, 0)

	if got := testutil.ToFloat64(LLMTokens.WithLabelValues("metrics_test", "prompt")); got-prompt != 120 {
		t.Errorf("expected 120 prompt tokens, got %v", got-prompt)
	}
	if got := testutil.ToFloat64(LLMTokens.WithLabelValues("metrics_test", "completion")); got != completion {
		t.Errorf("completion tokens should be unchanged, got %v", got)
	}
}

func TestRecordFallback(t *testing.T) {
	before := testutil.ToFloat64(FallbackResponses.WithLabelValues("enrichment", "llm_error"))
	RecordFallback("enrichment", "llm_error")
	if got := testutil.ToFloat64(FallbackResponses.WithLabelValues("enrichment", "llm_error")); got-before != 1 {
		t.Errorf("expected fallback counter to increase by 1, got %v", got-before)
	}
}
