// Shortlist - Budget-Aware Catalog Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shortlist

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestRecordCacheLookup(t *testing.T) {
	hitsBefore := testutil.ToFloat64(CacheHits.WithLabelValues(CacheTypeCatalog))
	missesBefore := testutil.ToFloat64(CacheMisses.WithLabelValues(CacheTypeCatalog))

	RecordCacheLookup(CacheTypeCatalog, true)
	RecordCacheLookup(CacheTypeCatalog, false)
	RecordCacheLookup(CacheTypeCatalog, false)

	if got := testutil.ToFloat64(CacheHits.WithLabelValues(CacheTypeCatalog)) - hitsBefore; got != 1 {
		t.Errorf("expected 1 hit, got %v", got)
	}
	if got := testutil.ToFloat64(CacheMisses.WithLabelValues(CacheTypeCatalog)) - missesBefore; got != 2 {
		t.Errorf("expected 2 misses, got %v", got)
	}
}

func TestRecordAIUsageSkipsZero(t *testing.T) {
	promptBefore := testutil.ToFloat64(AITokens.WithLabelValues("prompt"))
	outputBefore := testutil.ToFloat64(AITokens.WithLabelValues("output"))

	RecordAIUsage(120, 0)

	if got := testutil.ToFloat64(AITokens.WithLabelValues("prompt")) - promptBefore; got != 120 {
		t.Errorf("expected 120 prompt tokens, got %v", got)
	}
	if got := testutil.ToFloat64(AITokens.WithLabelValues("output")) - outputBefore; got != 0 {
		t.Errorf("expected no output tokens, got %v", got)
	}
}

func TestRecordAPIRequestObservesDuration(t *testing.T) {
	RecordAPIRequest("POST", "/metrics-test", "200", 150*time.Millisecond)

	if got := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("POST", "/metrics-test", "200")); got != 1 {
		t.Errorf("expected 1 request, got %v", got)
	}

	m := &dto.Metric{}
	hist, ok := APIRequestDuration.WithLabelValues("POST", "/metrics-test").(prometheus.Metric)
	if !ok {
		t.Fatal("expected histogram to implement prometheus.Metric")
	}
	if err := hist.Write(m); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	if got := m.GetHistogram().GetSampleCount(); got != 1 {
		t.Errorf("expected 1 sample, got %d", got)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("expected %v active, got %v", before+1, got)
	}
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("expected %v active, got %v", before, got)
	}
}
