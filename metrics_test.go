package goToken

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestMetricsDisabledNoIncrement(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: false})
	m.Inc(MetricIssueSuccess)

	if got := m.Value(MetricIssueSuccess); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
	if snap := m.Snapshot(); len(snap.Counters) != 0 {
		t.Fatalf("expected empty snapshot, got %d counters", len(snap.Counters))
	}
}

func TestMetricsEnabledIncrement(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})
	m.Inc(MetricIssueSuccess)
	m.Inc(MetricIssueSuccess)
	m.Inc(MetricIssueSuccess)

	if got := m.Value(MetricIssueSuccess); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
}

func TestMetricsIgnoresUnknownID(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})
	m.Inc(metricIDCount + 3)
	if got := m.Value(metricIDCount + 3); got != 0 {
		t.Fatalf("expected 0 for unknown id, got %d", got)
	}
}

func TestMetricsConcurrentIncrementSafe(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})

	const goroutines = 32
	const perG = 4000

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perG; j++ {
				m.Inc(MetricRefreshSuccess)
			}
		}()
	}
	wg.Wait()

	want := uint64(goroutines * perG)
	if got := m.Value(MetricRefreshSuccess); got != want {
		t.Fatalf("expected %d, got %d", want, got)
	}
}

func TestMetricsHistogramBucketCorrectness(t *testing.T) {
	m := NewMetrics(MetricsConfig{
		Enabled:                 true,
		EnableLatencyHistograms: true,
	})

	observations := []time.Duration{
		5 * time.Millisecond,
		10 * time.Millisecond,
		25 * time.Millisecond,
		50 * time.Millisecond,
		100 * time.Millisecond,
		250 * time.Millisecond,
		500 * time.Millisecond,
		700 * time.Millisecond,
	}

	for _, d := range observations {
		m.Observe(MetricVerifyLatency, d)
	}
	// Only the verify histogram has buckets.
	m.Observe(MetricIssueSuccess, time.Millisecond)

	snap := m.Snapshot()
	buckets := snap.Histograms[MetricVerifyLatency]
	if len(buckets) != 8 {
		t.Fatalf("expected 8 buckets, got %d", len(buckets))
	}

	for i, v := range buckets {
		if v != 1 {
			t.Fatalf("bucket %d expected 1, got %d", i, v)
		}
	}
	if _, ok := snap.Histograms[MetricIssueSuccess]; ok {
		t.Fatal("unexpected histogram for counter metric")
	}
}

func TestMetricsSnapshotConsistency(t *testing.T) {
	m := NewMetrics(MetricsConfig{
		Enabled:                 true,
		EnableLatencyHistograms: true,
	})
	m.Inc(MetricVerifySuccess)
	m.Inc(MetricVerifyFailure)
	m.Inc(MetricVerifyFailure)
	m.Observe(MetricVerifyLatency, 2*time.Millisecond)

	snap := m.Snapshot()

	if snap.Counters[MetricVerifySuccess] != 1 {
		t.Fatalf("expected MetricVerifySuccess=1 got %d", snap.Counters[MetricVerifySuccess])
	}
	if snap.Counters[MetricVerifyFailure] != 2 {
		t.Fatalf("expected MetricVerifyFailure=2 got %d", snap.Counters[MetricVerifyFailure])
	}
	if len(snap.Histograms[MetricVerifyLatency]) != 8 {
		t.Fatalf("expected histogram length 8")
	}
	if snap.Histograms[MetricVerifyLatency][0] != 1 {
		t.Fatalf("expected first histogram bucket=1 got %d", snap.Histograms[MetricVerifyLatency][0])
	}
}

func TestManagerRecordsLifecycleMetrics(t *testing.T) {
	h := newTestManager(t, nil)
	ctx := context.Background()

	pair, err := h.manager.Issue(ctx, 7)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, err := h.manager.VerifyAccess(ctx, pair.AccessToken); err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if _, err := h.manager.Refresh(ctx, pair.RefreshToken); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if _, err := h.manager.Refresh(ctx, pair.RefreshToken); err == nil {
		t.Fatal("expected replayed refresh to fail")
	}

	snap := h.manager.MetricsSnapshot()
	if got := snap.Counters[MetricIssueSuccess]; got != 2 {
		t.Fatalf("expected 2 issuances, got %d", got)
	}
	if got := snap.Counters[MetricVerifySuccess]; got != 1 {
		t.Fatalf("expected 1 verify success, got %d", got)
	}
	if got := snap.Counters[MetricRefreshSuccess]; got != 1 {
		t.Fatalf("expected 1 refresh success, got %d", got)
	}
	if got := snap.Counters[MetricRefreshReuseDetected]; got != 1 {
		t.Fatalf("expected 1 reuse detection, got %d", got)
	}
	if got := snap.Counters[MetricRefreshFailure]; got != 1 {
		t.Fatalf("expected 1 refresh failure, got %d", got)
	}
}
