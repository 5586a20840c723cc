package authcore

import (
	"sync"
	"testing"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})

	m.Inc(MetricSignInSuccess)
	m.Inc(MetricSignInSuccess)
	m.Inc(MetricSignInFailure)

	if got := m.Get(MetricSignInSuccess); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
	if got := m.Get(MetricSignInFailure); got != 1 {
		t.Fatalf("expected 1, got %d", got)
	}
	if got := m.Get(MetricSignOut); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestMetricsDisabled(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: false})

	m.Inc(MetricSignInSuccess)
	if m.Get(MetricSignInSuccess) != 0 {
		t.Fatal("expected disabled metrics to stay at zero")
	}
	if len(m.Snapshot().Counters) != 0 {
		t.Fatal("expected empty snapshot from disabled metrics")
	}
}

func TestMetricsConcurrentIncrements(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				m.Inc(MetricRefreshSuccess)
			}
		}()
	}
	wg.Wait()

	if got := m.Get(MetricRefreshSuccess); got != 8000 {
		t.Fatalf("expected 8000, got %d", got)
	}
}

func TestMetricsSnapshotIsCopy(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})
	m.Inc(MetricSignUpSuccess)

	snap := m.Snapshot()
	m.Inc(MetricSignUpSuccess)

	if snap.Counters[MetricSignUpSuccess] != 1 {
		t.Fatalf("expected snapshot frozen at 1, got %d", snap.Counters[MetricSignUpSuccess])
	}
	if m.Get(MetricSignUpSuccess) != 2 {
		t.Fatalf("expected live counter at 2, got %d", m.Get(MetricSignUpSuccess))
	}
}
