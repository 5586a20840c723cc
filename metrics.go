package authcore

import "sync/atomic"

// MetricID identifies a specific counter in the in-process metrics system.
type MetricID uint16

const (
	// MetricSignInSuccess counts successful sign-ins.
	MetricSignInSuccess MetricID = iota
	// MetricSignInFailure counts failed sign-ins (bad credentials or
	// unknown email).
	MetricSignInFailure
	// MetricSignInLockout counts sign-ins rejected because the account is
	// or just became locked.
	MetricSignInLockout
	// MetricSignUpSuccess counts created accounts.
	MetricSignUpSuccess
	// MetricSignUpDuplicate counts sign-ups rejected for a taken email.
	MetricSignUpDuplicate
	// MetricRefreshSuccess counts successful token rotations.
	MetricRefreshSuccess
	// MetricRefreshFailure counts rejected refresh attempts.
	MetricRefreshFailure
	// MetricRefreshReuse counts detected replays of rotated tokens.
	MetricRefreshReuse
	// MetricSignOut counts sign-out requests carrying a token.
	MetricSignOut
	// MetricPasswordResetRequest counts forgot-password requests.
	MetricPasswordResetRequest
	// MetricPasswordResetSuccess counts completed password resets.
	MetricPasswordResetSuccess
	// MetricPasswordResetFailure counts rejected password resets.
	MetricPasswordResetFailure
	// MetricEmailVerifySuccess counts completed email verifications,
	// including idempotent repeats.
	MetricEmailVerifySuccess
	// MetricEmailVerifyFailure counts rejected email verifications.
	MetricEmailVerifyFailure
	// MetricValidateSuccess counts successful access-token validations.
	MetricValidateSuccess
	// MetricValidateFailure counts failed access-token validations.
	MetricValidateFailure

	metricIDCount
)

// Metrics holds atomic counters for engine operations. The zero value is
// unusable; construct with [NewMetrics].
type Metrics struct {
	enabled  bool
	counters [metricIDCount]atomic.Uint64
}

// MetricsSnapshot is a point-in-time copy of all counters.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

// NewMetrics creates a [Metrics] instance. When cfg.Enabled is false, all
// operations are no-ops.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{enabled: cfg.Enabled}
}

// Inc increments a counter.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	m.counters[id].Add(1)
}

// Get reads one counter.
func (m *Metrics) Get(id MetricID) uint64 {
	if m == nil || !m.enabled || id >= metricIDCount {
		return 0
	}
	return m.counters[id].Load()
}

// Snapshot copies every counter.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{Counters: make(map[MetricID]uint64, metricIDCount)}
	if m == nil || !m.enabled {
		return snap
	}
	for id := MetricID(0); id < metricIDCount; id++ {
		snap.Counters[id] = m.counters[id].Load()
	}
	return snap
}
