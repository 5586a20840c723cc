package authcore

import (
	"context"
	"time"

	"github.com/castlelock/authcore/password"
	"github.com/castlelock/authcore/refresh"
	"github.com/castlelock/authcore/token"
)

// Engine orchestrates the credential and token lifecycle. Instances are
// configured through [Builder.Build] and immutable afterwards; all methods
// are safe for concurrent use.
type Engine struct {
	config  Config
	users   UserStore
	tokens  *refresh.Store
	hasher  *password.Hasher
	issuer  *token.Manager
	mailer  Mailer
	audit   *auditDispatcher
	metrics *Metrics
}

// Close flushes and stops the audit dispatcher. The engine must not be
// used after Close.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped reports how many audit events were dropped due to a full
// buffer.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot returns a point-in-time copy of all counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

// emitAudit stamps the event with time and client attribution from ctx and
// hands it to the dispatcher.
func (e *Engine) emitAudit(ctx context.Context, event AuditEvent) {
	if e == nil || e.audit == nil {
		return
	}
	info := clientInfoFromContext(ctx)
	event.Timestamp = time.Now().UTC()
	event.IP = info.IP
	event.UserAgent = info.UserAgent
	e.audit.Emit(ctx, event)
}

// sanitize strips fields that must never leave the engine.
func sanitize(u User) User {
	u.PasswordHash = ""
	u.SignInAttempts = 0
	return u
}
