package authcore

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"
)

// Audit event types emitted by the engine. SignIn events double as the
// service's login log: sinks persisting them get one record per attempt
// with outcome, reason, and client info.
const (
	AuditSignUp               = "signup"
	AuditSignIn               = "signin"
	AuditSignInLockout        = "signin_lockout"
	AuditRefresh              = "refresh"
	AuditRefreshReuse         = "refresh_reuse"
	AuditSignOut              = "signout"
	AuditPasswordResetRequest = "password_reset_request"
	AuditPasswordResetConfirm = "password_reset_confirm"
	AuditEmailVerification    = "email_verification"
	AuditMailFailure          = "mail_failure"
)

// AuditEvent is a structured audit record emitted by the engine.
type AuditEvent struct {
	Timestamp time.Time `json:"timestamp"`
	EventType string    `json:"event_type"`
	UserID    string    `json:"user_id,omitempty"`
	Email     string    `json:"email,omitempty"`
	IP        string    `json:"ip,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
	Success   bool      `json:"success"`
	Reason    string    `json:"reason,omitempty"`
}

// AuditSink receives [AuditEvent] values from the engine's audit
// dispatcher. Emit must not block for long and must never panic.
type AuditSink interface {
	Emit(ctx context.Context, event AuditEvent)
}

// NoOpSink is an [AuditSink] that silently discards all events.
type NoOpSink struct{}

// Emit discards the event.
func (NoOpSink) Emit(context.Context, AuditEvent) {}

// ChannelSink is a buffered channel-based [AuditSink].
type ChannelSink struct {
	events chan AuditEvent
}

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelSink{
		events: make(chan AuditEvent, buffer),
	}
}

// Emit enqueues the event, giving up when ctx is done.
func (s *ChannelSink) Emit(ctx context.Context, event AuditEvent) {
	select {
	case s.events <- event:
	case <-ctx.Done():
	}
}

// Events exposes the sink's channel for consumption.
func (s *ChannelSink) Events() <-chan AuditEvent {
	return s.events
}

// JSONWriterSink is an [AuditSink] that writes one JSON object per line to
// an [io.Writer].
type JSONWriterSink struct {
	writer io.Writer
	mu     sync.Mutex
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return &JSONWriterSink{
		writer: w,
	}
}

// Emit marshals and writes the event. Marshal or write failures are
// dropped; audit must never fail an auth operation.
func (s *JSONWriterSink) Emit(ctx context.Context, event AuditEvent) {
	if s == nil || s.writer == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = s.writer.Write(data)
	_, _ = s.writer.Write([]byte("\n"))
}

// FanOutSink forwards every event to each wrapped sink in order.
type FanOutSink struct {
	sinks []AuditSink
}

// NewFanOutSink combines sinks into one [AuditSink].
func NewFanOutSink(sinks ...AuditSink) *FanOutSink {
	return &FanOutSink{sinks: sinks}
}

// Emit forwards the event to every wrapped sink.
func (s *FanOutSink) Emit(ctx context.Context, event AuditEvent) {
	for _, sink := range s.sinks {
		if sink != nil {
			sink.Emit(ctx, event)
		}
	}
}
