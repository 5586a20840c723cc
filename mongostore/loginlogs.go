package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/castlelock/authcore"
)

// loginLogDoc is the persisted shape of a sign-in audit record.
type loginLogDoc struct {
	UserID    string    `bson:"userId,omitempty"`
	Email     string    `bson:"email,omitempty"`
	EventType string    `bson:"eventType"`
	Success   bool      `bson:"success"`
	Reason    string    `bson:"reason,omitempty"`
	IP        string    `bson:"ip,omitempty"`
	UserAgent string    `bson:"userAgent,omitempty"`
	Timestamp time.Time `bson:"timestamp"`
}

// LoginLogSink records sign-in related audit events in a login_logs
// collection. Events outside the sign-in family are ignored so the
// collection stays a pure access history.
type LoginLogSink struct {
	logs *mongo.Collection
}

// NewLoginLogSink wraps the login_logs collection of db.
func NewLoginLogSink(db *mongo.Database) *LoginLogSink {
	return &LoginLogSink{logs: db.Collection("login_logs")}
}

// Emit stores the event if it belongs to the sign-in family. Insert
// failures are dropped; audit must never take the engine down.
func (s *LoginLogSink) Emit(ctx context.Context, event authcore.AuditEvent) {
	switch event.EventType {
	case authcore.AuditSignIn, authcore.AuditSignInLockout, authcore.AuditSignOut, authcore.AuditRefreshReuse:
	default:
		return
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	_, _ = s.logs.InsertOne(ctx, loginLogDoc{
		UserID:    event.UserID,
		Email:     event.Email,
		EventType: event.EventType,
		Success:   event.Success,
		Reason:    event.Reason,
		IP:        event.IP,
		UserAgent: event.UserAgent,
		Timestamp: event.Timestamp,
	})
}
