package authcore

import (
	"errors"
	"strings"

	"github.com/castlelock/authcore/password"
	"github.com/castlelock/authcore/refresh"
	"github.com/castlelock/authcore/token"
	"github.com/redis/go-redis/v9"
)

// Builder assembles an [Engine]. Construction is allocation-only; no I/O
// happens until the engine's methods are called.
type Builder struct {
	config Config
	redis  *redis.Client

	userStore UserStore
	mailer    Mailer
	auditSink AuditSink

	refreshPrefix string

	built bool
}

// New returns a Builder seeded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: defaultBuilderConfig(),
	}
}

func defaultBuilderConfig() Config {
	return DefaultConfig()
}

// WithConfig replaces the builder's configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis sets the Redis client backing the refresh-token store.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

// WithUserStore sets the credential store.
func (b *Builder) WithUserStore(store UserStore) *Builder {
	b.userStore = store
	return b
}

// WithMailer sets the outbound-mail collaborator. Without one, reset and
// verification mails are skipped and the tokens are only returned to the
// caller.
func (b *Builder) WithMailer(m Mailer) *Builder {
	b.mailer = m
	return b
}

// WithAuditSink sets the audit sink. Ignored when [AuditConfig.Enabled] is
// false.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled toggles the in-process counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithRefreshKeyPrefix overrides the Redis key prefix for refresh records.
func (b *Builder) WithRefreshKeyPrefix(prefix string) *Builder {
	b.refreshPrefix = prefix
	return b
}

// Build validates the configuration and wires the engine. A Builder can be
// used once.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if b.redis == nil {
		return nil, errors.New("redis client required")
	}
	if b.userStore == nil {
		return nil, errors.New("user store required")
	}

	tokenManager, err := token.NewManager(token.Config{
		AccessTTL:     cfg.Token.AccessTTL,
		SigningMethod: token.SigningMethod(strings.ToLower(cfg.Token.SigningMethod)),
		PrivateKey:    cfg.Token.PrivateKey,
		PublicKey:     cfg.Token.PublicKey,
		Issuer:        cfg.Token.Issuer,
		Leeway:        cfg.Token.Leeway,
	})
	if err != nil {
		return nil, err
	}

	hasher, err := password.New(password.Config{Cost: cfg.Password.Cost})
	if err != nil {
		return nil, err
	}

	engine := &Engine{
		config:  cfg,
		users:   b.userStore,
		tokens:  refresh.NewStore(b.redis, b.refreshPrefix),
		hasher:  hasher,
		issuer:  tokenManager,
		mailer:  b.mailer,
		audit:   newAuditDispatcher(cfg.Audit, b.auditSink),
		metrics: NewMetrics(cfg.Metrics),
	}

	b.built = true
	return engine, nil
}
