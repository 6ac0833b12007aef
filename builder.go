package autocrud

import (
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/hmaia/autocrud/cache"
	"github.com/hmaia/autocrud/limiter"
	"github.com/hmaia/autocrud/session"
)

// Builder defines a public type used by autocrud APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config
	redis  redis.UniversalClient

	model    Model
	repo     Repository
	verifier VerifyFunc

	sessions  *session.Manager
	auditSink AuditSink

	built bool
}

// New describes the new operation and its observable behavior.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis describes the withredis operation and its observable behavior.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithModel registers the structured type this router exposes.
func (b *Builder) WithModel(m Model) *Builder {
	b.model = m
	return b
}

// WithRepository sets the storage collaborator all operations delegate to.
func (b *Builder) WithRepository(repo Repository) *Builder {
	b.repo = repo
	return b
}

// WithLoginVerifier sets the credential predicate applied to the record
// located via the configured login fields. A nil verifier accepts any match.
func (b *Builder) WithLoginVerifier(fn VerifyFunc) *Builder {
	b.verifier = fn
	return b
}

// WithSessionManager injects a shared session manager so several routers (for
// example a login-only router and the CRUD routers it protects) validate the
// same token space. Without it, routers built on the same Redis client and
// session prefix share tokens anyway.
func (b *Builder) WithSessionManager(m *session.Manager) *Builder {
	b.sessions = m
	return b
}

// WithAuditSink describes the withauditsink operation and its observable behavior.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build validates the configuration, derives the model descriptor, and wires
// the generated router. Generation-time failures (DescriptorError,
// ConfigError, missing collaborators) abort construction entirely; a
// misconfigured model is never served.
func (b *Builder) Build() (*Router, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if b.model == nil {
		return nil, errors.New("model required")
	}
	if b.repo == nil {
		return nil, errors.New("repository required")
	}

	desc, err := NewDescriptor(b.model)
	if err != nil {
		return nil, err
	}

	for _, f := range cfg.Login.Fields {
		if !desc.HasField(f) {
			return nil, &DescriptorError{
				Model:  desc.Name(),
				Reason: "login field " + f + " does not exist",
			}
		}
	}

	needRedis := cfg.Cache.TTL > 0 || cfg.Login.Enabled || cfg.Auth.Required
	if needRedis && b.redis == nil && b.sessions == nil {
		return nil, errors.New("redis client required")
	}
	if cfg.Cache.TTL > 0 && b.redis == nil {
		return nil, errors.New("redis client required for caching")
	}

	lim, err := limiter.New(cfg.effectiveMaxConcurrent())
	if err != nil {
		return nil, &ConfigError{Option: "Concurrency.MaxConcurrent", Reason: err.Error()}
	}

	router := &Router{
		config:   cfg,
		desc:     desc,
		repo:     b.repo,
		verifier: b.verifier,
		cache:    cache.New(b.redis, cfg.Cache.RedisPrefix, cfg.Cache.TTL),
		limiter:  lim,
		metrics:  NewMetrics(cfg.Metrics),
		audit:    newAuditDispatcher(cfg.Audit, b.auditSink),
	}

	if b.sessions != nil {
		router.sessions = b.sessions
	} else if cfg.Login.Enabled || cfg.Auth.Required {
		store := session.NewStore(b.redis, cfg.Sessions.RedisPrefix)
		mgr, err := session.NewManager(store, session.Config{
			TTL:          cfg.effectiveLoginTTL(),
			SignedTokens: cfg.Sessions.SignedTokens,
			SigningKey:   cfg.Sessions.SigningKey,
		})
		if err != nil {
			return nil, &ConfigError{Option: "Sessions", Reason: err.Error()}
		}
		router.sessions = mgr
	}

	b.built = true

	return router, nil
}
