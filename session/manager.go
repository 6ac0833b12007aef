package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hmaia/autocrud/internal"
)

// ErrTokenInvalid is an exported constant or variable used by the session manager.
var ErrTokenInvalid = errors.New("invalid session token")

// Config holds session manager tuning parameters.
type Config struct {
	// TTL is the lifetime of every issued session.
	TTL time.Duration
	// SignedTokens wraps the opaque id in an HS256 JWT envelope.
	SignedTokens bool
	SigningKey   []byte
}

// Manager issues, validates, and revokes bearer tokens. It is the sole mutator
// of session state.
type Manager struct {
	store *Store
	ttl   time.Duration
	codec tokenCodec
	now   func() time.Time
}

// NewManager creates a [Manager] on top of a session [Store].
func NewManager(store *Store, cfg Config) (*Manager, error) {
	if store == nil {
		return nil, errors.New("session store required")
	}
	if cfg.TTL <= 0 {
		return nil, errors.New("session ttl must be positive")
	}

	var codec tokenCodec = opaqueCodec{}
	if cfg.SignedTokens {
		if len(cfg.SigningKey) == 0 {
			return nil, errors.New("signing key required for signed tokens")
		}
		codec = &signedCodec{key: cfg.SigningKey}
	}

	return &Manager{
		store: store,
		ttl:   cfg.TTL,
		codec: codec,
		now:   time.Now,
	}, nil
}

// TTL returns the configured session lifetime.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Issue mints a fresh token bound to subject and persists the Active session.
// Successive calls for the same subject always produce distinct tokens.
func (m *Manager) Issue(ctx context.Context, subject string) (string, error) {
	id, err := internal.NewToken()
	if err != nil {
		return "", err
	}

	now := m.now()
	sess := &Session{
		ID:        id.String(),
		Subject:   subject,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(m.ttl).Unix(),
		State:     StateActive,
	}

	if err := m.store.Save(ctx, sess, m.ttl); err != nil {
		return "", err
	}

	return m.codec.encode(sess.ID, subject, now, now.Add(m.ttl))
}

// Validate resolves token to its bound subject. Absent, revoked, and expired
// sessions all report [ErrTokenInvalid]; an expired session is lazily
// transitioned by the store and can never validate as Active again.
func (m *Manager) Validate(ctx context.Context, token string) (string, error) {
	id, err := m.codec.decode(token)
	if err != nil {
		return "", ErrTokenInvalid
	}

	sess, err := m.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrTokenInvalid
		}
		// Fail closed: an unreachable store never authenticates.
		return "", err
	}

	if sess.State != StateActive {
		return "", ErrTokenInvalid
	}
	if m.now().Unix() >= sess.ExpiresAt {
		return "", ErrTokenInvalid
	}

	return sess.Subject, nil
}

// Revoke marks the session for token revoked. Idempotent: revoking an unknown
// or already-revoked token has no further effect and is not an error. A
// malformed token is rejected so transports can still surface it as an auth
// failure.
func (m *Manager) Revoke(ctx context.Context, token string) error {
	id, err := m.codec.decode(token)
	if err != nil {
		return ErrTokenInvalid
	}
	return m.store.Revoke(ctx, id)
}
