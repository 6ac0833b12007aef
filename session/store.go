package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable is an exported constant or variable used by the session manager.
var ErrRedisUnavailable = errors.New("session redis unavailable")

const (
	fieldSubject   = "subject"
	fieldIssuedAt  = "issued_at"
	fieldExpiresAt = "expires_at"
	fieldState     = "state"
)

// Revocation must not resurrect a missing or expired key, so the existence
// check and the state write happen in one script.
const revokeScript = `
local existed = redis.call("EXISTS", KEYS[1])
if existed == 1 then
  redis.call("HSET", KEYS[1], "state", ARGV[1])
end
return existed
`

var revokeLua = redis.NewScript(revokeScript)

// Store is a Redis-backed session store. Each session is a hash under
// <prefix>:<id> whose key TTL matches the session lifetime, so abandoned
// records are swept by Redis without a background job.
type Store struct {
	redis  redis.UniversalClient
	prefix string
}

// NewStore creates a session [Store] backed by the given Redis client.
func NewStore(client redis.UniversalClient, prefix string) *Store {
	if prefix == "" {
		prefix = "acs"
	}
	return &Store{
		redis:  client,
		prefix: prefix,
	}
}

func (s *Store) key(id string) string {
	return s.prefix + ":" + id
}

// Save persists a [Session] with the given TTL.
//
//	Performance: 1 Redis transaction (HSET + EXPIRE).
func (s *Store) Save(ctx context.Context, sess *Session, ttl time.Duration) error {
	key := s.key(sess.ID)

	_, err := s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key,
			fieldSubject, sess.Subject,
			fieldIssuedAt, strconv.FormatInt(sess.IssuedAt, 10),
			fieldExpiresAt, strconv.FormatInt(sess.ExpiresAt, 10),
			fieldState, sess.State.String(),
		)
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return nil
}

// Get retrieves a session by id. Absent records return redis.Nil. A record
// whose expiry has passed is transitioned lazily: the key is dropped
// best-effort and the session is returned in StateExpired so callers can
// distinguish expiry from revocation.
//
//	Performance: 1 Redis HGETALL (+1 DEL on lazy expiry).
func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	fields, err := s.redis.HGetAll(ctx, s.key(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if len(fields) == 0 {
		return nil, redis.Nil
	}

	sess, err := decodeFields(id, fields)
	if err != nil {
		return nil, err
	}

	if sess.State == StateActive && time.Now().Unix() >= sess.ExpiresAt {
		sess.State = StateExpired
		// Best-effort drop; the key TTL will sweep it regardless.
		_ = s.redis.Del(ctx, s.key(id)).Err()
	}

	return sess, nil
}

// Revoke marks an existing session revoked, keeping the record (and its
// remaining TTL) so the transition is observable until expiry. Revoking an
// absent session is not an error.
//
//	Performance: 1 Lua EVALSHA (atomic exists + state write).
func (s *Store) Revoke(ctx context.Context, id string) error {
	if err := revokeLua.Run(ctx, s.redis, []string{s.key(id)}, StateRevoked.String()).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Delete removes a session record entirely.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.redis.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Ping returns a point-in-time Redis availability check and latency.
func (s *Store) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return time.Since(start), fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return time.Since(start), nil
}

func decodeFields(id string, fields map[string]string) (*Session, error) {
	issued, err := strconv.ParseInt(fields[fieldIssuedAt], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt session record %s: %v", id, err)
	}
	expires, err := strconv.ParseInt(fields[fieldExpiresAt], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt session record %s: %v", id, err)
	}

	return &Session{
		ID:        id,
		Subject:   fields[fieldSubject],
		IssuedAt:  issued,
		ExpiresAt: expires,
		State:     parseState(fields[fieldState]),
	}, nil
}
