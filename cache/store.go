package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable is an exported constant or variable used by the response cache.
var ErrRedisUnavailable = errors.New("cache redis unavailable")

// Population must not land after an invalidation it did not observe, so the
// generation check and the entry write happen in one script.
const putScript = `
local gen = redis.call("GET", KEYS[1])
if not gen then
  gen = "0"
end
if gen ~= ARGV[1] then
  return 0
end
redis.call("SET", KEYS[2], ARGV[2], "PX", ARGV[3])
redis.call("SADD", KEYS[3], ARGV[4])
redis.call("PEXPIRE", KEYS[3], ARGV[5])
return 1
`

// Bumping the generation, enumerating the index, and deleting the entries in
// one script closes the window where a concurrent store could keep an entry
// whose index membership was already swept.
const invalidateScript = `
redis.call("INCR", KEYS[1])
local members = redis.call("SMEMBERS", KEYS[2])
for _, member in ipairs(members) do
  redis.call("DEL", ARGV[1] .. member)
end
redis.call("DEL", KEYS[2])
return #members
`

var (
	putLua        = redis.NewScript(putScript)
	invalidateLua = redis.NewScript(invalidateScript)
)

// Store defines a public type used by autocrud APIs.
//
// Store instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Store struct {
	redis  redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// New creates a cache [Store] backed by the given Redis client. A non-positive
// ttl disables the store entirely.
func New(client redis.UniversalClient, prefix string, ttl time.Duration) *Store {
	if prefix == "" {
		prefix = "ac"
	}
	return &Store{
		redis:  client,
		prefix: prefix,
		ttl:    ttl,
	}
}

// Enabled reports whether the store caches at all.
func (s *Store) Enabled() bool {
	return s != nil && s.redis != nil && s.ttl > 0
}

// TTL returns the configured entry lifetime.
func (s *Store) TTL() time.Duration {
	if s == nil {
		return 0
	}
	return s.ttl
}

func (s *Store) entryKey(model, key string) string {
	return s.entryPrefix(model) + key
}

func (s *Store) entryPrefix(model string) string {
	return s.prefix + ":" + model + ":"
}

func (s *Store) indexKey(model string) string {
	return s.prefix + ":idx:" + model
}

func (s *Store) genKey(model string) string {
	return s.prefix + ":gen:" + model
}

// Generation returns the model's current invalidation generation. Callers
// snapshot it before reading the backing repository and hand it back to [Put],
// which refuses to store a value fetched before an intervening invalidation.
// A model that was never invalidated is at generation 0.
//
//	Performance: 1 Redis GET.
func (s *Store) Generation(ctx context.Context, model string) (int64, error) {
	if !s.Enabled() {
		return 0, nil
	}

	gen, err := s.redis.Get(ctx, s.genKey(model)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return gen, nil
}

// Get returns the cached value for (model, key) and whether it was a hit.
// Expired entries are evicted by Redis itself and therefore report a miss.
//
//	Performance: 1 Redis GET.
func (s *Store) Get(ctx context.Context, model, key string) ([]byte, bool, error) {
	if !s.Enabled() {
		return nil, false, nil
	}

	data, err := s.redis.Get(ctx, s.entryKey(model, key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return data, true, nil
}

// Put stores value under (model, key) with the router TTL and records the key
// in the model's index set so Invalidate can find it later. The write only
// happens if the model's invalidation generation still equals gen; a value
// fetched before a concurrent invalidation is silently discarded instead of
// resurrecting stale state.
//
//	Performance: 1 Lua EVALSHA (atomic generation check + SET + SADD + PEXPIRE).
func (s *Store) Put(ctx context.Context, model, key string, value []byte, gen int64) error {
	if !s.Enabled() {
		return nil
	}

	err := putLua.Run(ctx, s.redis,
		[]string{s.genKey(model), s.entryKey(model, key), s.indexKey(model)},
		strconv.FormatInt(gen, 10),
		value,
		s.ttl.Milliseconds(),
		key,
		// The index outlives individual entries by one TTL so stale members
		// are bounded even if no write ever invalidates the model.
		(2 * s.ttl).Milliseconds(),
	).Err()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return nil
}

// Invalidate removes every cached entry scoped to model and advances the
// model's invalidation generation, fencing off any in-flight read that
// fetched its value before this call. It must run synchronously after a
// successful write, before the write's response is returned.
//
// The generation key is deliberately never expired: resetting it would let a
// long-parked read store a pre-write value under a recycled generation.
//
//	Performance: 1 Lua EVALSHA (INCR + SMEMBERS + DEL entries + DEL index).
func (s *Store) Invalidate(ctx context.Context, model string) error {
	if !s.Enabled() {
		return nil
	}

	err := invalidateLua.Run(ctx, s.redis,
		[]string{s.genKey(model), s.indexKey(model)},
		s.entryPrefix(model),
	).Err()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return nil
}

// Ping returns a point-in-time Redis availability check and latency.
func (s *Store) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	if s == nil || s.redis == nil {
		return 0, ErrRedisUnavailable
	}
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return time.Since(start), fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return time.Since(start), nil
}
