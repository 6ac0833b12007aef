// Package session owns the bearer-token state machine: issuing, validating,
// and revoking sessions backed by a Redis hash per token.
//
// # State machine
//
// A session is Active when created, and only moves forward: Active → Revoked
// on logout, Active → Expired once the current time passes its expiry. Expiry
// is observed lazily at validation time (the Redis key TTL also sweeps the
// record); a revoked record is retained with its remaining TTL so repeated
// logouts stay idempotent.
//
// # Tokens
//
// The default token is an opaque 32-byte random value. With signed tokens
// enabled the opaque id travels inside an HS256 JWT envelope, but validation
// always resolves the stored record too: signature alone never authenticates,
// so revocation and TTL semantics are identical in both modes.
package session
