// Package cache provides the Redis-backed response cache used by generated
// read operations: keyed entries with a per-router TTL, canonical key
// derivation, and whole-model invalidation.
//
// # Key layout
//
// Entries live under <prefix>:<model>:<key> with the router's TTL. Every
// entry's key is additionally tracked in a per-model index set at
// <prefix>:idx:<model>, so Invalidate can remove the entire model scope in a
// single script instead of a Redis SCAN.
//
// # Write fencing
//
// Each model carries a persistent generation counter at <prefix>:gen:<model>.
// Invalidate increments it atomically with the entry sweep; Put stores only
// when the generation still matches the value the caller snapshotted before
// reading the repository. A read that overlaps a write therefore cannot
// repopulate the cache with the pre-write value.
//
// # Disabled mode
//
// A store constructed with a non-positive TTL is disabled: Get always misses,
// Put and Invalidate are no-ops, and reads fall through to the repository.
package cache
