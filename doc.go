// Package autocrud synthesizes a complete CRUD operation set for a registered
// data model and layers response caching, bounded concurrency, and bearer-token
// session authentication onto every generated operation.
//
// The package is designed for concurrent server workloads: Router operations are
// safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// autocrud is the public surface. It exposes [Router], [Builder], [Config],
// [Descriptor], and value types (Record, Page, LoginResult, MetricsSnapshot).
// The Redis-backed stores live under cache/ and session/, admission control
// under limiter/, and HTTP adapters under middleware/ and httpapi/. Persistence
// is always delegated to the caller-supplied [Repository]; autocrud never owns
// a database.
//
// # What this package must NOT do
//
//   - Implement storage. All find/list/insert/update/delete calls go through
//     the Repository collaborator.
//   - Enforce authorization policy. Authentication answers "is this a valid,
//     unexpired token" only; role and permission checks belong to the caller.
//   - Perform I/O outside of Router operations (construction via Builder is
//     allocation-only until Build).
//
// # Consistency contract
//
// A successful write invalidates the model's cache scope before the write's
// result is returned, so a read that starts after the write completes can
// never observe a stale cached value for that model. Cross-model operations
// carry no ordering guarantee relative to each other.
package autocrud
