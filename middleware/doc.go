// Package middleware exposes HTTP middleware adapters that attach bearer
// tokens and validated session identities to request contexts for
// autocrud.Router operations.
//
// # Guards
//
//   - [BearerToken] — extracts the Authorization bearer token into the context
//     without validating it; the router enforces auth per operation.
//   - [RequireSession] — validates the token up front and rejects with 401
//     before the handler runs.
//
// Each guard reads the Authorization header and injects what it extracts into
// the request context using the autocrud context helpers.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Router calls. It does NOT
// implement authentication logic itself. All decisions are delegated to
// Router.ValidateToken.
//
// # What this package must NOT do
//
//   - Inspect or decode session tokens (delegates to Router).
//   - Access Redis (the session store handles I/O).
//   - Make authorization decisions beyond pass/reject from Router.ValidateToken.
package middleware
