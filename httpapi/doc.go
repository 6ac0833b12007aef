// Package httpapi mounts an autocrud.Router as a chi route group speaking
// JSON. It is a thin transport adapter: request decoding, id coercion, and
// error-to-status translation live here, while every behavioral decision
// (validation, caching, concurrency limiting, auth) stays in the router.
//
// # Route surface
//
// For a router built over model "item", [Mount] registers under the given
// prefix:
//
//	POST   {prefix}/item/login
//	POST   {prefix}/item/logout
//	GET    {prefix}/item/
//	GET    {prefix}/item/count
//	GET    {prefix}/item/{id}
//	POST   {prefix}/item/
//	POST   {prefix}/item/bulk
//	PATCH  {prefix}/item/bulk
//	PATCH  {prefix}/item/{id}
//	DELETE {prefix}/item/{id}
//	DELETE {prefix}/item/bulk
//
// The login and logout routes are only registered when the router has login
// enabled.
//
// # Error mapping
//
//   - autocrud.ErrValidation      -> 400
//   - autocrud.ErrUnauthenticated -> 401
//   - autocrud.ErrInvalidCredentials -> 401
//   - autocrud.ErrNotFound        -> 404
//   - autocrud.ErrRepository      -> 502
//   - anything else               -> 500
package httpapi
