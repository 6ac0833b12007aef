// Package internal contains helper utilities that are intentionally private to
// autocrud, currently secure random token generation.
//
// # What this package must NOT do
//
//   - Export types that appear in the public autocrud API.
//   - Be imported by any package outside the autocrud module.
package internal
