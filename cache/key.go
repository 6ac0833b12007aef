package cache

import "net/url"

// Key derives the canonical cache key for an operation and its effective
// parameters. url.Values.Encode sorts by parameter name and escapes values, so
// identical logical requests yield the same key regardless of parameter
// ordering and distinct requests cannot collide.
func Key(op string, params url.Values) string {
	if len(params) == 0 {
		return op
	}
	return op + "?" + params.Encode()
}
