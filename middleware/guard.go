package middleware

import (
	"net/http"

	autocrud "github.com/hmaia/autocrud"
)

// BearerToken copies the Authorization bearer token, when present, into the
// request context. It never rejects: routers that require auth fail the
// operation themselves, and routers that do not ignore the token entirely.
func BearerToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token, ok := autocrud.ParseBearer(r.Header.Get("Authorization")); ok {
			r = r.WithContext(autocrud.WithBearerToken(r.Context(), token))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSession validates the bearer token against the router's session
// store before the handler runs, rejecting missing, malformed, revoked, and
// expired tokens with 401. The validated identity is injected into the
// request context for the handler.
func RequireSession(router *autocrud.Router) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if router == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			token, ok := autocrud.ParseBearer(r.Header.Get("Authorization"))
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			res, err := router.ValidateToken(r.Context(), token)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := autocrud.WithBearerToken(r.Context(), token)
			ctx = autocrud.WithAuthResult(ctx, res)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
