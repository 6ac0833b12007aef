package autocrud

import (
	"context"
	"errors"
	"strings"
)

// ParseBearer extracts the token from an "Authorization: Bearer <token>"
// header value.
func ParseBearer(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := value[len(bearer):]
	if token == "" {
		return "", false
	}

	return token, true
}

// ValidateToken resolves a bearer token to its authenticated subject. Absent,
// malformed, revoked, and expired tokens all report [ErrUnauthenticated], as
// does an unreachable session backend: validation fails closed.
func (r *Router) ValidateToken(ctx context.Context, token string) (*AuthResult, error) {
	if r.sessions == nil {
		return nil, ErrRouterNotReady
	}
	if token == "" {
		return nil, ErrUnauthenticated
	}

	subject, err := r.sessions.Validate(ctx, token)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	return &AuthResult{Subject: subject}, nil
}

// authorize is the per-operation auth gate. When auth is not required it
// passes the context through untouched; otherwise it validates the bearer
// token carried in ctx and injects the resolved identity for downstream use.
func (r *Router) authorize(ctx context.Context) (context.Context, string, error) {
	if !r.config.Auth.Required {
		return ctx, "", nil
	}

	res, err := r.ValidateToken(ctx, bearerTokenFromContext(ctx))
	if err != nil {
		if errors.Is(err, ErrRouterNotReady) {
			return ctx, "", err
		}
		return ctx, "", ErrUnauthenticated
	}

	return WithAuthResult(ctx, res), res.Subject, nil
}
