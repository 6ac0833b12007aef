package autocrud

import "context"

type bearerTokenContextKey struct{}
type authResultContextKey struct{}

// WithBearerToken attaches the raw bearer token extracted from a request's
// Authorization header to ctx. The Router's auth guard reads it from there;
// transport adapters (see the middleware package) are expected to call this
// before invoking any generated operation.
func WithBearerToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, bearerTokenContextKey{}, token)
}

// WithAuthResult attaches a resolved identity to ctx. The Router does this
// itself after a successful guard check; it is exported so tests and custom
// transports can pre-authenticate a context.
func WithAuthResult(ctx context.Context, res *AuthResult) context.Context {
	return context.WithValue(ctx, authResultContextKey{}, res)
}

// AuthResultFromContext describes the authresultfromcontext operation and its observable behavior.
func AuthResultFromContext(ctx context.Context) (*AuthResult, bool) {
	if ctx == nil {
		return nil, false
	}
	res, ok := ctx.Value(authResultContextKey{}).(*AuthResult)
	return res, ok
}

func bearerTokenFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	token, _ := ctx.Value(bearerTokenContextKey{}).(string)
	return token
}
