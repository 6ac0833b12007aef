package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hmaia/autocrud/internal"
)

// tokenCodec translates between the wire token handed to clients and the
// opaque session id the store is keyed by.
type tokenCodec interface {
	encode(id, subject string, issued, expires time.Time) (string, error)
	decode(token string) (string, error)
}

// opaqueCodec is the default: the wire token is the session id itself.
type opaqueCodec struct{}

func (opaqueCodec) encode(id, _ string, _, _ time.Time) (string, error) {
	return id, nil
}

func (opaqueCodec) decode(token string) (string, error) {
	if _, err := internal.ParseToken(token); err != nil {
		return "", err
	}
	return token, nil
}

// signedCodec wraps the session id in an HS256 JWT. The signature only proves
// the envelope was minted here; authentication still requires the stored
// record, so a signed token dies with its session on revocation.
type signedCodec struct {
	key []byte
}

func (c *signedCodec) encode(id, subject string, issued, expires time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		ID:        id,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(issued),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
}

func (c *signedCodec) decode(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(
		token,
		&jwt.RegisteredClaims{},
		func(*jwt.Token) (any, error) { return c.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil || !parsed.Valid {
		return "", ErrTokenInvalid
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.ID == "" {
		return "", ErrTokenInvalid
	}
	if _, err := internal.ParseToken(claims.ID); err != nil {
		return "", ErrTokenInvalid
	}

	return claims.ID, nil
}

var _ tokenCodec = opaqueCodec{}
var _ tokenCodec = (*signedCodec)(nil)
