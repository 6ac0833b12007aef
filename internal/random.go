package internal

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
)

const tokenRawSize = 32

// Token is an opaque session credential: 32 random bytes, base64url encoded
// without padding. Collision probability is negligible and values carry no
// information about the subject or issuance time.
type Token [tokenRawSize]byte

// NewToken describes the newtoken operation and its observable behavior.
func NewToken() (Token, error) {
	var t Token
	_, err := rand.Read(t[:])
	return t, err
}

// Bytes describes the bytes operation and its observable behavior.
func (t Token) Bytes() []byte {
	return t[:]
}

// String describes the string operation and its observable behavior.
func (t Token) String() string {
	// base64url, no padding, compact
	return base64.RawURLEncoding.EncodeToString(t[:])
}

// ParseToken describes the parsetoken operation and its observable behavior.
func ParseToken(token string) (Token, error) {
	var t Token

	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return t, err
	}
	if len(raw) != len(t) {
		return t, errors.New("invalid token size")
	}

	copy(t[:], raw)
	return t, nil
}
