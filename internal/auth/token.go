package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the signed token payload. Account is the only identity
// field; the password or its hash is never embedded.
type Claims struct {
	jwt.RegisteredClaims
	Account string `json:"account"`
}

// TokenCodec issues and verifies HS256-signed bearer tokens with a
// single process-wide secret. A zero ttl issues tokens without an
// expiry claim, which is the service's historical behavior.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenCodec(secret []byte, ttl time.Duration) *TokenCodec {
	return &TokenCodec{secret: secret, ttl: ttl}
}

func (c *TokenCodec) Issue(account string) (string, error) {
	claims := Claims{Account: account}
	if c.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(c.ttl))
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify validates the signature before trusting any embedded field
// and returns the claims unchanged. Failures are one of
// ErrMalformedToken, ErrTokenExpired or ErrBadSignature.
func (c *TokenCodec) Verify(token string) (Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return Claims{}, ErrMalformedToken
		case errors.Is(err, jwt.ErrTokenExpired):
			return Claims{}, ErrTokenExpired
		default:
			return Claims{}, ErrBadSignature
		}
	}
	if claims.Account == "" {
		return Claims{}, ErrMalformedToken
	}
	return *claims, nil
}
