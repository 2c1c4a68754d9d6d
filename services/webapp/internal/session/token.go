package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the token payload issued by the auth service.
type Claims struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Expiry returns the token's expiry instant, or the zero time when absent.
func (c *Claims) Expiry() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// TokenDecoder turns a raw bearer token into Claims. Implementations reject
// malformed tokens; expiry enforcement against the store's clock stays with
// the Store so it can be rechecked on every call.
type TokenDecoder interface {
	Decode(token string) (*Claims, error)
}

// JWTDecoder validates HS256 tokens against the shared platform secret.
type JWTDecoder struct {
	secret []byte
	parser *jwt.Parser
}

// NewJWTDecoder builds a decoder for the given secret.
func NewJWTDecoder(secret string) *JWTDecoder {
	return &JWTDecoder{
		secret: []byte(secret),
		// Expiry is checked by the Store against its own clock at every call.
		parser: jwt.NewParser(jwt.WithoutClaimsValidation()),
	}
}

// Decode verifies the signature and extracts claims.
func (d *JWTDecoder) Decode(token string) (*Claims, error) {
	parsed, err := d.parser.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("session: unexpected signing method")
		}
		return d.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("session: invalid token claims")
	}
	if claims.ExpiresAt == nil {
		return nil, errors.New("session: token has no expiry")
	}
	return claims, nil
}
