package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenLifetime is the fixed validity window of issued tokens. There is no
// refresh or revocation; a token is good until it expires.
const TokenLifetime = 24 * time.Hour

var (
	// ErrTokenExpired marks a structurally valid, correctly signed token
	// whose exp claim has passed.
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid covers every structural or signature failure. The
	// cause is deliberately not broken down further for callers.
	ErrTokenInvalid = errors.New("token invalid or malformed")
)

// Claims is the payload carried by an issued token.
type Claims struct {
	Role Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenCodec issues and verifies HS256-signed bearer tokens. The signing
// key is process-wide configuration; the codec holds no other state and is
// safe for unbounded concurrent use.
type TokenCodec struct {
	key []byte
	now func() time.Time
}

// NewTokenCodec creates a codec signing with the given HMAC key.
func NewTokenCodec(key []byte) *TokenCodec {
	return &TokenCodec{key: key, now: time.Now}
}

// WithClock overrides the codec's clock. Test hook.
func (c *TokenCodec) WithClock(now func() time.Time) *TokenCodec {
	c.now = now
	return c
}

// Issue builds and signs a token for the given identity and role.
// Claims: sub=identity, role, iat=now, exp=now+24h.
func (c *TokenCodec) Issue(identity string, role Role) (string, error) {
	now := c.now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenLifetime)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token, returning its claims.
//
// Fails closed: any parse or signature failure yields ErrTokenInvalid,
// an expired signature-valid token yields ErrTokenExpired. The MAC
// comparison inside the jwt library is constant-time (crypto/hmac.Equal).
func (c *TokenCodec) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		// Reject algorithm substitution; only HS256 tokens are ever issued.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return c.key, nil
	}, jwt.WithTimeFunc(c.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if claims.Subject == "" {
		return nil, ErrTokenInvalid
	}
	if _, err := ParseRole(string(claims.Role)); err != nil {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
