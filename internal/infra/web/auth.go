package web

import (
	"time"

	"sample-media-gateway/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

// ===== Session/JWT primitives =====

// Sessions are minted by the identity provider with the shared HMAC secret;
// the gateway only verifies them. Mint exists for dev mode and tests.
type AuthManager struct {
	secret []byte
	ttl    time.Duration
}

func NewAuthManager(secret string, ttl time.Duration) *AuthManager {
	return &AuthManager{secret: []byte(secret), ttl: ttl}
}

type SessionClaims struct {
	jwt.RegisteredClaims
}

func (a *AuthManager) Mint(subject string) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
			Subject:   subject,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

func (a *AuthManager) Verify(token string) (*SessionClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrUnauthenticated
		}
		return a.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, domain.ErrUnauthenticated
	}
	claims, ok := parsed.Claims.(*SessionClaims)
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	return claims, nil
}
