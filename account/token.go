package account

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the payload minted into session tokens. The routing
// layer gates endpoints on these claims; this package only creates and
// parses them.
type SessionClaims struct {
	Email        string `json:"email"`
	Role         Role   `json:"role"`
	Subscription string `json:"subscription,omitempty"`
	jwt.RegisteredClaims
}

func (c *SessionClaims) AccountID() ID {
	return ID(c.Subject)
}

// TokenSigner issues and verifies signed session tokens. Secret and
// lifetime are injected at construction, never read from the process
// environment here.
type TokenSigner struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

func NewTokenSigner(secret string, issuer string, ttl time.Duration) *TokenSigner {
	return &TokenSigner{secret: []byte(secret), issuer: issuer, ttl: ttl}
}

func (s *TokenSigner) Sign(acc *Account) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		Email:        acc.Email,
		Role:         acc.Role,
		Subscription: acc.Subscription.Status,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   string(acc.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *TokenSigner) Parse(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidSession
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok {
		return nil, ErrInvalidSession
	}

	return claims, nil
}

// TTL is the configured session lifetime; handlers use it for cookie expiry.
func (s *TokenSigner) TTL() time.Duration {
	return s.ttl
}
