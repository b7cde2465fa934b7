package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/miniblog/miniblog/config"
)

// ErrSecretMissing reports that no signing secret is configured. Handlers
// translate it to a 500 response rather than crashing the process.
var ErrSecretMissing = errors.New("jwt signing secret not configured")

// Claims defines JWT claims carried by bearer tokens: the user id as the
// registered subject plus the account email.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// GenerateToken issues a signed token for the given user identity. The expiry
// comes from configuration (JWT_EXPIRES_HOURS, default 7 days).
func GenerateToken(userID, email string) (string, error) {
	cfg := config.Get()
	if cfg.JWTSecret == "" {
		return "", ErrSecretMissing
	}

	now := time.Now()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(cfg.JWTExpiryHours) * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

// ParseToken validates a token and returns its claims.
func ParseToken(tokenStr string) (*Claims, error) {
	cfg := config.Get()
	if cfg.JWTSecret == "" {
		return nil, ErrSecretMissing
	}

	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}
