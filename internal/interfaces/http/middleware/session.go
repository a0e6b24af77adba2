package middleware

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	sessionIssuer     = "niche-dashboard"
	sessionSubject    = "admin"
	defaultSessionTTL = 12 * time.Hour
)

// sessionClaims - claims токена сессии администратора
type sessionClaims struct {
	jwt.RegisteredClaims
}

// IssueSession выдает HS256 токен сессии. Ключ подписи - пароль администратора,
// поэтому смена ADMIN_PASSWORD инвалидирует все выданные сессии.
func IssueSession(cfg AuthConfig, now time.Time) (string, time.Time, error) {
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	expires := now.Add(ttl).UTC().Truncate(time.Second)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    sessionIssuer,
			Subject:   sessionSubject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
			ID:        uuid.NewString(),
		},
	})

	signed, err := token.SignedString([]byte(cfg.Password))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, expires, nil
}

// VerifySession проверяет подпись, алгоритм, issuer и срок токена на момент now
func VerifySession(cfg AuthConfig, token string, now time.Time) bool {
	if token == "" || cfg.Password == "" {
		return false
	}

	parsed, err := jwt.ParseWithClaims(token, &sessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return []byte(cfg.Password), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithSubject(sessionSubject),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		return false
	}
	return parsed.Valid
}
