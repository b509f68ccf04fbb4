package security

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ExpiresAt определяет срок жизни сессии для токена backend.
// Подпись токена не проверяется: её проверяет backend, а здесь нужен только exp.
// Если токен непрозрачный или без exp, используется fallbackTTL от now.
func ExpiresAt(token string, now time.Time, fallbackTTL time.Duration) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err == nil {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			return exp.Time
		}
	}
	if fallbackTTL <= 0 {
		return time.Time{}
	}
	return now.Add(fallbackTTL)
}

// Subject возвращает sub из токена, если токен является JWT
func Subject(token string) (string, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", false
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", false
	}
	return sub, true
}
