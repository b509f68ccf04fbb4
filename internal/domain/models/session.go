package models

import "time"

// Session - сессия администратора: bearer-токен backend, привязанный к идентификатору сессии
type Session struct {
	ID        string
	Email     string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired - истёк ли срок действия сессии к моменту now
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}
