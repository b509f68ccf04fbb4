package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/linemk/shop-admin/internal/domain/models"
	"github.com/linemk/shop-admin/internal/security"
	"github.com/linemk/shop-admin/internal/storage"
)

// ErrNotAuthenticated - у сессии нет действующего токена
var ErrNotAuthenticated = errors.New("not authenticated")

// AuthGateway - часть backend-клиента, отвечающая за вход
type AuthGateway interface {
	Login(ctx context.Context, email, password string) (string, error)
}

type EventKind string

const (
	EventLogin  EventKind = "login"
	EventLogout EventKind = "logout"
)

// Event описывает изменение состояния аутентификации сессии
type Event struct {
	Kind      EventKind
	SessionID string
	Email     string
}

// Listener получает уведомления о входе и выходе
type Listener func(Event)

// AuthService хранит токен backend для каждой сессии и оповещает подписчиков об изменениях
type AuthService struct {
	log      *slog.Logger
	gateway  AuthGateway
	sessions storage.TokenStorage
	ttl      time.Duration
	now      func() time.Time

	mu        sync.RWMutex
	listeners []Listener
}

func NewAuthService(log *slog.Logger, gateway AuthGateway, sessions storage.TokenStorage, ttl time.Duration) *AuthService {
	return &AuthService{
		log:      log,
		gateway:  gateway,
		sessions: sessions,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Subscribe регистрирует слушателя изменений
func (a *AuthService) Subscribe(l Listener) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listeners = append(a.listeners, l)
}

func (a *AuthService) notify(e Event) {
	a.mu.RLock()
	listeners := make([]Listener, len(a.listeners))
	copy(listeners, a.listeners)
	a.mu.RUnlock()

	for _, l := range listeners {
		l(e)
	}
}

// Login выполняет вход в backend и сохраняет полученный токен за сессией.
// Срок жизни берётся из exp токена, если он есть, иначе из настроек.
func (a *AuthService) Login(ctx context.Context, sessionID, email, password string) (models.Session, error) {
	const op = "service.AuthService.Login"
	logger := a.log.With(slog.String("op", op), slog.String("email", email))
	logger.Info("logging in")

	token, err := a.gateway.Login(ctx, email, password)
	if err != nil {
		logger.Warn("login rejected", slog.Any("error", err))
		return models.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	now := a.now()
	session := models.Session{
		ID:        sessionID,
		Email:     email,
		Token:     token,
		ExpiresAt: security.ExpiresAt(token, now, a.ttl),
		CreatedAt: now,
	}
	if err := a.sessions.Save(ctx, session); err != nil {
		logger.Error("failed to save session", slog.Any("error", err))
		return models.Session{}, fmt.Errorf("%s: failed to save session: %w", op, err)
	}

	logger.Info("logged in", slog.Time("expiresAt", session.ExpiresAt))
	a.notify(Event{Kind: EventLogin, SessionID: sessionID, Email: email})
	return session, nil
}

// Logout забывает токен сессии. Выход из несуществующей сессии не ошибка.
func (a *AuthService) Logout(ctx context.Context, sessionID string) error {
	const op = "service.AuthService.Logout"
	logger := a.log.With(slog.String("op", op))

	var email string
	if s, err := a.sessions.Get(ctx, sessionID); err == nil {
		email = s.Email
	}
	if err := a.sessions.Delete(ctx, sessionID); err != nil && !errors.Is(err, storage.ErrSessionNotFound) {
		logger.Error("failed to delete session", slog.Any("error", err))
		return fmt.Errorf("%s: failed to delete session: %w", op, err)
	}

	logger.Info("logged out", slog.String("email", email))
	a.notify(Event{Kind: EventLogout, SessionID: sessionID, Email: email})
	return nil
}

// Token возвращает действующий токен сессии; истёкшая сессия удаляется
func (a *AuthService) Token(ctx context.Context, sessionID string) (string, error) {
	const op = "service.AuthService.Token"

	if sessionID == "" {
		return "", ErrNotAuthenticated
	}
	s, err := a.sessions.Get(ctx, sessionID)
	if errors.Is(err, storage.ErrSessionNotFound) {
		return "", ErrNotAuthenticated
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if s.Expired(a.now()) || s.Token == "" {
		a.log.Info("session expired", slog.String("op", op), slog.String("email", s.Email))
		if err := a.Logout(ctx, sessionID); err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
		return "", ErrNotAuthenticated
	}
	return s.Token, nil
}

// Session возвращает данные сессии для отображения (email администратора)
func (a *AuthService) Session(ctx context.Context, sessionID string) (models.Session, error) {
	if _, err := a.Token(ctx, sessionID); err != nil {
		return models.Session{}, err
	}
	return a.sessions.Get(ctx, sessionID)
}

// PurgeExpired удаляет истёкшие сессии из хранилища
func (a *AuthService) PurgeExpired(ctx context.Context) (int64, error) {
	const op = "service.AuthService.PurgeExpired"
	n, err := a.sessions.DeleteExpired(ctx, a.now())
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if n > 0 {
		a.log.Info("expired sessions removed", slog.String("op", op), slog.Int64("count", n))
	}
	return n, nil
}
