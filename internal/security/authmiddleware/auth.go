// Package authmiddleware пускает в админку только запросы с действующей сессией
// и кладёт токен backend в контекст запроса.
package authmiddleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/linemk/shop-admin/internal/domain/models"
)

type contextKey string

const principalKey contextKey = "principal"

// Principal - кто выполняет запрос и с каким токеном ходить в backend
type Principal struct {
	SessionID string
	Email     string
	Token     string
}

// SessionIDReader достаёт идентификатор сессии из cookie
type SessionIDReader interface {
	SessionID(r *http.Request) string
}

// SessionSource отдаёт действующую сессию или ошибку, если её нет или она истекла
type SessionSource interface {
	Session(ctx context.Context, sessionID string) (models.Session, error)
}

// New создаёт middleware. denied вызывается для запросов без действующей сессии.
func New(log *slog.Logger, ids SessionIDReader, source SessionSource, denied http.HandlerFunc) func(http.Handler) http.Handler {
	if denied == nil {
		denied = func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
		}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid := ids.SessionID(r)
			if sid == "" {
				denied(w, r)
				return
			}
			s, err := source.Session(r.Context(), sid)
			if err != nil {
				log.Info("access denied", slog.String("path", r.URL.Path), slog.Any("error", err))
				denied(w, r)
				return
			}
			p := Principal{SessionID: sid, Email: s.Email, Token: s.Token}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// FromContext извлекает Principal из контекста.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}
