package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"github.com/linemk/shop-admin/internal/backend"
	"github.com/linemk/shop-admin/internal/domain/models"
	"github.com/linemk/shop-admin/internal/forms"
	"github.com/linemk/shop-admin/internal/security/authmiddleware"
	"github.com/linemk/shop-admin/internal/service"
)

// AuthService - то, что обработчикам нужно от состояния аутентификации
type AuthService interface {
	Login(ctx context.Context, sessionID, email, password string) (models.Session, error)
	Logout(ctx context.Context, sessionID string) error
	Session(ctx context.Context, sessionID string) (models.Session, error)
}

type OrderService interface {
	List(ctx context.Context, token, query string) (service.OrderList, error)
	Get(ctx context.Context, token string, orderID int64) (models.Order, error)
	ChangeStatus(ctx context.Context, token, view string, orderID int64, status models.Status) (models.Order, error)
	Approve(ctx context.Context, token, view string, orderID int64, weight string) (service.ActionResult, error)
	Cancel(ctx context.Context, token, view string, orderID int64, confirmed bool) (service.ActionResult, error)
	Updating(view string) (int64, bool)
}

type ProductService interface {
	List(ctx context.Context, token string) ([]models.Product, error)
	Get(ctx context.Context, token string, productID int64) (models.Product, error)
	Create(ctx context.Context, token string, in models.ProductInput) (models.Product, error)
	Update(ctx context.Context, token string, productID int64, in models.ProductInput) (models.Product, error)
	Delete(ctx context.Context, token string, productID int64) error
}

type SettingsService interface {
	Load(ctx context.Context, token string) (models.AdminProfile, forms.SettingsForm, error)
	Save(ctx context.Context, token string, form forms.SettingsForm) (models.AdminProfile, error)
	Analytics(ctx context.Context, token string) (models.Analytics, error)
}

// Web - общее для всех страниц: логгер, сессии, шаблоны и выход при отозванном токене
type Web struct {
	Log       *slog.Logger
	Sessions  *Sessions
	Templates *TemplateCache
	Auth      AuthService
}

// Render добавляет к данным csrf-поле, flash-сообщения и email администратора
func (web *Web) Render(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	session := web.Sessions.Get(r)
	data["CsrfField"] = csrf.TemplateField(r)
	data["Flashes"] = GetFlash(session)
	data["Page"] = name
	if p, ok := authmiddleware.FromContext(r.Context()); ok {
		data["AdminEmail"] = p.Email
	}
	// сохраняем, чтобы показанные flash-сообщения не повторились
	if err := session.Save(r, w); err != nil {
		web.Log.Error("failed to save session", slog.Any("error", err))
	}
	if err := web.Templates.Render(w, status, name, data); err != nil {
		web.Log.Error("failed to render page", slog.String("page", name), slog.Any("error", err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// Redirect с flash-сообщением
func (web *Web) Redirect(w http.ResponseWriter, r *http.Request, to, typ, message string) {
	if err := web.Sessions.Flash(w, r, typ, message); err != nil {
		web.Log.Error("failed to save flash", slog.Any("error", err))
	}
	http.Redirect(w, r, to, http.StatusSeeOther)
}

// Fail показывает ошибку на странице to. При 401 от backend сессия завершается.
func (web *Web) Fail(w http.ResponseWriter, r *http.Request, err error, to string) {
	if web.Expired(w, r, err) {
		return
	}
	web.Redirect(w, r, to, FlashError, UserMessage(err))
}

// Expired завершает сессию и уводит на вход, если backend больше не принимает токен
func (web *Web) Expired(w http.ResponseWriter, r *http.Request, err error) bool {
	if !errors.Is(err, backend.ErrUnauthorized) {
		return false
	}
	if p, ok := authmiddleware.FromContext(r.Context()); ok {
		if err := web.Auth.Logout(r.Context(), p.SessionID); err != nil {
			web.Log.Error("failed to log out expired session", slog.Any("error", err))
		}
	}
	if err := web.Sessions.End(w, r); err != nil {
		web.Log.Error("failed to end session", slog.Any("error", err))
	}
	web.Redirect(w, r, "/login", FlashError, "Your session has expired. Please sign in again.")
	return true
}

// Denied - для authmiddleware: запрос без действующей сессии
func (web *Web) Denied(w http.ResponseWriter, r *http.Request) {
	web.Redirect(w, r, "/login", FlashError, "You must be logged in to access this page.")
}

// UserMessage переводит ошибку в текст для администратора
func UserMessage(err error) string {
	var (
		vErr   *forms.ValidationError
		apiErr *backend.APIError
	)
	switch {
	case errors.As(err, &vErr):
		return vErr.Message
	case errors.Is(err, service.ErrOrderBusy):
		return "Another order is being updated. Please wait."
	case errors.Is(err, service.ErrTransitionNotAllowed):
		return "This action is not available for the order's current status."
	case errors.Is(err, service.ErrOrderNotFound):
		return "Order not found."
	case errors.Is(err, service.ErrProductNotFound):
		return "Product not found."
	case errors.As(err, &apiErr):
		return apiErr.Message
	default:
		return "Something went wrong. Please try again."
	}
}

func principal(r *http.Request) authmiddleware.Principal {
	p, _ := authmiddleware.FromContext(r.Context())
	return p
}

func idParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

// SecurityHeadersMiddleware adds standard security headers
func SecurityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "same-origin")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self'; img-src 'self' https: data:; script-src 'self'")
		next.ServeHTTP(w, r)
	})
}
