package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/linemk/shop-admin/internal/backend"
	"github.com/linemk/shop-admin/internal/forms"
)

// LoginPageHandler показывает форму входа; с действующей сессией сразу ведёт в панель
func LoginPageHandler(web *Web) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if sid := web.Sessions.SessionID(r); sid != "" {
			if _, err := web.Auth.Session(r.Context(), sid); err == nil {
				http.Redirect(w, r, "/admin", http.StatusSeeOther)
				return
			}
		}
		web.Render(w, r, http.StatusOK, "login.html", nil)
	}
}

// LoginHandler – вход администратора через backend
func LoginHandler(web *Web) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.LoginHandler"

		form := forms.LoginForm{
			Email:    r.FormValue("email"),
			Password: r.FormValue("password"),
		}
		logger := web.Log.With(slog.String("op", op), slog.String("email", form.Email))

		if err := form.Validate(); err != nil {
			web.Render(w, r, http.StatusUnprocessableEntity, "login.html", map[string]any{
				"Email": form.Email,
				"Error": UserMessage(err),
			})
			return
		}

		sid, err := web.Sessions.Start(w, r)
		if err != nil {
			logger.Error("failed to start session", slog.Any("error", err))
			http.Error(w, "failed to save session", http.StatusInternalServerError)
			return
		}

		if _, err := web.Auth.Login(r.Context(), sid, form.Email, form.Password); err != nil {
			logger.Warn("login failed", slog.Any("error", err))
			status := http.StatusUnauthorized
			if errors.Is(err, backend.ErrAccessDenied) {
				status = http.StatusForbidden
			}
			web.Render(w, r, status, "login.html", map[string]any{
				"Email": form.Email,
				"Error": UserMessage(err),
			})
			return
		}

		logger.Info("login successful")
		web.Redirect(w, r, "/admin", FlashSuccess, "Welcome back!")
	}
}

func LogoutHandler(web *Web) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.LogoutHandler"

		if sid := web.Sessions.SessionID(r); sid != "" {
			if err := web.Auth.Logout(r.Context(), sid); err != nil {
				web.Log.Error("logout failed", slog.String("op", op), slog.Any("error", err))
			}
		}
		if err := web.Sessions.End(w, r); err != nil {
			web.Log.Error("failed to end session", slog.String("op", op), slog.Any("error", err))
		}
		web.Redirect(w, r, "/login", FlashSuccess, "Logged out successfully!")
	}
}
