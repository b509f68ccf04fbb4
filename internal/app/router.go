package app

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
	"github.com/linemk/shop-admin/internal/app/handlers"
	"github.com/linemk/shop-admin/internal/app/web"
	"github.com/linemk/shop-admin/internal/lib/logger/handlers/urllog"
	"github.com/linemk/shop-admin/internal/security/authmiddleware"
)

// RouterDeps - всё, что нужно для сборки HTTP-интерфейса
type RouterDeps struct {
	Log          *slog.Logger
	SessionStore sessions.Store
	CSRFKey      []byte
	CookieSecure bool

	Auth     handlers.AuthService
	Orders   handlers.OrderService
	Products handlers.ProductService
	Settings handlers.SettingsService
	Links    *handlers.PendingLinks
}

// NewRouter собирает chi-роутер панели
func NewRouter(deps RouterDeps) (http.Handler, error) {
	templates := handlers.NewTemplateCache()
	if err := templates.Load(web.Templates, "templates"); err != nil {
		return nil, err
	}
	static, err := fs.Sub(web.Static, "static")
	if err != nil {
		return nil, err
	}

	sess := handlers.NewSessions(deps.SessionStore)
	w := &handlers.Web{
		Log:       deps.Log,
		Sessions:  sess,
		Templates: templates,
		Auth:      deps.Auth,
	}

	CSRF := csrf.Protect(
		deps.CSRFKey,
		csrf.Secure(deps.CookieSecure),
		csrf.Path("/"),
		csrf.ErrorHandler(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			deps.Log.Warn("csrf check failed", slog.String("path", r.URL.Path), slog.Any("error", csrf.FailureReason(r)))
			http.Error(rw, "Forbidden - invalid CSRF token", http.StatusForbidden)
		})),
	)

	router := chi.NewRouter()
	// настройка middleware
	router.Use(middleware.RequestID)
	router.Use(urllog.CustomLoggerMiddleware(deps.Log))
	router.Use(middleware.Recoverer)
	router.Use(handlers.SecurityHeadersMiddleware)

	router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	router.Group(func(r chi.Router) {
		r.Use(CSRF)

		r.Get("/", func(rw http.ResponseWriter, req *http.Request) {
			http.Redirect(rw, req, "/admin", http.StatusSeeOther)
		})
		r.Get("/login", handlers.LoginPageHandler(w))
		r.Post("/login", handlers.LoginHandler(w))
		r.Post("/logout", handlers.LogoutHandler(w))

		r.Route("/admin", func(r chi.Router) {
			r.Use(authmiddleware.New(deps.Log, sess, deps.Auth, w.Denied))

			r.Get("/", handlers.DashboardHandler(w, deps.Settings))

			r.Get("/orders", handlers.OrdersHandler(w, deps.Orders, deps.Links))
			r.Post("/orders/{id}/status", handlers.OrderStatusHandler(w, deps.Orders))
			r.Get("/orders/{id}/approve", handlers.ApprovePageHandler(w, deps.Orders))
			r.Post("/orders/{id}/approve", handlers.ApproveHandler(w, deps.Orders))
			r.Get("/orders/{id}/cancel", handlers.CancelPageHandler(w, deps.Orders))
			r.Post("/orders/{id}/cancel", handlers.CancelHandler(w, deps.Orders))

			r.Get("/products", handlers.ProductsHandler(w, deps.Products))
			r.Get("/products/new", handlers.NewProductPageHandler(w))
			r.Post("/products/new", handlers.CreateProductHandler(w, deps.Products))
			r.Get("/products/{id}/edit", handlers.EditProductPageHandler(w, deps.Products))
			r.Post("/products/{id}/edit", handlers.UpdateProductHandler(w, deps.Products))
			r.Post("/products/{id}/delete", handlers.DeleteProductHandler(w, deps.Products))

			r.Get("/settings", handlers.SettingsPageHandler(w, deps.Settings))
			r.Post("/settings", handlers.SaveSettingsHandler(w, deps.Settings))
		})
	})

	return router, nil
}

// Router собирает роутер из сервисов приложения
func (a *App) Router() (http.Handler, error) {
	return NewRouter(RouterDeps{
		Log:          a.Logger,
		SessionStore: handlers.NewCookieStore([]byte(a.Config.Session.Key), a.Config.Session.CookieSecure),
		CSRFKey:      []byte(a.Config.Session.CSRFKey),
		CookieSecure: a.Config.Session.CookieSecure,
		Auth:         a.Auth,
		Orders:       a.Orders,
		Products:     a.Products,
		Settings:     a.Settings,
		Links:        a.Links,
	})
}
