package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	_ "github.com/lib/pq"
	"github.com/linemk/shop-admin/internal/app/handlers"
	"github.com/linemk/shop-admin/internal/backend"
	"github.com/linemk/shop-admin/internal/config"
	"github.com/linemk/shop-admin/internal/service"
	"github.com/linemk/shop-admin/internal/storage"
)

type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	DB       *sql.DB // nil для хранилища в памяти
	Sessions storage.TokenStorage

	Auth     *service.AuthService
	Orders   *service.OrderService
	Products *service.ProductService
	Settings *service.SettingsService
	Links    *handlers.PendingLinks
}

// NewApp создаёт новый экземпляр App: хранилище сессий, клиент backend и сервисы
func NewApp(log *slog.Logger, cfg *config.Config) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: log,
	}

	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		db, err := sql.Open("postgres", cfg.Database.DSN())
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		app.DB = db
		app.Sessions = storage.NewSessionRepository(db)
	default:
		app.Sessions = storage.NewMemoryStorage()
	}

	client := backend.New(cfg.Backend.BaseURL, &http.Client{Timeout: cfg.Backend.Timeout}, log)
	app.Links = handlers.NewPendingLinks()
	app.Auth = service.NewAuthService(log, client, app.Sessions, cfg.Session.TTL)
	app.Orders = service.NewOrderService(log, client, app.Links)
	app.Products = service.NewProductService(log, client)
	app.Settings = service.NewSettingsService(log, client)

	app.Auth.Subscribe(func(e service.Event) {
		log.Debug("auth state changed", slog.String("event", string(e.Kind)), slog.String("email", e.Email))
	})

	return app, nil
}

// PurgeSessions периодически удаляет истёкшие сессии, пока ctx не отменён
func (a *App) PurgeSessions(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := a.Auth.PurgeExpired(ctx); err != nil {
				a.Logger.Error("failed to purge sessions", slog.Any("error", err))
			}
		}
	}
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
