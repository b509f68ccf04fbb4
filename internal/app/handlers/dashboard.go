package handlers

import (
	"log/slog"
	"net/http"
)

// DashboardHandler – главная страница с аналитикой
func DashboardHandler(web *Web, settings SettingsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.DashboardHandler"

		analytics, err := settings.Analytics(r.Context(), principal(r).Token)
		if err != nil {
			if web.Expired(w, r, err) {
				return
			}
			web.Log.Error("failed to load analytics", slog.String("op", op), slog.Any("error", err))
			web.Render(w, r, http.StatusBadGateway, "dashboard.html", map[string]any{"Error": UserMessage(err)})
			return
		}
		web.Render(w, r, http.StatusOK, "dashboard.html", map[string]any{"Analytics": analytics})
	}
}
