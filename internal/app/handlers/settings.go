package handlers

import (
	"log/slog"
	"net/http"

	"github.com/linemk/shop-admin/internal/forms"
)

const settingsPath = "/admin/settings"

func SettingsPageHandler(web *Web, settings SettingsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.SettingsPageHandler"

		profile, form, err := settings.Load(r.Context(), principal(r).Token)
		if err != nil {
			if web.Expired(w, r, err) {
				return
			}
			web.Log.Error("failed to load settings", slog.String("op", op), slog.Any("error", err))
			web.Render(w, r, http.StatusBadGateway, "settings.html", map[string]any{
				"Form":  forms.SettingsForm{},
				"Error": UserMessage(err),
			})
			return
		}
		web.Render(w, r, http.StatusOK, "settings.html", map[string]any{"Profile": profile, "Form": form})
	}
}

// SaveSettingsHandler – сохранение профиля; ошибки проверки показываются в форме
func SaveSettingsHandler(web *Web, settings SettingsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.SaveSettingsHandler"

		form := forms.SettingsForm{
			Email:           r.FormValue("email"),
			FullName:        r.FormValue("full_name"),
			WhatsAppNumber:  r.FormValue("whatsapp_number"),
			Password:        r.FormValue("password"),
			ConfirmPassword: r.FormValue("confirm_password"),
		}

		profile, err := settings.Save(r.Context(), principal(r).Token, form)
		if err != nil {
			if web.Expired(w, r, err) {
				return
			}
			status := http.StatusBadGateway
			data := map[string]any{"Form": form}
			if forms.IsValidation(err) {
				status = http.StatusUnprocessableEntity
				data["FieldError"] = UserMessage(err)
			} else {
				web.Log.Error("failed to save settings", slog.String("op", op), slog.Any("error", err))
				data["Error"] = UserMessage(err)
			}
			web.Render(w, r, status, "settings.html", data)
			return
		}

		web.Log.Info("settings saved", slog.String("op", op), slog.String("email", profile.Email))
		web.Redirect(w, r, settingsPath, FlashSuccess, "Settings saved.")
	}
}
