package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/linemk/shop-admin/internal/domain/models"
)

func (c *Client) GetAdminProfile(ctx context.Context, token string) (models.AdminProfile, error) {
	var profile models.AdminProfile
	err := c.doJSON(ctx, request{
		method:      http.MethodGet,
		path:        "/admin/profile",
		token:       token,
		failMessage: "Failed to fetch profile",
	}, &profile)
	return profile, err
}

// UpdateAdminSettings отправляет частичный профиль JSON-ом; пустой пароль не отправляется
func (c *Client) UpdateAdminSettings(ctx context.Context, token string, update models.SettingsUpdate) (models.AdminProfile, error) {
	body, err := jsonBody(update)
	if err != nil {
		return models.AdminProfile{}, fmt.Errorf("encode settings: %w", err)
	}
	var profile models.AdminProfile
	err = c.doJSON(ctx, request{
		method:      http.MethodPut,
		path:        "/admin/settings",
		token:       token,
		body:        body,
		contentType: "application/json",
		failMessage: "Failed to update settings",
	}, &profile)
	return profile, err
}

// GetAnalytics - сводные показатели для главной страницы
func (c *Client) GetAnalytics(ctx context.Context, token string) (models.Analytics, error) {
	var analytics models.Analytics
	err := c.doJSON(ctx, request{
		method:      http.MethodGet,
		path:        "/admin/analytics",
		token:       token,
		failMessage: "Failed to load analytics data",
	}, &analytics)
	return analytics, err
}
