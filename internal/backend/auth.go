package backend

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

// Login - вход администратора. Форма x-www-form-urlencoded с полями username и password.
// 403 означает, что учётная запись не является администратором.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	const op = "backend.Client.Login"
	logger := c.log.With(slog.String("op", op), slog.String("email", email))

	values := url.Values{}
	values.Set("username", email)
	values.Set("password", password)

	var out loginResponse
	err := c.doJSON(ctx, request{
		method:      http.MethodPost,
		path:        "/auth/admin/login",
		body:        strings.NewReader(values.Encode()),
		contentType: "application/x-www-form-urlencoded",
		failMessage: "Login failed",
	}, &out)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			if apiErr.Status == http.StatusForbidden {
				logger.Warn("non-admin login attempt")
				return "", &APIError{Message: "Access Denied: Admins Only", Status: http.StatusForbidden, Err: ErrAccessDenied}
			}
			return "", &APIError{Message: "Login failed", Status: apiErr.Status, Err: errors.Join(ErrLoginFailed, apiErr.Err)}
		}
		return "", err
	}
	if out.AccessToken == "" {
		return "", &APIError{Message: "Login failed", Status: http.StatusOK, Err: ErrLoginFailed}
	}

	logger.Info("admin logged in")
	return out.AccessToken, nil
}
