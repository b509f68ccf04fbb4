package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const apiPrefix = "/api/v1"

var (
	// ErrAccessDenied - backend отклонил вход: учётная запись не администратор (403)
	ErrAccessDenied = errors.New("access denied: admins only")
	// ErrLoginFailed - любая другая ошибка входа
	ErrLoginFailed = errors.New("login failed")
	// ErrUnauthorized - токен отсутствует или больше не принимается (401)
	ErrUnauthorized = errors.New("unauthorized")
)

// APIError - ошибка обращения к backend: не-2xx ответ или сбой транспорта (Status == 0)
type APIError struct {
	Message string
	Status  int
	Err     error
}

func (e *APIError) Error() string {
	if e.Status == 0 && e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Client - единая точка доступа к backend API
type Client struct {
	baseURL string
	http    *http.Client
	log     *slog.Logger
}

// New создаёт клиента; httpClient == nil заменяется клиентом с таймаутом 15 секунд
func New(baseURL string, httpClient *http.Client, log *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    httpClient,
		log:     log,
	}
}

// request описывает один вызов backend
type request struct {
	method      string
	path        string
	token       string
	body        io.Reader
	contentType string
	failMessage string
}

func jsonBody(v any) (io.Reader, error) {
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(v); err != nil {
		return nil, err
	}
	return buf, nil
}

// do выполняет запрос и возвращает тело успешного ответа
func (c *Client) do(ctx context.Context, r request) ([]byte, error) {
	const op = "backend.Client.do"
	logger := c.log.With(slog.String("op", op), slog.String("method", r.method), slog.String("path", r.path))

	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+apiPrefix+r.path, r.body)
	if err != nil {
		return nil, &APIError{Message: r.failMessage, Err: err}
	}
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	req.Header.Set("Accept", "application/json")
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logger.Error("backend request failed", slog.Any("error", err))
		return nil, &APIError{Message: r.failMessage, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Error("failed to read backend response", slog.Any("error", err))
		return nil, &APIError{Message: r.failMessage, Status: resp.StatusCode, Err: err}
	}

	logger.Debug("backend responded", slog.Int("status", resp.StatusCode), slog.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Message: r.failMessage, Status: resp.StatusCode}
		if resp.StatusCode == http.StatusUnauthorized {
			apiErr.Err = ErrUnauthorized
		}
		logger.Warn("backend returned error status", slog.Int("status", resp.StatusCode), slog.String("body", truncate(body, 256)))
		return nil, apiErr
	}
	return body, nil
}

// doJSON выполняет запрос и разбирает JSON-ответ в out
func (c *Client) doJSON(ctx context.Context, r request, out any) error {
	body, err := c.do(ctx, r)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &APIError{Message: r.failMessage, Status: http.StatusOK, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
