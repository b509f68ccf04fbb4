package cli_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/linemk/shop-admin/internal/cli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	mu        sync.Mutex
	status    string
	revoked   bool
	cancelled int
	deleted   []string
}

func (f *fakeBackend) order() map[string]any {
	return map[string]any{
		"id":               7,
		"customer_name":    "Maria Silva",
		"customer_phone":   "+5581988",
		"customer_address": "Rua A 10",
		"items_summary":    "Scarf, Hat",
		"total_price":      40,
		"status":           f.status,
		"created_at":       "2024-06-02T09:00:00",
	}
}

func (f *fakeBackend) handler() http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			f.mu.Lock()
			revoked := f.revoked
			f.mu.Unlock()
			if req.URL.Path != "/api/v1/auth/admin/login" &&
				(revoked || req.Header.Get("Authorization") != "Bearer cli-token") {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, req)
		})
	})
	r.Post("/api/v1/auth/admin/login", func(w http.ResponseWriter, req *http.Request) {
		if req.FormValue("password") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeJSON(w, map[string]string{"access_token": "cli-token"})
	})
	r.Get("/api/v1/admin/orders", func(w http.ResponseWriter, req *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, []map[string]any{f.order()})
	})
	r.Put("/api/v1/admin/orders/{id}/status", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Status string `json:"status"`
		}
		_ = json.NewDecoder(req.Body).Decode(&body)
		f.mu.Lock()
		defer f.mu.Unlock()
		f.status = body.Status
		writeJSON(w, f.order())
	})
	r.Post("/api/v1/admin/orders/{id}/approve", func(w http.ResponseWriter, req *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.status = "processing"
		writeJSON(w, map[string]any{"order": f.order(), "user_whatsapp_link": "https://wa.me/5581988?text=ok"})
	})
	r.HandleFunc("/api/v1/admin/orders/{id}/cancel", func(w http.ResponseWriter, req *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.cancelled++
		f.status = "cancelled"
		writeJSON(w, f.order())
	})
	r.Get("/api/v1/store/products", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, []map[string]any{{"id": 3, "name": "Scarf", "price": 12.5, "category": "Knit", "image_url": "https://img/1.jpg"}})
	})
	r.Delete("/api/v1/admin/products/{id}", func(w http.ResponseWriter, req *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.deleted = append(f.deleted, chi.URLParam(req, "id"))
		w.WriteHeader(http.StatusNoContent)
	})
	r.Get("/api/v1/admin/profile", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, map[string]any{"id": 1, "email": "admin@shop.test", "full_name": "Ops", "role": "admin"})
	})
	return r
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

type harness struct {
	t         *testing.T
	api       string
	tokenFile string
}

func newHarness(t *testing.T, f *fakeBackend) *harness {
	t.Helper()
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)
	return &harness{t: t, api: srv.URL, tokenFile: filepath.Join(t.TempDir(), "token.json")}
}

// run выполняет команду adminctl и возвращает stdout
func (h *harness) run(stdin string, args ...string) (string, error) {
	h.t.Helper()
	var out, errOut bytes.Buffer
	cmd := cli.NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--api", h.api, "--token-file", h.tokenFile}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func (h *harness) login() {
	h.t.Helper()
	out, err := h.run("", "login", "--email", "admin@shop.test", "--password", "secret")
	require.NoError(h.t, err)
	require.Contains(h.t, out, "Logged in as admin@shop.test")
}

func TestLogin_StoresTokenUnderFixedKey(t *testing.T) {
	h := newHarness(t, &fakeBackend{status: "pending"})
	h.login()

	data, err := os.ReadFile(h.tokenFile)
	require.NoError(t, err)
	var entries map[string]map[string]any
	require.NoError(t, json.Unmarshal(data, &entries))
	require.Contains(t, entries, "fh_auth_token")
	assert.Equal(t, "cli-token", entries["fh_auth_token"]["token"])

	out, err := h.run("", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out")

	_, err = h.run("", "orders", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not logged in")
}

func TestLogin_PromptsForPassword(t *testing.T) {
	h := newHarness(t, &fakeBackend{status: "pending"})

	out, err := h.run("secret\n", "login", "--email", "admin@shop.test")
	require.NoError(t, err)
	assert.Contains(t, out, "Password: ")
	assert.Contains(t, out, "Logged in as admin@shop.test")
}

func TestLogin_InvalidEmail(t *testing.T) {
	h := newHarness(t, &fakeBackend{status: "pending"})

	_, err := h.run("", "login", "--email", "not-an-email", "--password", "secret")
	require.Error(t, err)
	assert.Equal(t, "Please enter a valid email address", err.Error())
}

func TestLogin_WrongPassword(t *testing.T) {
	h := newHarness(t, &fakeBackend{status: "pending"})

	_, err := h.run("", "login", "--email", "admin@shop.test", "--password", "nope")
	require.Error(t, err)
	assert.Equal(t, "Login failed", err.Error())
	assert.NoFileExists(t, h.tokenFile)
}

func TestOrdersList_Filter(t *testing.T) {
	h := newHarness(t, &fakeBackend{status: "pending"})
	h.login()

	out, err := h.run("", "orders", "list", "--q", "maria")
	require.NoError(t, err)
	assert.Contains(t, out, "Maria Silva")
	assert.Contains(t, out, "2024-06-02")
	assert.Contains(t, out, "Pending")

	out, err = h.run("", "orders", "list", "--q", "nobody")
	require.NoError(t, err)
	assert.Contains(t, out, `No orders match "nobody"`)
}

func TestOrdersApprove_PrintsNotificationLink(t *testing.T) {
	h := newHarness(t, &fakeBackend{status: "pending"})
	h.login()

	out, err := h.run("", "orders", "approve", "7", "--weight", "1.5")
	require.NoError(t, err)
	assert.Contains(t, out, "Customer notification: https://wa.me/5581988?text=ok")
	assert.Contains(t, out, "Order #7 approved.")

	// повторное подтверждение недоступно: заказ уже processing
	_, err = h.run("", "orders", "approve", "7", "--weight", "1.5")
	require.Error(t, err)
}

func TestOrdersApprove_InvalidWeight(t *testing.T) {
	h := newHarness(t, &fakeBackend{status: "pending"})
	h.login()

	_, err := h.run("", "orders", "approve", "7", "--weight", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Weight must be greater than zero")
}

func TestOrdersCancel_Confirmation(t *testing.T) {
	f := &fakeBackend{status: "shipped"}
	h := newHarness(t, f)
	h.login()

	out, err := h.run("n\n", "orders", "cancel", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "Cancel order #7? [y/N]")
	assert.Contains(t, out, "Aborted")
	assert.Equal(t, 0, f.cancelled)

	out, err = h.run("y\n", "orders", "cancel", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "Order #7 cancelled. No customer notification was sent.")
	assert.Equal(t, 1, f.cancelled)
}

func TestOrdersCancel_Yes(t *testing.T) {
	f := &fakeBackend{status: "pending"}
	h := newHarness(t, f)
	h.login()

	out, err := h.run("", "orders", "cancel", "7", "--yes")
	require.NoError(t, err)
	assert.NotContains(t, out, "[y/N]")
	assert.Equal(t, 1, f.cancelled)
}

func TestOrdersStatus(t *testing.T) {
	h := newHarness(t, &fakeBackend{status: "processing"})
	h.login()

	out, err := h.run("", "orders", "status", "7", "Shipped")
	require.NoError(t, err)
	assert.Contains(t, out, "Order #7 is now Shipped")

	_, err = h.run("", "orders", "status", "7", "lost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown order status")
}

func TestRevokedToken_LogsOut(t *testing.T) {
	f := &fakeBackend{status: "pending"}
	h := newHarness(t, f)
	h.login()

	f.mu.Lock()
	f.revoked = true
	f.mu.Unlock()

	_, err := h.run("", "orders", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session expired")

	_, err = h.run("", "profile")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not logged in")
}

func TestProductsAndProfile(t *testing.T) {
	f := &fakeBackend{status: "pending"}
	h := newHarness(t, f)
	h.login()

	out, err := h.run("", "products", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Scarf")
	assert.Contains(t, out, "12.50")

	out, err = h.run("", "products", "delete", "3", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Product #3 deleted")
	assert.Equal(t, []string{"3"}, f.deleted)

	_, err = h.run("", "products", "delete", "abc", "--yes")
	require.Error(t, err)

	out, err = h.run("", "profile")
	require.NoError(t, err)
	assert.Contains(t, out, "admin@shop.test")
	assert.Contains(t, out, "admin")
}
