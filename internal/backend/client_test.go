package backend_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/linemk/shop-admin/internal/backend"
	"github.com/linemk/shop-admin/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T, h http.HandlerFunc) *backend.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	return backend.New(srv.URL, srv.Client(), logger)
}

func TestLogin_Success(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/auth/admin/login", r.URL.Path)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "admin@shop.test", r.PostForm.Get("username"))
		assert.Equal(t, "secret1", r.PostForm.Get("password"))
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"access_token":"tok-123","token_type":"bearer"}`)
	})

	token, err := client.Login(context.Background(), "admin@shop.test", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)
}

func TestLogin_AccessDenied(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"not an admin"}`, http.StatusForbidden)
	})

	_, err := client.Login(context.Background(), "user@shop.test", "secret1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, backend.ErrAccessDenied))
	assert.False(t, errors.Is(err, backend.ErrLoginFailed))

	var apiErr *backend.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Access Denied: Admins Only", apiErr.Message)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
}

func TestLogin_GenericFailure(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.Login(context.Background(), "admin@shop.test", "wrong")
	require.Error(t, err)
	assert.True(t, errors.Is(err, backend.ErrLoginFailed))
	assert.False(t, errors.Is(err, backend.ErrAccessDenied))

	var apiErr *backend.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Login failed", apiErr.Message)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
}

// сценарий: после входа запрос заказов несёт Authorization: Bearer <token>
func TestLoginThenGetOrders_AttachesBearer(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/auth/admin/login":
			_, _ = io.WriteString(w, `{"access_token":"tok-abc"}`)
		case "/api/v1/admin/orders":
			if r.Header.Get("Authorization") != "Bearer tok-abc" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_, _ = io.WriteString(w, `[{"id":1,"customer_name":"Mona","status":"pending","customer_address":"Cairo"}]`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	token, err := client.Login(context.Background(), "admin@shop.test", "secret1")
	require.NoError(t, err)

	orders, err := client.GetOrders(context.Background(), token)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "Mona", orders[0].CustomerName)
	assert.Equal(t, "Cairo", orders[0].CustomerAddress.String())
}

func TestGetOrders_Unauthorized(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.GetOrders(context.Background(), "expired")
	require.Error(t, err)
	assert.True(t, errors.Is(err, backend.ErrUnauthorized))

	var apiErr *backend.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Failed to fetch orders", apiErr.Message)
}

func TestGetOrders_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := backend.New(url, nil, slog.New(slog.NewTextHandler(os.Stdout, nil)))
	_, err := client.GetOrders(context.Background(), "tok")
	require.Error(t, err)

	var apiErr *backend.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 0, apiErr.Status)
}

func TestUpdateOrderStatus(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/v1/admin/orders/42/status", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "processing", body["status"])
		_, _ = io.WriteString(w, `{"id":42,"status":"processing"}`)
	})

	order, err := client.UpdateOrderStatus(context.Background(), "tok", 42, models.StatusProcessing)
	require.NoError(t, err)
	assert.Equal(t, models.StatusProcessing, order.Status)
}

func TestApproveOrder_MultipartWeightAndEnvelope(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/admin/orders/7/approve", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "2.5", r.FormValue("weight"))
		_, _ = io.WriteString(w, `{"order":{"id":7,"status":"shipped"},"user_whatsapp_link":"https://wa.me/1"}`)
	})

	res, err := client.ApproveOrder(context.Background(), "tok", 7, 2.5)
	require.NoError(t, err)
	assert.True(t, res.Enveloped)
	assert.Equal(t, models.StatusShipped, res.Order.Status)
	assert.Equal(t, "https://wa.me/1", res.NotifyLink)
}

func TestCancelOrder_BareOrder(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/admin/orders/8/cancel", r.URL.Path)
		_, _ = io.WriteString(w, `{"id":8,"status":"cancelled"}`)
	})

	res, err := client.CancelOrder(context.Background(), "tok", 8)
	require.NoError(t, err)
	assert.False(t, res.Enveloped)
	assert.Equal(t, int64(8), res.Order.ID)
	assert.Equal(t, models.StatusCancelled, res.Order.Status)
}

func TestUpdateProduct_ExistingGalleryAndFiles(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/v1/admin/products/3", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Scarf", r.FormValue("name"))
		assert.Equal(t, "199.99", r.FormValue("price"))

		var gallery []string
		require.NoError(t, json.Unmarshal([]byte(r.FormValue("existing_gallery")), &gallery))
		assert.Equal(t, []string{"a.jpg"}, gallery)

		files := r.MultipartForm.File["files"]
		require.Len(t, files, 1)
		assert.Equal(t, "new.png", files[0].Filename)
		_, _ = io.WriteString(w, `{"id":3,"name":"Scarf","price":199.99}`)
	})

	gallery := []string{"a.jpg"}
	product, err := client.UpdateProduct(context.Background(), "tok", 3, models.ProductInput{
		Name:            "Scarf",
		Price:           199.99,
		Category:        "Accessories",
		ExistingGallery: &gallery,
		Files:           []models.FileUpload{{Filename: "new.png", ContentType: "image/png", Data: []byte("png")}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), product.ID)
}

func TestCreateProduct_NoExistingGallery(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, sent := r.MultipartForm.Value["existing_gallery"]
		assert.False(t, sent)
		assert.Empty(t, r.MultipartForm.File["files"])
		_, _ = io.WriteString(w, `{"id":11,"name":"Hat"}`)
	})

	product, err := client.CreateProduct(context.Background(), "tok", models.ProductInput{Name: "Hat", Price: 10, Category: "Hats"})
	require.NoError(t, err)
	assert.Equal(t, int64(11), product.ID)
}

func TestDeleteProduct_Error(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNotFound)
	})

	err := client.DeleteProduct(context.Background(), "tok", 99)
	var apiErr *backend.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Failed to delete product", apiErr.Message)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}

func TestUpdateAdminSettings_OmitsBlankPassword(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, hasPassword := body["password"]
		assert.False(t, hasPassword)
		assert.Equal(t, "admin@shop.test", body["email"])
		_, _ = io.WriteString(w, `{"id":1,"email":"admin@shop.test","role":"admin"}`)
	})

	profile, err := client.UpdateAdminSettings(context.Background(), "tok", models.SettingsUpdate{Email: "admin@shop.test"})
	require.NoError(t, err)
	assert.Equal(t, "admin", profile.Role)
}
