package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"

	"github.com/linemk/shop-admin/internal/domain/models"
)

// GetProducts возвращает каталог (публичный эндпоинт магазина)
func (c *Client) GetProducts(ctx context.Context, token string) ([]models.Product, error) {
	var products []models.Product
	if err := c.doJSON(ctx, request{
		method:      http.MethodGet,
		path:        "/store/products",
		token:       token,
		failMessage: "Failed to fetch products",
	}, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// CreateProduct создаёт товар из multipart-формы
func (c *Client) CreateProduct(ctx context.Context, token string, in models.ProductInput) (models.Product, error) {
	body, contentType, err := encodeProduct(in)
	if err != nil {
		return models.Product{}, err
	}
	var product models.Product
	err = c.doJSON(ctx, request{
		method:      http.MethodPost,
		path:        "/admin/products",
		token:       token,
		body:        body,
		contentType: contentType,
		failMessage: "Failed to create product",
	}, &product)
	return product, err
}

// UpdateProduct обновляет товар; объединение existing_gallery с новыми файлами делает backend
func (c *Client) UpdateProduct(ctx context.Context, token string, productID int64, in models.ProductInput) (models.Product, error) {
	body, contentType, err := encodeProduct(in)
	if err != nil {
		return models.Product{}, err
	}
	var product models.Product
	err = c.doJSON(ctx, request{
		method:      http.MethodPut,
		path:        fmt.Sprintf("/admin/products/%d", productID),
		token:       token,
		body:        body,
		contentType: contentType,
		failMessage: "Failed to update product",
	}, &product)
	return product, err
}

// DeleteProduct удаляет товар
func (c *Client) DeleteProduct(ctx context.Context, token string, productID int64) error {
	return c.doJSON(ctx, request{
		method:      http.MethodDelete,
		path:        fmt.Sprintf("/admin/products/%d", productID),
		token:       token,
		failMessage: "Failed to delete product",
	}, nil)
}

// encodeProduct собирает multipart-тело: поля формы, existing_gallery (если задан) и файлы "files"
func encodeProduct(in models.ProductInput) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	fields := [][2]string{
		{"name", in.Name},
		{"price", strconv.FormatFloat(in.Price, 'f', -1, 64)},
		{"category", in.Category},
		{"description", in.Description},
	}
	if in.ExistingGallery != nil {
		gallery, err := json.Marshal(*in.ExistingGallery)
		if err != nil {
			return nil, "", fmt.Errorf("encode existing gallery: %w", err)
		}
		fields = append(fields, [2]string{"existing_gallery", string(gallery)})
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", f[0], err)
		}
	}

	for _, file := range in.Files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename=%q`, file.Filename))
		ct := file.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("create file part: %w", err)
		}
		if _, err := part.Write(file.Data); err != nil {
			return nil, "", fmt.Errorf("write file part: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return buf, w.FormDataContentType(), nil
}
