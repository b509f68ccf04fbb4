package backend

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/linemk/shop-admin/internal/domain/models"
)

// GetOrders возвращает все заказы
func (c *Client) GetOrders(ctx context.Context, token string) ([]models.Order, error) {
	var orders []models.Order
	if err := c.doJSON(ctx, request{
		method:      http.MethodGet,
		path:        "/admin/orders",
		token:       token,
		failMessage: "Failed to fetch orders",
	}, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

type statusRequest struct {
	Status models.Status `json:"status"`
}

// UpdateOrderStatus - ручная смена статуса, возвращает обновлённый заказ
func (c *Client) UpdateOrderStatus(ctx context.Context, token string, orderID int64, status models.Status) (models.Order, error) {
	body, err := jsonBody(statusRequest{Status: status})
	if err != nil {
		return models.Order{}, fmt.Errorf("encode status: %w", err)
	}
	var order models.Order
	err = c.doJSON(ctx, request{
		method:      http.MethodPut,
		path:        fmt.Sprintf("/admin/orders/%d/status", orderID),
		token:       token,
		body:        body,
		contentType: "application/json",
		failMessage: "Failed to update status",
	}, &order)
	return order, err
}

// ApproveOrder подтверждает заказ и создаёт отправку с указанным весом (кг)
func (c *Client) ApproveOrder(ctx context.Context, token string, orderID int64, weight float64) (models.OrderResult, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	if err := w.WriteField("weight", strconv.FormatFloat(weight, 'f', -1, 64)); err != nil {
		return models.OrderResult{}, fmt.Errorf("write weight field: %w", err)
	}
	if err := w.Close(); err != nil {
		return models.OrderResult{}, fmt.Errorf("close multipart writer: %w", err)
	}

	body, err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        fmt.Sprintf("/admin/orders/%d/approve", orderID),
		token:       token,
		body:        buf,
		contentType: w.FormDataContentType(),
		failMessage: "Failed to approve order",
	})
	if err != nil {
		return models.OrderResult{}, err
	}
	return decodeResult(body, "Failed to approve order")
}

// CancelOrder отменяет заказ; backend может отменить и уже созданную отправку
func (c *Client) CancelOrder(ctx context.Context, token string, orderID int64) (models.OrderResult, error) {
	body, err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        fmt.Sprintf("/admin/orders/%d/cancel", orderID),
		token:       token,
		failMessage: "Failed to cancel order",
	})
	if err != nil {
		return models.OrderResult{}, err
	}
	return decodeResult(body, "Failed to cancel order")
}

func decodeResult(body []byte, failMessage string) (models.OrderResult, error) {
	res, err := models.DecodeOrderResult(body)
	if err != nil {
		return models.OrderResult{}, &APIError{Message: failMessage, Status: http.StatusOK, Err: err}
	}
	return res, nil
}
