package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// OrderResult - ответ на подтверждение или отмену заказа.
// Backend возвращает либо сам заказ, либо конверт {order, user_whatsapp_link}.
type OrderResult struct {
	Order      Order
	NotifyLink string
	Enveloped  bool
}

type orderEnvelope struct {
	Order      json.RawMessage `json:"order"`
	NotifyLink string          `json:"user_whatsapp_link"`
}

// DecodeOrderResult сначала пробует разобрать конверт, затем весь ответ как заказ
func DecodeOrderResult(body []byte) (OrderResult, error) {
	var env orderEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return OrderResult{}, fmt.Errorf("decode order result: %w", err)
	}

	if len(env.Order) > 0 && !bytes.Equal(bytes.TrimSpace(env.Order), []byte("null")) {
		var order Order
		if err := json.Unmarshal(env.Order, &order); err != nil {
			return OrderResult{}, fmt.Errorf("decode enveloped order: %w", err)
		}
		return OrderResult{Order: order, NotifyLink: env.NotifyLink, Enveloped: true}, nil
	}

	var order Order
	if err := json.Unmarshal(body, &order); err != nil {
		return OrderResult{}, fmt.Errorf("decode bare order: %w", err)
	}
	return OrderResult{Order: order}, nil
}

// Notified - покупателю есть куда отправить уведомление
func (r OrderResult) Notified() bool {
	return r.NotifyLink != ""
}
