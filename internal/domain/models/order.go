package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Status - статус заказа в жизненном цикле
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// Statuses перечисляет статусы в порядке жизненного цикла (для выпадающего списка)
var Statuses = []Status{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled}

// ParseStatus разбирает статус, пришедший из формы или командной строки
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Statuses {
		if st == known {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

// Label - статус с заглавной буквы для отображения
func (s Status) Label() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// IsTerminal - для delivered и cancelled никакие действия не отображаются
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanApprove - подтверждение (с созданием отправки) доступно только для pending
func (s Status) CanApprove() bool {
	return s == StatusPending
}

// CanCancel - отмена доступна для pending, processing и shipped
func (s Status) CanCancel() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped:
		return true
	}
	return false
}

// CanSetStatus - ручная смена статуса через выпадающий список.
// Переход не ограничен, но из терминального статуса клиент ничего не меняет.
func (s Status) CanSetStatus(next Status) bool {
	if s.IsTerminal() || s == next {
		return false
	}
	for _, known := range Statuses {
		if next == known {
			return true
		}
	}
	return false
}

// Action - действие, доступное над заказом в интерфейсе
type Action string

const (
	ActionApprove   Action = "approve"
	ActionCancel    Action = "cancel"
	ActionSetStatus Action = "set_status"
)

// Actions возвращает набор действий, которые нужно отрисовать для статуса
func (s Status) Actions() []Action {
	if s.IsTerminal() {
		return nil
	}
	var actions []Action
	if s.CanApprove() {
		actions = append(actions, ActionApprove)
	}
	if s.CanCancel() {
		actions = append(actions, ActionCancel)
	}
	return append(actions, ActionSetStatus)
}

// Order представляет заказ покупателя, как его отдаёт backend
type Order struct {
	ID              int64     `json:"id"`
	CustomerName    string    `json:"customer_name"`
	CustomerPhone   string    `json:"customer_phone"`
	CustomerAddress Address   `json:"customer_address"`
	ItemsSummary    string    `json:"items_summary"` // перечисление товаров через запятую
	TotalPrice      float64   `json:"total_price"`
	ReceiptURL      string    `json:"receipt_url,omitempty"` // чек об оплате, может отсутствовать
	Status          Status    `json:"status"`
	CreatedAt       Timestamp `json:"created_at"`
}

// Items разбивает сводку товаров на отдельные позиции
func (o Order) Items() []string {
	var items []string
	for _, part := range strings.Split(o.ItemsSummary, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}

// Address - адрес доставки. На проводе это строка с JSON внутри;
// если JSON не разбирается, адрес остаётся в запасном состоянии и выводится как есть.
type Address struct {
	Street     string `json:"street"`
	LocalArea  string `json:"local_area"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Province   string `json:"province"`

	Raw        string `json:"-"`
	Structured bool   `json:"-"`
}

type addressFields struct {
	Street     string `json:"street"`
	LocalArea  string `json:"local_area"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Province   string `json:"province"`
}

// ParseAddress разбирает строковое представление адреса
func ParseAddress(raw string) Address {
	addr := Address{Raw: raw}
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "{") {
		return addr
	}
	var f addressFields
	if err := json.Unmarshal([]byte(trimmed), &f); err != nil {
		return addr
	}
	addr.Street, addr.LocalArea, addr.City = f.Street, f.LocalArea, f.City
	addr.PostalCode, addr.Province = f.PostalCode, f.Province
	addr.Structured = true
	return addr
}

// UnmarshalJSON принимает строку (основной формат), объект или null
func (a *Address) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*a = Address{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = ParseAddress(s)
		return nil
	}
	// некоторые версии backend отдают адрес сразу объектом
	*a = ParseAddress(string(data))
	if !a.Structured {
		return fmt.Errorf("invalid customer_address: %s", data)
	}
	return nil
}

// MarshalJSON возвращает адрес в исходном строковом виде
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Raw)
}

// String - строка для отображения
func (a Address) String() string {
	if !a.Structured {
		return a.Raw
	}
	var parts []string
	for _, p := range []string{a.Street, a.LocalArea, a.City, a.Province, a.PostalCode} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// Timestamp - время создания заказа; backend не всегда указывает часовой пояс
type Timestamp struct {
	time.Time
	Raw string
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid timestamp: %w", err)
	}
	t.Raw = s
	t.Time = time.Time{}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			break
		}
	}
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.Raw != "" {
		return json.Marshal(t.Raw)
	}
	return json.Marshal(t.Time.Format(time.RFC3339))
}

// Date - дата для таблицы заказов
func (t Timestamp) Date() string {
	if t.Time.IsZero() {
		return t.Raw
	}
	return t.Time.Format("2006-01-02")
}

// FilterOrders фильтрует заказы по строке поиска: имя без учёта регистра,
// номер заказа и телефон как подстрока. Пустой запрос возвращает всё.
func FilterOrders(orders []Order, query string) []Order {
	q := strings.TrimSpace(query)
	if q == "" {
		return orders
	}
	lower := strings.ToLower(q)
	filtered := make([]Order, 0, len(orders))
	for _, o := range orders {
		if strings.Contains(strings.ToLower(o.CustomerName), lower) ||
			strings.Contains(strconv.FormatInt(o.ID, 10), q) ||
			strings.Contains(o.CustomerPhone, q) {
			filtered = append(filtered, o)
		}
	}
	return filtered
}

// ReplaceOrder заменяет заказ с тем же id, остальные остаются как есть
func ReplaceOrder(orders []Order, updated Order) []Order {
	out := make([]Order, len(orders))
	for i, o := range orders {
		if o.ID == updated.ID {
			out[i] = updated
			continue
		}
		out[i] = o
	}
	return out
}
