package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/linemk/shop-admin/internal/domain/models"
	"github.com/linemk/shop-admin/internal/forms"
)

var (
	// ErrTransitionNotAllowed - действие недоступно для текущего статуса заказа
	ErrTransitionNotAllowed = errors.New("action not allowed for current order status")
	// ErrOrderBusy - в этом представлении уже выполняется изменение другого заказа
	ErrOrderBusy = errors.New("another order is being updated")
	// ErrConfirmationRequired - отмена заказа не подтверждена
	ErrConfirmationRequired = errors.New("cancellation must be confirmed")
	ErrOrderNotFound        = errors.New("order not found")
	ErrProductNotFound      = errors.New("product not found")
)

// OrderGateway - операции backend над заказами
type OrderGateway interface {
	GetOrders(ctx context.Context, token string) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, token string, orderID int64, status models.Status) (models.Order, error)
	ApproveOrder(ctx context.Context, token string, orderID int64, weight float64) (models.OrderResult, error)
	CancelOrder(ctx context.Context, token string, orderID int64) (models.OrderResult, error)
}

// LinkOpener открывает ссылку уведомления покупателя. Ошибка открытия не ломает операцию.
type LinkOpener interface {
	Open(ctx context.Context, view, link string) error
}

// OrderList - загруженные заказы и результат фильтрации по строке поиска
type OrderList struct {
	Orders   []models.Order
	Filtered []models.Order
	Query    string
}

// Empty - нечего показывать (пустое состояние)
func (l OrderList) Empty() bool {
	return len(l.Filtered) == 0
}

// ActionResult - итог подтверждения или отмены
type ActionResult struct {
	Order    models.Order
	Orders   []models.Order // список с заменённым заказом
	Link     string
	Notified bool
}

// InFlight хранит не более одного изменяемого заказа на представление.
// Это подсказка для интерфейса, а не блокировка на стороне backend.
type InFlight struct {
	mu   sync.Mutex
	busy map[string]int64
}

func NewInFlight() *InFlight {
	return &InFlight{busy: make(map[string]int64)}
}

// Acquire занимает представление под заказ; false если там уже что-то выполняется
func (f *InFlight) Acquire(view string, orderID int64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.busy[view]; ok {
		return false
	}
	f.busy[view] = orderID
	return true
}

func (f *InFlight) Release(view string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.busy, view)
}

// Updating возвращает id заказа, который сейчас изменяется в представлении
func (f *InFlight) Updating(view string) (int64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.busy[view]
	return id, ok
}

type OrderService struct {
	log      *slog.Logger
	gateway  OrderGateway
	opener   LinkOpener
	inFlight *InFlight
}

func NewOrderService(log *slog.Logger, gateway OrderGateway, opener LinkOpener) *OrderService {
	return &OrderService{
		log:      log,
		gateway:  gateway,
		opener:   opener,
		inFlight: NewInFlight(),
	}
}

// Updating - см. InFlight.Updating
func (s *OrderService) Updating(view string) (int64, bool) {
	return s.inFlight.Updating(view)
}

// List загружает все заказы и фильтрует их по запросу
func (s *OrderService) List(ctx context.Context, token, query string) (OrderList, error) {
	const op = "service.OrderService.List"

	orders, err := s.gateway.GetOrders(ctx, token)
	if err != nil {
		s.log.Error("failed to fetch orders", slog.String("op", op), slog.Any("error", err))
		return OrderList{}, fmt.Errorf("%s: %w", op, err)
	}
	return OrderList{
		Orders:   orders,
		Filtered: models.FilterOrders(orders, query),
		Query:    query,
	}, nil
}

// Get находит заказ в свежем списке
func (s *OrderService) Get(ctx context.Context, token string, orderID int64) (models.Order, error) {
	const op = "service.OrderService.Get"

	orders, err := s.gateway.GetOrders(ctx, token)
	if err != nil {
		return models.Order{}, fmt.Errorf("%s: %w", op, err)
	}
	for _, o := range orders {
		if o.ID == orderID {
			return o, nil
		}
	}
	return models.Order{}, fmt.Errorf("%s: order %d: %w", op, orderID, ErrOrderNotFound)
}

// guard занимает представление, загружает заказ и проверяет предусловие
func (s *OrderService) guard(ctx context.Context, token, view string, orderID int64, allowed func(models.Order) bool) (models.Order, []models.Order, func(), error) {
	if !s.inFlight.Acquire(view, orderID) {
		return models.Order{}, nil, nil, ErrOrderBusy
	}
	release := func() { s.inFlight.Release(view) }

	orders, err := s.gateway.GetOrders(ctx, token)
	if err != nil {
		release()
		return models.Order{}, nil, nil, err
	}
	for _, o := range orders {
		if o.ID != orderID {
			continue
		}
		if !allowed(o) {
			release()
			return models.Order{}, nil, nil, fmt.Errorf("order %d is %s: %w", o.ID, o.Status, ErrTransitionNotAllowed)
		}
		return o, orders, release, nil
	}
	release()
	return models.Order{}, nil, nil, fmt.Errorf("order %d: %w", orderID, ErrOrderNotFound)
}

// ChangeStatus вручную переводит заказ в указанный статус
func (s *OrderService) ChangeStatus(ctx context.Context, token, view string, orderID int64, status models.Status) (models.Order, error) {
	const op = "service.OrderService.ChangeStatus"
	logger := s.log.With(slog.String("op", op), slog.Int64("orderID", orderID), slog.String("status", string(status)))

	if _, err := models.ParseStatus(string(status)); err != nil {
		return models.Order{}, fmt.Errorf("%s: %w: %w", op, ErrTransitionNotAllowed, err)
	}

	_, _, release, err := s.guard(ctx, token, view, orderID, func(o models.Order) bool {
		return o.Status.CanSetStatus(status)
	})
	if err != nil {
		logger.Warn("status change rejected", slog.Any("error", err))
		return models.Order{}, fmt.Errorf("%s: %w", op, err)
	}
	defer release()

	updated, err := s.gateway.UpdateOrderStatus(ctx, token, orderID, status)
	if err != nil {
		logger.Error("failed to update status", slog.Any("error", err))
		return models.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("order status updated")
	return updated, nil
}

// Approve подтверждает pending-заказ с указанным весом посылки.
// Вес проверяется до любого обращения к backend.
func (s *OrderService) Approve(ctx context.Context, token, view string, orderID int64, weight string) (ActionResult, error) {
	const op = "service.OrderService.Approve"
	logger := s.log.With(slog.String("op", op), slog.Int64("orderID", orderID))

	w, err := forms.ApprovalForm{Weight: weight}.Validate()
	if err != nil {
		return ActionResult{}, fmt.Errorf("%s: %w", op, err)
	}

	_, orders, release, err := s.guard(ctx, token, view, orderID, func(o models.Order) bool {
		return o.Status.CanApprove()
	})
	if err != nil {
		logger.Warn("approval rejected", slog.Any("error", err))
		return ActionResult{}, fmt.Errorf("%s: %w", op, err)
	}
	defer release()

	res, err := s.gateway.ApproveOrder(ctx, token, orderID, w)
	if err != nil {
		logger.Error("failed to approve order", slog.Any("error", err))
		return ActionResult{}, fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("order approved", slog.Float64("weight", w), slog.Bool("notified", res.Notified()))
	return s.finish(ctx, view, orders, res), nil
}

// Cancel отменяет заказ. Без подтверждения запрос в backend не отправляется.
func (s *OrderService) Cancel(ctx context.Context, token, view string, orderID int64, confirmed bool) (ActionResult, error) {
	const op = "service.OrderService.Cancel"
	logger := s.log.With(slog.String("op", op), slog.Int64("orderID", orderID))

	if !confirmed {
		return ActionResult{}, fmt.Errorf("%s: %w", op, ErrConfirmationRequired)
	}

	_, orders, release, err := s.guard(ctx, token, view, orderID, func(o models.Order) bool {
		return o.Status.CanCancel()
	})
	if err != nil {
		logger.Warn("cancellation rejected", slog.Any("error", err))
		return ActionResult{}, fmt.Errorf("%s: %w", op, err)
	}
	defer release()

	res, err := s.gateway.CancelOrder(ctx, token, orderID)
	if err != nil {
		logger.Error("failed to cancel order", slog.Any("error", err))
		return ActionResult{}, fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("order cancelled", slog.Bool("notified", res.Notified()))
	return s.finish(ctx, view, orders, res), nil
}

// finish заменяет заказ в списке и пытается открыть ссылку уведомления
func (s *OrderService) finish(ctx context.Context, view string, orders []models.Order, res models.OrderResult) ActionResult {
	out := ActionResult{
		Order:    res.Order,
		Orders:   models.ReplaceOrder(orders, res.Order),
		Link:     res.NotifyLink,
		Notified: res.Notified(),
	}
	if out.Notified && s.opener != nil {
		if err := s.opener.Open(ctx, view, res.NotifyLink); err != nil {
			s.log.Warn("failed to open notification link", slog.Int64("orderID", res.Order.ID), slog.Any("error", err))
		}
	}
	return out
}
