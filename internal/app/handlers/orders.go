package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/linemk/shop-admin/internal/domain/models"
	"github.com/linemk/shop-admin/internal/forms"
	"github.com/linemk/shop-admin/internal/service"
)

const ordersPath = "/admin/orders"

// OrdersHandler – список заказов с поиском ?q=
func OrdersHandler(web *Web, orders OrderService, links *PendingLinks) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.OrdersHandler"
		p := principal(r)

		list, err := orders.List(r.Context(), p.Token, r.URL.Query().Get("q"))
		if err != nil {
			if web.Expired(w, r, err) {
				return
			}
			web.Log.Error("failed to list orders", slog.String("op", op), slog.Any("error", err))
			web.Render(w, r, http.StatusBadGateway, "orders.html", map[string]any{
				"List":       service.OrderList{},
				"UpdatingID": int64(0),
				"Error":      UserMessage(err),
			})
			return
		}

		updating, _ := orders.Updating(p.SessionID)
		web.Render(w, r, http.StatusOK, "orders.html", map[string]any{
			"List":       list,
			"UpdatingID": updating,
			"NotifyLink": links.Take(p.SessionID),
		})
	}
}

// OrderStatusHandler – ручная смена статуса из выпадающего списка
func OrderStatusHandler(web *Web, orders OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.OrderStatusHandler"
		p := principal(r)

		id, ok := idParam(r)
		if !ok {
			http.Error(w, "invalid order id", http.StatusBadRequest)
			return
		}
		status, err := models.ParseStatus(r.FormValue("status"))
		if err != nil {
			web.Redirect(w, r, ordersPath, FlashError, "Unknown order status.")
			return
		}

		updated, err := orders.ChangeStatus(r.Context(), p.Token, p.SessionID, id, status)
		if err != nil {
			web.Log.Warn("status change failed", slog.String("op", op), slog.Int64("orderID", id), slog.Any("error", err))
			web.Fail(w, r, err, ordersPath)
			return
		}
		web.Redirect(w, r, ordersPath, FlashSuccess,
			fmt.Sprintf("Order #%d is now %s.", updated.ID, updated.Status.Label()))
	}
}

// loadOrder находит заказ для страницы действия; при ошибке уводит на список
func loadOrder(web *Web, orders OrderService, w http.ResponseWriter, r *http.Request) (models.Order, bool) {
	id, ok := idParam(r)
	if !ok {
		http.Error(w, "invalid order id", http.StatusBadRequest)
		return models.Order{}, false
	}
	order, err := orders.Get(r.Context(), principal(r).Token, id)
	if err != nil {
		web.Fail(w, r, err, ordersPath)
		return models.Order{}, false
	}
	return order, true
}

// ApprovePageHandler – диалог ввода веса посылки
func ApprovePageHandler(web *Web, orders OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order, ok := loadOrder(web, orders, w, r)
		if !ok {
			return
		}
		if !order.Status.CanApprove() {
			web.Fail(w, r, service.ErrTransitionNotAllowed, ordersPath)
			return
		}
		web.Render(w, r, http.StatusOK, "approve.html", map[string]any{"Order": order})
	}
}

// ApproveHandler – подтверждение заказа и создание отправки
func ApproveHandler(web *Web, orders OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ApproveHandler"
		p := principal(r)

		id, ok := idParam(r)
		if !ok {
			http.Error(w, "invalid order id", http.StatusBadRequest)
			return
		}
		weight := r.FormValue("weight")

		res, err := orders.Approve(r.Context(), p.Token, p.SessionID, id, weight)
		if err != nil {
			var vErr *forms.ValidationError
			if errors.As(err, &vErr) {
				// вес неверный: диалог остаётся открытым
				order, ok := loadOrder(web, orders, w, r)
				if !ok {
					return
				}
				web.Render(w, r, http.StatusUnprocessableEntity, "approve.html", map[string]any{
					"Order":      order,
					"Weight":     weight,
					"FieldError": vErr.Message,
				})
				return
			}
			web.Log.Warn("approval failed", slog.String("op", op), slog.Int64("orderID", id), slog.Any("error", err))
			web.Fail(w, r, err, ordersPath)
			return
		}
		web.Redirect(w, r, ordersPath, FlashSuccess, resultMessage("approved", res))
	}
}

// CancelPageHandler – запрос подтверждения отмены
func CancelPageHandler(web *Web, orders OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order, ok := loadOrder(web, orders, w, r)
		if !ok {
			return
		}
		if !order.Status.CanCancel() {
			web.Fail(w, r, service.ErrTransitionNotAllowed, ordersPath)
			return
		}
		web.Render(w, r, http.StatusOK, "cancel.html", map[string]any{"Order": order})
	}
}

// CancelHandler – отмена заказа; без confirm=yes возвращает на страницу подтверждения
func CancelHandler(web *Web, orders OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CancelHandler"
		p := principal(r)

		id, ok := idParam(r)
		if !ok {
			http.Error(w, "invalid order id", http.StatusBadRequest)
			return
		}

		res, err := orders.Cancel(r.Context(), p.Token, p.SessionID, id, r.FormValue("confirm") == "yes")
		if errors.Is(err, service.ErrConfirmationRequired) {
			http.Redirect(w, r, fmt.Sprintf("%s/%d/cancel", ordersPath, id), http.StatusSeeOther)
			return
		}
		if err != nil {
			web.Log.Warn("cancellation failed", slog.String("op", op), slog.Int64("orderID", id), slog.Any("error", err))
			web.Fail(w, r, err, ordersPath)
			return
		}
		web.Redirect(w, r, ordersPath, FlashSuccess, resultMessage("cancelled", res))
	}
}

func resultMessage(verb string, res service.ActionResult) string {
	if res.Notified {
		return fmt.Sprintf("Order #%d %s. Customer notification opened.", res.Order.ID, verb)
	}
	return fmt.Sprintf("Order #%d %s. No customer notification was sent.", res.Order.ID, verb)
}
