package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/yeo0314/JEPK-creation/internal/admin"
	"github.com/yeo0314/JEPK-creation/internal/domain"
)

type OrderService interface {
	Get(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, error)
	OrdersForCustomer(ctx context.Context, email string) ([]*domain.Order, error)
	Stats(ctx context.Context) (*domain.OrderStats, error)
	ChangeStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
	Update(ctx context.Context, id string, patch domain.OrderPatch) (*domain.Order, error)
	Delete(ctx context.Context, id string) error
}

type OrdersHandler struct {
	orders   OrderService
	validate *validator.Validate
	timeout  time.Duration
	logger   *zap.Logger
}

func NewOrdersHandler(orders OrderService, validate *validator.Validate, timeout time.Duration, logger *zap.Logger) *OrdersHandler {
	return &OrdersHandler{
		orders:   orders,
		validate: validate,
		timeout:  timeout,
		logger:   logger,
	}
}

type ChangeStatusRequestDTO struct {
	Status string `json:"status" validate:"required,oneof=pending processing completed cancelled"`
}

type UpdateOrderRequestDTO struct {
	CustomerName    *string `json:"customer_name" validate:"omitempty,min=1,max=200"`
	CustomerEmail   *string `json:"customer_email" validate:"omitempty,email"`
	Phone           *string `json:"phone" validate:"omitempty,max=32"`
	DeliveryAddress *string `json:"delivery_address" validate:"omitempty,min=1,max=500"`
	Status          *string `json:"status" validate:"omitempty,oneof=pending processing completed cancelled"`
}

// OrderView adds the display label and colour of the status.
type OrderView struct {
	*domain.Order
	StatusLabel string `json:"status_label"`
	StatusColor string `json:"status_color"`
}

func viewOf(o *domain.Order) OrderView {
	return OrderView{Order: o, StatusLabel: o.Status.Label(), StatusColor: o.Status.Color()}
}

func viewsOf(orders []*domain.Order) []OrderView {
	out := make([]OrderView, len(orders))
	for i, o := range orders {
		out[i] = viewOf(o)
	}
	return out
}

// CustomerOrders handles GET /orders?email=
func (h *OrdersHandler) CustomerOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	email := r.URL.Query().Get("email")
	if err := h.validate.Var(email, "required,email"); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid_email", "a valid email query parameter is required")
		return
	}

	orders, err := h.orders.OrdersForCustomer(ctx, email)
	if err != nil {
		h.logger.Error("failed to list customer orders", zap.Error(err))
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, viewsOf(orders))
}

// ListOrders handles GET /admin/orders?status=&q=
func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	q := r.URL.Query()
	status := q.Get("status")
	if status == "all" {
		status = ""
	}

	orders, err := h.orders.List(ctx, domain.OrderFilter{
		Status: domain.OrderStatus(status),
		Query:  q.Get("q"),
	})
	if err != nil {
		h.logger.Error("failed to list orders", zap.Error(err))
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, viewsOf(orders))
}

func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	order, err := h.orders.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, viewOf(order))
}

func (h *OrdersHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req ChangeStatusRequestDTO
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		handleError(w, r, err)
		return
	}

	order, err := h.orders.ChangeStatus(ctx, chi.URLParam(r, "id"), domain.OrderStatus(req.Status))
	if err != nil {
		h.logger.Warn("status change failed", zap.String("id", chi.URLParam(r, "id")), zap.Error(err))
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, viewOf(order))
}

func (h *OrdersHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req UpdateOrderRequestDTO
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		handleError(w, r, err)
		return
	}

	patch := domain.OrderPatch{
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		Phone:           req.Phone,
		DeliveryAddress: req.DeliveryAddress,
	}
	if req.Status != nil {
		s := domain.OrderStatus(*req.Status)
		patch.Status = &s
	}
	if patch.Empty() {
		respondError(w, r, http.StatusBadRequest, "invalid_request", "nothing to update")
		return
	}

	order, err := h.orders.Update(ctx, chi.URLParam(r, "id"), patch)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, viewOf(order))
}

func (h *OrdersHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.orders.Delete(ctx, chi.URLParam(r, "id")); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *OrdersHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	stats, err := h.orders.Stats(ctx)
	if err != nil {
		h.logger.Error("failed to compute stats", zap.Error(err))
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, stats)
}

func (h *OrdersHandler) Statuses(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, admin.StatusOptions())
}
