package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/yeo0314/JEPK-creation/internal/checkout"
	"github.com/yeo0314/JEPK-creation/internal/domain"
	"github.com/yeo0314/JEPK-creation/internal/payment"
)

type Checkout interface {
	Submit(ctx context.Context, sessionID string, c checkout.Cart, customer checkout.Customer) (*checkout.Confirmation, error)
	Status(sessionID string) checkout.Snapshot
}

type CheckoutHandler struct {
	checkout Checkout
	sessions CartSessions
	validate *validator.Validate
	timeout  time.Duration
	logger   *zap.Logger
}

func NewCheckoutHandler(co Checkout, sessions CartSessions, validate *validator.Validate, timeout time.Duration, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: co,
		sessions: sessions,
		validate: validate,
		timeout:  timeout,
		logger:   logger,
	}
}

type CheckoutRequestDTO struct {
	CustomerName    string `json:"customer_name" validate:"required,max=200"`
	CustomerEmail   string `json:"customer_email" validate:"required,email"`
	Phone           string `json:"phone" validate:"max=32"`
	DeliveryAddress string `json:"delivery_address" validate:"required,max=500"`
	PaymentMethod   string `json:"payment_method" validate:"required"`
}

type CheckoutResponse struct {
	*checkout.Confirmation
	// NextCartSession replaces the completed session for further shopping.
	NextCartSession string `json:"next_cart_session"`
}

func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req CheckoutRequestDTO
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		handleError(w, r, err)
		return
	}
	method := domain.PaymentMethod(req.PaymentMethod)
	if method.IsMobileMoney() && req.Phone == "" {
		respondError(w, r, http.StatusBadRequest, "invalid_request", "phone is required for mobile money")
		return
	}

	sessionID, ok := cartSessionID(w, r, h.sessions)
	if !ok {
		return
	}
	store, err := h.sessions.Open(ctx, sessionID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	conf, err := h.checkout.Submit(ctx, sessionID, store, checkout.Customer{
		Name:            req.CustomerName,
		Email:           req.CustomerEmail,
		Phone:           req.Phone,
		DeliveryAddress: req.DeliveryAddress,
		PaymentMethod:   method,
	})
	if err != nil {
		h.respondCheckoutError(w, r, err)
		return
	}

	next := h.sessions.NewSessionID()
	w.Header().Set(CartSessionHeader, next)
	respondJSON(w, r, http.StatusCreated, CheckoutResponse{Confirmation: conf, NextCartSession: next})
}

// Status handles GET /checkout for the session in the request header.
func (h *CheckoutHandler) Status(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Header.Get(CartSessionHeader)
	if sessionID == "" {
		respondJSON(w, r, http.StatusOK, checkout.Snapshot{State: checkout.StateIdle})
		return
	}
	respondJSON(w, r, http.StatusOK, h.checkout.Status(sessionID))
}

func (h *CheckoutHandler) respondCheckoutError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validationErr  *payment.ValidationError
		providerErr    *payment.ProviderError
		unsupportedErr *payment.UnsupportedProviderError
	)
	switch {
	case errors.As(err, &validationErr), errors.As(err, &providerErr), errors.As(err, &unsupportedErr),
		errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, checkout.ErrCheckoutInProgress),
		errors.Is(err, checkout.ErrCheckoutCompleted):
		handleError(w, r, err)
	default:
		h.logger.Error("checkout failed", zap.Error(err))
		respondError(w, r, http.StatusInternalServerError, "order_not_recorded", checkout.GenericFailureMessage)
	}
}
