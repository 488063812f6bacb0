package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/yeo0314/JEPK-creation/internal/domain"
	"github.com/yeo0314/JEPK-creation/internal/payment"
)

type PaymentStatusChecker interface {
	CheckStatus(ctx context.Context, method domain.PaymentMethod, transactionID string) (*payment.Status, error)
}

type PaymentHandler struct {
	payments PaymentStatusChecker
	timeout  time.Duration
}

func NewPaymentHandler(payments PaymentStatusChecker, timeout time.Duration) *PaymentHandler {
	return &PaymentHandler{payments: payments, timeout: timeout}
}

// Status handles GET /payments/{method}/{transaction_id}.
func (h *PaymentHandler) Status(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	method := domain.PaymentMethod(chi.URLParam(r, "method"))
	st, err := h.payments.CheckStatus(ctx, method, chi.URLParam(r, "transaction_id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, st)
}
