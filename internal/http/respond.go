package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/yeo0314/JEPK-creation/internal/cart"
	"github.com/yeo0314/JEPK-creation/internal/catalog"
	"github.com/yeo0314/JEPK-creation/internal/checkout"
	"github.com/yeo0314/JEPK-creation/internal/notification"
	"github.com/yeo0314/JEPK-creation/internal/payment"
	"github.com/yeo0314/JEPK-creation/internal/repository"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	render.Status(r, status)
	render.JSON(w, r, data)
}

func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	respondJSON(w, r, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleError maps domain errors onto HTTP status codes.
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validationErr  *payment.ValidationError
		providerErr    *payment.ProviderError
		unsupportedErr *payment.UnsupportedProviderError
		notifyErr      *notification.Error
		fieldErrs      validator.ValidationErrors
	)

	switch {
	case errors.As(err, &validationErr):
		respondError(w, r, http.StatusUnprocessableEntity, "payment_validation", validationErr.Error())
	case errors.As(err, &providerErr):
		respondError(w, r, http.StatusPaymentRequired, "payment_failed", providerErr.Error())
	case errors.As(err, &unsupportedErr):
		respondError(w, r, http.StatusPaymentRequired, "payment_failed", unsupportedErr.Error())
	case errors.As(err, &fieldErrs):
		respondJSON(w, r, http.StatusBadRequest, ErrorResponse{
			Error:   "invalid request",
			Code:    "invalid_request",
			Details: fieldErrs.Error(),
		})
	case errors.Is(err, repository.ErrOrderNotFound):
		respondError(w, r, http.StatusNotFound, "order_not_found", "order not found")
	case errors.Is(err, catalog.ErrProductNotFound):
		respondError(w, r, http.StatusNotFound, "product_not_found", "product not found")
	case errors.Is(err, catalog.ErrVariantNotFound):
		respondError(w, r, http.StatusBadRequest, "invalid_variant", err.Error())
	case errors.Is(err, cart.ErrLineNotFound):
		respondError(w, r, http.StatusNotFound, "line_not_found", "cart line not found")
	case errors.Is(err, repository.ErrInvalidStatus):
		respondError(w, r, http.StatusBadRequest, "invalid_status", err.Error())
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, r, http.StatusBadRequest, "empty_cart", "cart is empty")
	case errors.Is(err, checkout.ErrCheckoutInProgress):
		respondError(w, r, http.StatusConflict, "checkout_in_progress", err.Error())
	case errors.Is(err, checkout.ErrCheckoutCompleted):
		respondError(w, r, http.StatusConflict, "checkout_completed", err.Error())
	case errors.As(err, &notifyErr):
		respondError(w, r, http.StatusBadGateway, "notification_failed", notifyErr.Error())
	default:
		respondError(w, r, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
