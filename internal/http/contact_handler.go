package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/yeo0314/JEPK-creation/internal/notification"
)

type ContactHandler struct {
	notifier   notification.Gateway
	adminEmail string
	limiter    *clientLimiter
	validate   *validator.Validate
	timeout    time.Duration
	logger     *zap.Logger
}

func NewContactHandler(notifier notification.Gateway, adminEmail string, perMinute int, validate *validator.Validate, timeout time.Duration, logger *zap.Logger) *ContactHandler {
	return &ContactHandler{
		notifier:   notifier,
		adminEmail: adminEmail,
		limiter:    newClientLimiter(perMinute),
		validate:   validate,
		timeout:    timeout,
		logger:     logger,
	}
}

type ContactRequestDTO struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"max=32"`
	Subject string `json:"subject" validate:"required,max=200"`
	Message string `json:"message" validate:"required,max=5000"`
}

func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if !h.limiter.allow(clientKey(r), time.Now()) {
		respondError(w, r, http.StatusTooManyRequests, "rate_limit_exceeded", "too many messages, please try again later")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req ContactRequestDTO
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		handleError(w, r, err)
		return
	}

	params := notification.ContactParams(notification.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Subject: req.Subject,
		Message: req.Message,
	}, h.adminEmail)

	if err := h.notifier.Send(ctx, notification.KindContactMessage, params); err != nil {
		h.logger.Error("contact message not sent", zap.String("from", req.Email), zap.Error(err))
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusAccepted, map[string]string{"status": "sent"})
}
