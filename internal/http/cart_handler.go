package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yeo0314/JEPK-creation/internal/cart"
	"github.com/yeo0314/JEPK-creation/internal/catalog"
	"github.com/yeo0314/JEPK-creation/internal/domain"
)

// CartSessionHeader carries the cart session id in both directions.
const CartSessionHeader = "X-Cart-Session"

type CartSessions interface {
	Open(ctx context.Context, sessionID string) (*cart.Store, error)
	NewSessionID() string
}

type CartHandler struct {
	sessions    CartSessions
	catalog     *catalog.Catalog
	validate    *validator.Validate
	shippingFee int64
	timeout     time.Duration
	logger      *zap.Logger
}

func NewCartHandler(sessions CartSessions, c *catalog.Catalog, validate *validator.Validate, shippingFee int64, timeout time.Duration, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		sessions:    sessions,
		catalog:     c,
		validate:    validate,
		shippingFee: shippingFee,
		timeout:     timeout,
		logger:      logger,
	}
}

type AddItemRequestDTO struct {
	ProductID string `json:"product_id" validate:"required"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity" validate:"gte=0,lte=99"`
}

type UpdateQuantityRequestDTO struct {
	Delta int `json:"delta" validate:"required,gte=-99,lte=99"`
}

type CartResponse struct {
	SessionID string            `json:"session_id"`
	Lines     []domain.CartLine `json:"lines"`
	Count     int               `json:"count"`
	Subtotal  int64             `json:"subtotal"`
	Shipping  int64             `json:"shipping"`
	Total     int64             `json:"total"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	store, ok := h.openCart(ctx, w, r)
	if !ok {
		return
	}
	respondJSON(w, r, http.StatusOK, h.cartResponse(store))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		handleError(w, r, err)
		return
	}

	product, err := h.catalog.Get(req.ProductID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	price, err := catalog.PriceFor(product, req.Color)
	if err != nil {
		handleError(w, r, err)
		return
	}
	color := req.Color
	if color == catalog.DefaultColor {
		color = ""
	}

	store, ok := h.openCart(ctx, w, r)
	if !ok {
		return
	}

	item := cart.Item{
		ProductID: product.ID,
		Name:      product.Name,
		UnitPrice: price,
		Color:     color,
		Image:     catalog.ImageFor(product, color),
	}
	if err := store.AddItem(ctx, item, req.Quantity); err != nil {
		h.logger.Error("failed to add cart item", zap.String("session_id", store.SessionID()), zap.Error(err))
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusCreated, h.cartResponse(store))
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req UpdateQuantityRequestDTO
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		handleError(w, r, err)
		return
	}

	store, ok := h.openCart(ctx, w, r)
	if !ok {
		return
	}
	if err := store.UpdateQuantity(ctx, chi.URLParam(r, "line_id"), req.Delta); err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, h.cartResponse(store))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	store, ok := h.openCart(ctx, w, r)
	if !ok {
		return
	}
	if err := store.RemoveItem(ctx, chi.URLParam(r, "line_id")); err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, h.cartResponse(store))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	store, ok := h.openCart(ctx, w, r)
	if !ok {
		return
	}
	if err := store.Clear(ctx); err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, h.cartResponse(store))
}

// openCart resolves the session from the request header, issuing a new one
// when the header is absent. The id is echoed back in the response header.
func (h *CartHandler) openCart(ctx context.Context, w http.ResponseWriter, r *http.Request) (*cart.Store, bool) {
	sessionID, ok := cartSessionID(w, r, h.sessions)
	if !ok {
		return nil, false
	}

	store, err := h.sessions.Open(ctx, sessionID)
	if err != nil {
		h.logger.Error("failed to open cart", zap.String("session_id", sessionID), zap.Error(err))
		handleError(w, r, err)
		return nil, false
	}
	return store, true
}

func (h *CartHandler) cartResponse(store *cart.Store) CartResponse {
	lines := store.Lines()
	subtotal := domain.Subtotal(lines)

	var shipping int64
	if len(lines) > 0 {
		shipping = h.shippingFee
	}
	return CartResponse{
		SessionID: store.SessionID(),
		Lines:     lines,
		Count:     store.Count(),
		Subtotal:  subtotal,
		Shipping:  shipping,
		Total:     subtotal + shipping,
	}
}

func cartSessionID(w http.ResponseWriter, r *http.Request, sessions CartSessions) (string, bool) {
	sessionID := r.Header.Get(CartSessionHeader)
	if sessionID == "" {
		sessionID = sessions.NewSessionID()
	} else if _, err := uuid.Parse(sessionID); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid_session", "cart session must be a UUID")
		return "", false
	}
	w.Header().Set(CartSessionHeader, sessionID)
	return sessionID, true
}
