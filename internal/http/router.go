package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/yeo0314/JEPK-creation/internal/health"
)

type HealthReporter interface {
	Last() health.Report
}

type Handlers struct {
	Products *ProductHandler
	Cart     *CartHandler
	Checkout *CheckoutHandler
	Payments *PaymentHandler
	Orders   *OrdersHandler
	Contact  *ContactHandler
	Health   HealthReporter
}

type RouterConfig struct {
	RequestTimeout time.Duration
	AdminKeyHash   string
	MaxBodyBytes   int64
}

func NewRouter(h Handlers, cfg RouterConfig, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	if cfg.MaxBodyBytes > 0 {
		r.Use(middleware.RequestSize(cfg.MaxBodyBytes))
	}
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		report := h.Health.Last()
		status := http.StatusOK
		if report.Status != health.StatusOK {
			status = http.StatusServiceUnavailable
		}
		respondJSON(w, r, status, report)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", h.Products.ListProducts)
		r.Get("/products/{id}", h.Products.GetProduct)
		r.Get("/categories", h.Products.ListCategories)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.Cart.GetCart)
			r.Delete("/", h.Cart.ClearCart)
			r.Post("/items", h.Cart.AddItem)
			r.Patch("/items/{line_id}", h.Cart.UpdateQuantity)
			r.Delete("/items/{line_id}", h.Cart.RemoveItem)
		})

		r.Post("/checkout", h.Checkout.Submit)
		r.Get("/checkout", h.Checkout.Status)
		r.Get("/payments/{method}/{transaction_id}", h.Payments.Status)

		r.Get("/orders", h.Orders.CustomerOrders)
		r.Post("/contact", h.Contact.Submit)

		r.Route("/admin", func(r chi.Router) {
			r.Use(AdminAuth(cfg.AdminKeyHash, logger))
			r.Get("/orders", h.Orders.ListOrders)
			r.Get("/orders/{id}", h.Orders.GetOrder)
			r.Patch("/orders/{id}", h.Orders.UpdateOrder)
			r.Delete("/orders/{id}", h.Orders.DeleteOrder)
			r.Put("/orders/{id}/status", h.Orders.ChangeStatus)
			r.Get("/stats", h.Orders.Stats)
			r.Get("/statuses", h.Orders.Statuses)
		})
	})

	return otelhttp.NewHandler(r, "storefront",
		otelhttp.WithFilter(func(r *http.Request) bool { return r.URL.Path != "/health" }))
}

// NewServer wraps the router with the timeouts used in production.
func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      45 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
