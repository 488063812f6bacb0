package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/yeo0314/JEPK-creation/internal/catalog"
)

type ProductHandler struct {
	catalog *catalog.Catalog
}

func NewProductHandler(c *catalog.Catalog) *ProductHandler {
	return &ProductHandler{catalog: c}
}

// ListProducts handles GET /products?category=&q=&sort=&featured=
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if n := q.Get("featured"); n != "" {
		limit, err := strconv.Atoi(n)
		if err != nil || limit <= 0 {
			respondError(w, r, http.StatusBadRequest, "invalid_featured", "featured must be a positive integer")
			return
		}
		respondJSON(w, r, http.StatusOK, h.catalog.Featured(limit))
		return
	}

	sortOrder := catalog.SortOrder(q.Get("sort"))
	switch sortOrder {
	case "", catalog.SortFeatured, catalog.SortPriceAsc, catalog.SortPriceDesc, catalog.SortName:
	default:
		respondError(w, r, http.StatusBadRequest, "invalid_sort", "sort must be one of featured, price-asc, price-desc, name")
		return
	}

	products := h.catalog.List(catalog.Filter{
		Category: q.Get("category"),
		Search:   q.Get("q"),
		Sort:     sortOrder,
	})
	respondJSON(w, r, http.StatusOK, products)
}

func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog.Get(chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, p)
}

func (h *ProductHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, h.catalog.Categories())
}
