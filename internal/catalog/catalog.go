package catalog

import (
	"errors"
	"sort"
	"strings"

	"github.com/yeo0314/JEPK-creation/internal/domain"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrVariantNotFound = errors.New("variant not found")
)

// DefaultColor labels a product bought without picking a variant.
const DefaultColor = "Standard"

type SortOrder string

const (
	SortFeatured  SortOrder = "featured"
	SortPriceAsc  SortOrder = "price-asc"
	SortPriceDesc SortOrder = "price-desc"
	SortName      SortOrder = "name"
)

type Filter struct {
	Category string
	Search   string
	Sort     SortOrder
}

// Catalog is a read-only, in-memory product list.
type Catalog struct {
	products []domain.Product
	byID     map[string]int
}

func New(products []domain.Product) *Catalog {
	c := &Catalog{
		products: products,
		byID:     make(map[string]int, len(products)),
	}
	for i, p := range products {
		c.byID[p.ID] = i
	}
	return c
}

func (c *Catalog) Get(id string) (*domain.Product, error) {
	i, ok := c.byID[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	p := c.products[i]
	return &p, nil
}

// List applies the category and search filters, then sorts. Sorting is stable
// so equal keys keep catalogue order.
func (c *Catalog) List(f Filter) []domain.Product {
	search := strings.ToLower(strings.TrimSpace(f.Search))

	out := make([]domain.Product, 0, len(c.products))
	for _, p := range c.products {
		if f.Category != "" && f.Category != "all" && p.Category != f.Category {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		out = append(out, p)
	}

	sort.SliceStable(out, func(i, j int) bool {
		switch f.Sort {
		case SortPriceAsc:
			return out[i].Price < out[j].Price
		case SortPriceDesc:
			return out[i].Price > out[j].Price
		case SortName:
			return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
		default:
			return out[i].Featured && !out[j].Featured
		}
	})
	return out
}

// Featured returns up to n featured products.
func (c *Catalog) Featured(n int) []domain.Product {
	var out []domain.Product
	for _, p := range c.products {
		if p.Featured {
			out = append(out, p)
			if len(out) == n {
				break
			}
		}
	}
	return out
}

// Categories lists distinct categories in catalogue order.
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range c.products {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out
}

// PriceFor is the base price plus the colour's adjustment. An empty colour or
// DefaultColor selects the base product.
func PriceFor(p *domain.Product, color string) (int64, error) {
	if color == "" || color == DefaultColor {
		return p.Price, nil
	}
	v, ok := p.Variant(color)
	if !ok {
		return 0, ErrVariantNotFound
	}
	return p.Price + v.PriceAdjustment, nil
}

// ImageFor picks the first image of the variant, falling back to the product's.
func ImageFor(p *domain.Product, color string) string {
	if v, ok := p.Variant(color); ok && len(v.Images) > 0 {
		return v.Images[0]
	}
	if len(p.Images) > 0 {
		return p.Images[0]
	}
	return p.Emoji
}
