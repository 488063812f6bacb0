package domain

type Variant struct {
	Color           string   `json:"color"`
	ColorHex        string   `json:"color_hex"`
	PriceAdjustment int64    `json:"price_adjustment"`
	Stock           int      `json:"stock"`
	Images          []string `json:"images"`
}

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       int64     `json:"price"`
	Category    string    `json:"category"`
	Emoji       string    `json:"emoji"`
	Images      []string  `json:"images"`
	Stock       int       `json:"stock"`
	Featured    bool      `json:"featured"`
	Variants    []Variant `json:"variants,omitempty"`
}

// Variant looks up a variant by colour.
func (p *Product) Variant(color string) (*Variant, bool) {
	for i := range p.Variants {
		if p.Variants[i].Color == color {
			return &p.Variants[i], true
		}
	}
	return nil, false
}
