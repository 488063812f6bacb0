package domain

// CartLine is one product (and optional variant) selected for purchase.
type CartLine struct {
	ProductID     string `json:"product_id" bson:"product_id"`
	Name          string `json:"name" bson:"name"`
	UnitPrice     int64  `json:"unit_price" bson:"unit_price"`
	Quantity      int    `json:"quantity" bson:"quantity"`
	SelectedColor string `json:"selected_color,omitempty" bson:"selected_color,omitempty"`
	SelectedImage string `json:"selected_image,omitempty" bson:"selected_image,omitempty"`
}

// LineID identifies a line by product and variant.
func (l CartLine) LineID() string {
	return LineID(l.ProductID, l.SelectedColor)
}

func (l CartLine) Subtotal() int64 {
	return l.UnitPrice * int64(l.Quantity)
}

func LineID(productID, color string) string {
	if color == "" {
		return productID
	}
	return productID + ":" + color
}

// CopyLines returns a snapshot that shares no backing array with lines.
func CopyLines(lines []CartLine) []CartLine {
	out := make([]CartLine, len(lines))
	copy(out, lines)
	return out
}

// Subtotal sums unit price times quantity across lines.
func Subtotal(lines []CartLine) int64 {
	var total int64
	for _, l := range lines {
		total += l.Subtotal()
	}
	return total
}
