package domain

import "time"

type PaymentMethod string

const (
	PaymentOrangeMoney PaymentMethod = "orange-money"
	PaymentMTNMoney    PaymentMethod = "mtn-money"
	PaymentWave        PaymentMethod = "wave"
	PaymentCash        PaymentMethod = "cash"
)

func (m PaymentMethod) String() string {
	return string(m)
}

// IsMobileMoney reports whether the method charges a phone number.
func (m PaymentMethod) IsMobileMoney() bool {
	switch m {
	case PaymentOrangeMoney, PaymentMTNMoney, PaymentWave:
		return true
	}
	return false
}

// OrderPayload is what a checkout submits to the payment dispatcher and repository.
type OrderPayload struct {
	OrderID         string        `json:"order_id"`
	Amount          int64         `json:"amount"`
	CustomerName    string        `json:"customer_name"`
	CustomerEmail   string        `json:"customer_email"`
	Phone           string        `json:"phone"`
	DeliveryAddress string        `json:"delivery_address"`
	PaymentMethod   PaymentMethod `json:"payment_method"`
	Cart            []CartLine    `json:"cart"`
}

type PaymentResult struct {
	Success       bool   `json:"success"`
	TransactionID string `json:"transaction_id"`
	Provider      string `json:"provider"`
	PaymentURL    string `json:"payment_url,omitempty"`
	Message       string `json:"message,omitempty"`
}

// HasRedirect reports whether the provider asked the customer to be sent elsewhere.
func (r PaymentResult) HasRedirect() bool {
	return r.PaymentURL != "" && r.PaymentURL != "#"
}

type Order struct {
	ID              string        `json:"id"`
	OrderID         string        `json:"order_id"`
	Amount          int64         `json:"amount"`
	CustomerName    string        `json:"customer_name"`
	CustomerEmail   string        `json:"customer_email"`
	Phone           string        `json:"phone"`
	DeliveryAddress string        `json:"delivery_address"`
	PaymentMethod   PaymentMethod `json:"payment_method"`
	Cart            []CartLine    `json:"cart"`
	TransactionID   string        `json:"transaction_id"`
	Provider        string        `json:"provider"`
	PaymentURL      string        `json:"payment_url,omitempty"`
	Status          OrderStatus   `json:"status"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// NewOrder folds a successful payment into a record ready to be stored.
func NewOrder(p OrderPayload, res PaymentResult) *Order {
	return &Order{
		OrderID:         p.OrderID,
		Amount:          p.Amount,
		CustomerName:    p.CustomerName,
		CustomerEmail:   p.CustomerEmail,
		Phone:           p.Phone,
		DeliveryAddress: p.DeliveryAddress,
		PaymentMethod:   p.PaymentMethod,
		Cart:            CopyLines(p.Cart),
		TransactionID:   res.TransactionID,
		Provider:        res.Provider,
		PaymentURL:      res.PaymentURL,
	}
}

// OrderPatch carries the fields an admin may edit. Nil fields are left untouched.
type OrderPatch struct {
	CustomerName    *string      `json:"customer_name,omitempty"`
	CustomerEmail   *string      `json:"customer_email,omitempty"`
	Phone           *string      `json:"phone,omitempty"`
	DeliveryAddress *string      `json:"delivery_address,omitempty"`
	Status          *OrderStatus `json:"status,omitempty"`
}

func (p OrderPatch) Empty() bool {
	return p.CustomerName == nil && p.CustomerEmail == nil && p.Phone == nil &&
		p.DeliveryAddress == nil && p.Status == nil
}

type OrderFilter struct {
	Status OrderStatus
	Query  string
}

type OrderStats struct {
	Total        int                 `json:"total"`
	ByStatus     map[OrderStatus]int `json:"by_status"`
	TotalRevenue int64               `json:"total_revenue"`
	RecentOrders []*Order            `json:"recent_orders"`
}
