package domain

import "fmt"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// AllOrderStatuses lists statuses in dashboard order.
var AllOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	st := OrderStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown order status %q", s)
	}
	return st, nil
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// Label is the customer facing (French) name of the status.
func (s OrderStatus) Label() string {
	switch s {
	case OrderStatusPending:
		return "En attente"
	case OrderStatusProcessing:
		return "En cours"
	case OrderStatusCompleted:
		return "Terminée"
	case OrderStatusCancelled:
		return "Annulée"
	}
	return string(s)
}

// Color is the badge colour used by the admin dashboard.
func (s OrderStatus) Color() string {
	switch s {
	case OrderStatusPending:
		return "yellow"
	case OrderStatusProcessing:
		return "blue"
	case OrderStatusCompleted:
		return "green"
	case OrderStatusCancelled:
		return "red"
	}
	return "gray"
}

// String representation (for logging)
func (s OrderStatus) String() string {
	return string(s)
}
