package notification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yeo0314/JEPK-creation/internal/domain"
)

func sampleOrder() *domain.Order {
	return &domain.Order{
		OrderID:         "CMD-1700000000000",
		Amount:          16000,
		CustomerName:    "Awa Koné",
		CustomerEmail:   "awa@example.com",
		Phone:           "0701020304",
		DeliveryAddress: "Cocody, Abidjan",
		PaymentMethod:   domain.PaymentOrangeMoney,
		TransactionID:   "TXN-1700000000000-abc123xyz",
		Provider:        "Orange Money",
		Cart: []domain.CartLine{
			{ProductID: "1", Name: "Sac bandoulière", UnitPrice: 7500, Quantity: 2},
			{ProductID: "2", Name: "Lapin", UnitPrice: 5000, Quantity: 1, SelectedColor: "Blanc"},
		},
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1 000"},
		{16000, "16 000"},
		{1234567, "1 234 567"},
		{-2500, "-2 500"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatAmount(tt.in))
	}
}

func TestProductsList(t *testing.T) {
	got := ProductsList(sampleOrder().Cart)
	assert.Equal(t, "Sac bandoulière (x2) - 15 000 FCFA\nLapin [Blanc] (x1) - 5 000 FCFA", got)
	assert.Empty(t, ProductsList(nil))
}

func TestOrderConfirmationParams(t *testing.T) {
	now := time.Date(2024, 3, 9, 14, 0, 0, 0, time.UTC)
	p := OrderConfirmationParams(sampleOrder(), now)

	assert.Equal(t, "Awa Koné", p["to_name"])
	assert.Equal(t, "awa@example.com", p["to_email"])
	assert.Equal(t, "CMD-1700000000000", p["order_id"])
	assert.Equal(t, "TXN-1700000000000-abc123xyz", p["transaction_id"])
	assert.Equal(t, "16 000", p["amount"])
	assert.Equal(t, "Orange Money", p["payment_method"])
	assert.Equal(t, "09/03/2024 14:00", p["order_date"])
}

func TestAdminAlertParams(t *testing.T) {
	p := AdminAlertParams(sampleOrder(), "admin@example.com", time.Now())

	assert.Equal(t, "admin@example.com", p["admin_email"])
	assert.Equal(t, "Awa Koné", p["customer_name"])
	assert.Equal(t, "Cocody, Abidjan", p["delivery_address"])
}

func TestStatusUpdateParams(t *testing.T) {
	now := time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)
	p := StatusUpdateParams(sampleOrder(), domain.OrderStatusCompleted, now)

	assert.Equal(t, "Votre commande a été livrée", p["status"])
	assert.Equal(t, "01/12/2024 00:00", p["update_date"])
}

func TestStatusMessage(t *testing.T) {
	for _, s := range domain.AllOrderStatuses {
		assert.NotEqual(t, string(s), StatusMessage(s), "status %s has no message", s)
	}
	assert.Equal(t, "weird", StatusMessage(domain.OrderStatus("weird")))
}

func TestContactParams_DefaultPhone(t *testing.T) {
	p := ContactParams(ContactMessage{Name: "Jo", Email: "jo@example.com", Subject: "Hi", Message: "Hello"}, "admin@example.com")

	assert.Equal(t, "Non renseigné", p["phone"])
	assert.Equal(t, "admin@example.com", p["to_email"])
}
