package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeo0314/JEPK-creation/internal/domain"
)

// runContract exercises behaviour every OrderRepository must share.
// newRepo must return an empty repository.
func runContract(t *testing.T, newRepo func(t *testing.T) OrderRepository) {
	tests := []struct {
		name string
		fn   func(t *testing.T, repo OrderRepository)
	}{
		{"CreateAndGet", testCreateAndGet},
		{"CreateDuplicateOrderID", testCreateDuplicate},
		{"GetByID_NotFound", testGetNotFound},
		{"ListAll_NewestFirst", testListAllOrder},
		{"ListByCustomerEmail", testListByEmail},
		{"Search", testSearch},
		{"SetStatus", testSetStatus},
		{"SetStatus_Invalid", testSetStatusInvalid},
		{"SetStatus_NotFound", testSetStatusNotFound},
		{"Update", testUpdate},
		{"Delete", testDelete},
		{"ComputeStats", testComputeStats},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fn(t, newRepo(t))
		})
	}
}

func newTestOrder(orderID, email string) *domain.Order {
	return &domain.Order{
		OrderID:         orderID,
		Amount:          16000,
		CustomerName:    "Awa Koné",
		CustomerEmail:   email,
		Phone:           "0707070707",
		DeliveryAddress: "Cocody, Abidjan",
		PaymentMethod:   domain.PaymentOrangeMoney,
		Cart: []domain.CartLine{
			{ProductID: "1", Name: "Bonnet Douceur", UnitPrice: 7500, Quantity: 2, SelectedColor: "Rose poudré"},
		},
		TransactionID: "TXN-1-abcdefghi",
		Provider:      "Orange Money",
		PaymentURL:    "#",
	}
}

func mustCreate(t *testing.T, repo OrderRepository, o *domain.Order) *domain.Order {
	t.Helper()
	created, err := repo.Create(context.Background(), o)
	require.NoError(t, err)
	// keep created_at distinct between orders
	time.Sleep(5 * time.Millisecond)
	return created
}

func testCreateAndGet(t *testing.T, repo OrderRepository) {
	ctx := context.Background()
	created := mustCreate(t, repo, newTestOrder("CMD-1", "awa@example.com"))

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, domain.OrderStatusPending, created.Status)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "CMD-1", got.OrderID)
	assert.Equal(t, int64(16000), got.Amount)
	assert.Equal(t, domain.PaymentOrangeMoney, got.PaymentMethod)
	assert.Equal(t, created.Cart, got.Cart)
	assert.WithinDuration(t, created.CreatedAt, got.CreatedAt, time.Millisecond)
}

func testCreateDuplicate(t *testing.T, repo OrderRepository) {
	mustCreate(t, repo, newTestOrder("CMD-dup", "a@example.com"))
	_, err := repo.Create(context.Background(), newTestOrder("CMD-dup", "b@example.com"))
	assert.ErrorIs(t, err, ErrDuplicateOrder)
}

func testGetNotFound(t *testing.T, repo OrderRepository) {
	_, err := repo.GetByID(context.Background(), "does-not-exist")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func testListAllOrder(t *testing.T, repo OrderRepository) {
	first := mustCreate(t, repo, newTestOrder("CMD-a", "a@example.com"))
	second := mustCreate(t, repo, newTestOrder("CMD-b", "b@example.com"))

	orders, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, second.ID, orders[0].ID)
	assert.Equal(t, first.ID, orders[1].ID)
}

func testListByEmail(t *testing.T, repo OrderRepository) {
	ctx := context.Background()
	mustCreate(t, repo, newTestOrder("CMD-1", "awa@example.com"))
	mustCreate(t, repo, newTestOrder("CMD-2", "other@example.com"))
	last := mustCreate(t, repo, newTestOrder("CMD-3", "awa@example.com"))

	orders, err := repo.ListByCustomerEmail(ctx, "awa@example.com")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, last.ID, orders[0].ID)

	none, err := repo.ListByCustomerEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func testSearch(t *testing.T, repo OrderRepository) {
	ctx := context.Background()
	a := mustCreate(t, repo, newTestOrder("CMD-100", "awa@example.com"))
	b := newTestOrder("CMD-200", "yao@example.com")
	b.CustomerName = "Yao 100%"
	bCreated := mustCreate(t, repo, b)
	require.NoError(t, repo.SetStatus(ctx, bCreated.ID, domain.OrderStatusCompleted))

	tests := []struct {
		name   string
		filter domain.OrderFilter
		want   []string
	}{
		{"everything", domain.OrderFilter{}, []string{bCreated.ID, a.ID}},
		{"by status", domain.OrderFilter{Status: domain.OrderStatusCompleted}, []string{bCreated.ID}},
		{"by name case-insensitive", domain.OrderFilter{Query: "AWA"}, []string{a.ID}},
		{"by email", domain.OrderFilter{Query: "yao@"}, []string{bCreated.ID}},
		{"by order id", domain.OrderFilter{Query: "cmd-100"}, []string{a.ID}},
		{"literal percent", domain.OrderFilter{Query: "100%"}, []string{bCreated.ID}},
		{"status and query", domain.OrderFilter{Status: domain.OrderStatusPending, Query: "yao"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders, err := repo.Search(ctx, tt.filter)
			require.NoError(t, err)
			got := make([]string, len(orders))
			for i, o := range orders {
				got[i] = o.ID
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func testSetStatus(t *testing.T, repo OrderRepository) {
	ctx := context.Background()
	created := mustCreate(t, repo, newTestOrder("CMD-1", "a@example.com"))

	// any status is reachable from any other
	for _, st := range []domain.OrderStatus{
		domain.OrderStatusCompleted,
		domain.OrderStatusPending,
		domain.OrderStatusCancelled,
		domain.OrderStatusProcessing,
	} {
		require.NoError(t, repo.SetStatus(ctx, created.ID, st))
		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, st, got.Status)
		assert.True(t, created.CreatedAt.Equal(got.CreatedAt), "created_at changed")
		assert.False(t, got.UpdatedAt.Before(created.UpdatedAt))
	}
}

func testSetStatusInvalid(t *testing.T, repo OrderRepository) {
	created := mustCreate(t, repo, newTestOrder("CMD-1", "a@example.com"))
	err := repo.SetStatus(context.Background(), created.ID, "shipped")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func testSetStatusNotFound(t *testing.T, repo OrderRepository) {
	created := mustCreate(t, repo, newTestOrder("CMD-1", "a@example.com"))
	require.NoError(t, repo.Delete(context.Background(), created.ID))

	err := repo.SetStatus(context.Background(), created.ID, domain.OrderStatusCompleted)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func testUpdate(t *testing.T, repo OrderRepository) {
	ctx := context.Background()
	created := mustCreate(t, repo, newTestOrder("CMD-1", "a@example.com"))

	address := "Plateau, Abidjan"
	status := domain.OrderStatusProcessing
	require.NoError(t, repo.Update(ctx, created.ID, domain.OrderPatch{DeliveryAddress: &address, Status: &status}))

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, address, got.DeliveryAddress)
	assert.Equal(t, status, got.Status)
	assert.Equal(t, created.CustomerName, got.CustomerName)
	assert.True(t, got.UpdatedAt.After(created.UpdatedAt) || got.UpdatedAt.Equal(created.UpdatedAt))

	bad := domain.OrderStatus("lost")
	assert.ErrorIs(t, repo.Update(ctx, created.ID, domain.OrderPatch{Status: &bad}), ErrInvalidStatus)
}

func testDelete(t *testing.T, repo OrderRepository) {
	ctx := context.Background()
	created := mustCreate(t, repo, newTestOrder("CMD-1", "a@example.com"))

	require.NoError(t, repo.Delete(ctx, created.ID))

	_, err := repo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, created.ID), ErrOrderNotFound)
}

func testComputeStats(t *testing.T, repo OrderRepository) {
	ctx := context.Background()
	amounts := []struct {
		amount int64
		status domain.OrderStatus
	}{
		{5000, domain.OrderStatusCompleted},
		{3000, domain.OrderStatusPending},
		{2000, domain.OrderStatusCompleted},
	}
	for i, a := range amounts {
		o := newTestOrder(fmt.Sprintf("CMD-%d", i), "a@example.com")
		o.Amount = a.amount
		created := mustCreate(t, repo, o)
		require.NoError(t, repo.SetStatus(ctx, created.ID, a.status))
	}

	stats, err := repo.ComputeStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.ByStatus[domain.OrderStatusCompleted])
	assert.Equal(t, 1, stats.ByStatus[domain.OrderStatusPending])
	assert.Equal(t, int64(7000), stats.TotalRevenue)
	assert.Len(t, stats.RecentOrders, 3)
	assert.Equal(t, "CMD-2", stats.RecentOrders[0].OrderID)
}
