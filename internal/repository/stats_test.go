package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/yeo0314/JEPK-creation/internal/domain"
)

func TestComputeStats(t *testing.T) {
	orders := []*domain.Order{
		{OrderID: "a", Status: domain.OrderStatusCompleted, Amount: 5000},
		{OrderID: "b", Status: domain.OrderStatusPending, Amount: 3000},
		{OrderID: "c", Status: domain.OrderStatusCompleted, Amount: 2000},
	}

	stats := ComputeStats(orders)

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.ByStatus[domain.OrderStatusCompleted])
	assert.Equal(t, 1, stats.ByStatus[domain.OrderStatusPending])
	assert.Equal(t, 0, stats.ByStatus[domain.OrderStatusCancelled])
	assert.Equal(t, int64(7000), stats.TotalRevenue)
	assert.Len(t, stats.RecentOrders, 3)
}

func TestComputeStats_Empty(t *testing.T) {
	stats := ComputeStats(nil)

	assert.Equal(t, 0, stats.Total)
	assert.Equal(t, int64(0), stats.TotalRevenue)
	assert.NotNil(t, stats.RecentOrders)
	assert.Empty(t, stats.RecentOrders)
	assert.Len(t, stats.ByStatus, 4)
}

func TestComputeStats_RecentIsNewestFive(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var orders []*domain.Order
	for i := 0; i < 8; i++ {
		orders = append(orders, &domain.Order{
			OrderID:   string(rune('a' + i)),
			Status:    domain.OrderStatusCancelled,
			Amount:    1000,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
	}

	stats := ComputeStats(orders)

	assert.Equal(t, int64(0), stats.TotalRevenue)
	assert.Equal(t, 8, stats.ByStatus[domain.OrderStatusCancelled])
	if assert.Len(t, stats.RecentOrders, 5) {
		assert.Equal(t, "h", stats.RecentOrders[0].OrderID)
		assert.Equal(t, "d", stats.RecentOrders[4].OrderID)
	}
	assert.Equal(t, "a", orders[0].OrderID, "input must not be reordered")
}
