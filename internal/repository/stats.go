package repository

import (
	"sort"

	"github.com/yeo0314/JEPK-creation/internal/domain"
)

const recentOrdersLimit = 5

// ComputeStats aggregates orders. Only completed orders count towards revenue.
func ComputeStats(orders []*domain.Order) *domain.OrderStats {
	stats := &domain.OrderStats{
		Total:        len(orders),
		ByStatus:     make(map[domain.OrderStatus]int, len(domain.AllOrderStatuses)),
		RecentOrders: []*domain.Order{},
	}
	for _, st := range domain.AllOrderStatuses {
		stats.ByStatus[st] = 0
	}

	for _, o := range orders {
		stats.ByStatus[o.Status]++
		if o.Status == domain.OrderStatusCompleted {
			stats.TotalRevenue += o.Amount
		}
	}

	recent := make([]*domain.Order, len(orders))
	copy(recent, orders)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].CreatedAt.After(recent[j].CreatedAt)
	})
	if len(recent) > recentOrdersLimit {
		recent = recent[:recentOrdersLimit]
	}
	stats.RecentOrders = append(stats.RecentOrders, recent...)

	return stats
}
