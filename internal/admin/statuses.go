package admin

import "github.com/yeo0314/JEPK-creation/internal/domain"

// StatusOption is one entry of the status dropdown.
type StatusOption struct {
	Value domain.OrderStatus `json:"value"`
	Label string             `json:"label"`
	Color string             `json:"color"`
}

func StatusOptions() []StatusOption {
	opts := make([]StatusOption, len(domain.AllOrderStatuses))
	for i, s := range domain.AllOrderStatuses {
		opts[i] = StatusOption{Value: s, Label: s.Label(), Color: s.Color()}
	}
	return opts
}
