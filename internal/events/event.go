package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeOrderCreated       Type = "order.created"
	TypeOrderStatusChanged Type = "order.status_changed"
	TypeOrderUpdated       Type = "order.updated"
	TypeOrderDeleted       Type = "order.deleted"
)

// Event is the envelope published for every order lifecycle change.
type Event struct {
	ID         string          `json:"id"`
	Type       Type            `json:"type"`
	OrderID    string          `json:"order_id"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

func NewEvent(t Type, orderID string, payload any, now time.Time) (Event, error) {
	ev := Event{
		ID:         uuid.NewString(),
		Type:       t,
		OrderID:    orderID,
		OccurredAt: now.UTC(),
	}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return Event{}, fmt.Errorf("marshal %s payload: %w", t, err)
		}
		ev.Payload = raw
	}
	return ev, nil
}

// StatusChange is the payload of TypeOrderStatusChanged.
type StatusChange struct {
	Status string `json:"status"`
}
