package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/yeo0314/JEPK-creation/internal/domain"
)

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrDuplicateOrder = errors.New("order with this order id already exists")
	ErrInvalidStatus  = errors.New("invalid order status")
)

// PersistenceError wraps a failed read or write against the order store.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("order store %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func persistenceErr(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}

// OrderRepository owns persisted orders. Lists are ordered by creation
// time, newest first.
type OrderRepository interface {
	// Create stores a new order as pending and returns it with its id and timestamps.
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	ListAll(ctx context.Context) ([]*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByCustomerEmail(ctx context.Context, email string) ([]*domain.Order, error)
	// Search filters by status and a case-insensitive match on customer name,
	// email or order id. Zero-valued filter fields match everything.
	Search(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, error)
	// SetStatus accepts any transition between valid statuses.
	SetStatus(ctx context.Context, id string, status domain.OrderStatus) error
	Update(ctx context.Context, id string, patch domain.OrderPatch) error
	Delete(ctx context.Context, id string) error
	ComputeStats(ctx context.Context) (*domain.OrderStats, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

func validatePatch(patch domain.OrderPatch) error {
	if patch.Status != nil && !patch.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, string(*patch.Status))
	}
	return nil
}
