package admin

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/yeo0314/JEPK-creation/internal/domain"
	"github.com/yeo0314/JEPK-creation/internal/events"
	"github.com/yeo0314/JEPK-creation/internal/notification"
	"github.com/yeo0314/JEPK-creation/internal/repository"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByCustomerEmail(ctx context.Context, email string) ([]*domain.Order, error)
	Search(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, error)
	SetStatus(ctx context.Context, id string, status domain.OrderStatus) error
	Update(ctx context.Context, id string, patch domain.OrderPatch) error
	Delete(ctx context.Context, id string) error
	ComputeStats(ctx context.Context) (*domain.OrderStats, error)
}

// Service backs the admin dashboard. Errors are returned to the caller
// unchanged so the dashboard can block on them.
type Service struct {
	repo      Repository
	notifier  notification.Gateway
	publisher events.Publisher
	now       func() time.Time
	logger    *zap.Logger
}

func NewService(repo Repository, notifier notification.Gateway, publisher events.Publisher, logger *zap.Logger) *Service {
	return &Service{
		repo:      repo,
		notifier:  notifier,
		publisher: publisher,
		now:       time.Now,
		logger:    logger,
	}
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: %q", repository.ErrInvalidStatus, string(filter.Status))
	}
	return s.repo.Search(ctx, filter)
}

// OrdersForCustomer is the customer's order history, newest first.
func (s *Service) OrdersForCustomer(ctx context.Context, email string) ([]*domain.Order, error) {
	return s.repo.ListByCustomerEmail(ctx, email)
}

func (s *Service) Stats(ctx context.Context) (*domain.OrderStats, error) {
	return s.repo.ComputeStats(ctx)
}

// ChangeStatus stores the new status and emails the customer. When the email
// fails the status is already changed; the order is returned along with the
// *notification.Error.
func (s *Service) ChangeStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", repository.ErrInvalidStatus, string(status))
	}
	if err := s.repo.SetStatus(ctx, id, status); err != nil {
		return nil, err
	}

	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.publish(events.TypeOrderStatusChanged, order.OrderID, events.StatusChange{Status: status.String()})

	s.logger.Info("order status changed",
		zap.String("id", id),
		zap.String("order_id", order.OrderID),
		zap.String("status", status.String()))

	return order, s.notifyStatus(ctx, order, status)
}

// Update edits customer fields. A status in the patch is announced to the
// customer the same way ChangeStatus does.
func (s *Service) Update(ctx context.Context, id string, patch domain.OrderPatch) (*domain.Order, error) {
	if err := s.repo.Update(ctx, id, patch); err != nil {
		return nil, err
	}

	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.publish(events.TypeOrderUpdated, order.OrderID, patch)

	if patch.Status != nil {
		return order, s.notifyStatus(ctx, order, *patch.Status)
	}
	return order, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(events.TypeOrderDeleted, order.OrderID, nil)
	s.logger.Info("order deleted", zap.String("id", id), zap.String("order_id", order.OrderID))
	return nil
}

func (s *Service) notifyStatus(ctx context.Context, order *domain.Order, status domain.OrderStatus) error {
	params := notification.StatusUpdateParams(order, status, s.now())
	if err := s.notifier.Send(ctx, notification.KindStatusUpdate, params); err != nil {
		s.logger.Warn("status update email failed",
			zap.String("order_id", order.OrderID),
			zap.String("status", status.String()),
			zap.Error(err))
		return err
	}
	return nil
}

func (s *Service) publish(t events.Type, orderID string, payload any) {
	ev, err := events.NewEvent(t, orderID, payload, s.now())
	if err != nil {
		s.logger.Error("failed to build order event", zap.String("order_id", orderID), zap.Error(err))
		return
	}
	s.publisher.Enqueue(ev)
}
