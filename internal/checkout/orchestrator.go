package checkout

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yeo0314/JEPK-creation/internal/domain"
	"github.com/yeo0314/JEPK-creation/internal/events"
	"github.com/yeo0314/JEPK-creation/internal/notification"
)

const (
	DefaultSessionTTL = 2 * time.Hour
	cleanupInterval   = time.Minute
)

type Cart interface {
	Lines() []domain.CartLine
	Clear(ctx context.Context) error
}

type PaymentDispatcher interface {
	Initiate(ctx context.Context, method domain.PaymentMethod, payload domain.OrderPayload) (*domain.PaymentResult, error)
}

type OrderCreator interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
}

type Options struct {
	ShippingFee int64
	AdminEmail  string
	SessionTTL  time.Duration
}

// Orchestrator runs checkouts: payment, then order write, then notifications,
// then clearing the cart. It tracks one state machine per cart session.
type Orchestrator struct {
	dispatcher PaymentDispatcher
	orders     OrderCreator
	notifier   notification.Gateway
	publisher  events.Publisher
	ids        OrderIDGenerator
	opts       Options
	now        func() time.Time
	logger     *zap.Logger

	mu       sync.Mutex
	sessions map[string]*session

	stopCleanup chan struct{}
	wg          sync.WaitGroup
}

func NewOrchestrator(
	dispatcher PaymentDispatcher,
	orders OrderCreator,
	notifier notification.Gateway,
	publisher events.Publisher,
	opts Options,
	logger *zap.Logger,
) *Orchestrator {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = DefaultSessionTTL
	}

	o := &Orchestrator{
		dispatcher:  dispatcher,
		orders:      orders,
		notifier:    notifier,
		publisher:   publisher,
		opts:        opts,
		now:         time.Now,
		logger:      logger,
		sessions:    make(map[string]*session),
		stopCleanup: make(chan struct{}),
	}

	o.wg.Add(1)
	go o.cleanupLoop()

	return o
}

// Status reports the checkout state of a cart session. Unknown sessions are Idle.
func (o *Orchestrator) Status(sessionID string) Snapshot {
	o.mu.Lock()
	s, ok := o.sessions[sessionID]
	o.mu.Unlock()
	if !ok {
		return Snapshot{State: StateIdle}
	}
	return s.snapshot()
}

// Submit checks out the cart of sessionID.
//
// Payment errors (*payment.ValidationError, *payment.ProviderError,
// *payment.UnsupportedProviderError) are returned as is and leave the session
// Failed with the error text. A failed order write also leaves it Failed, with
// GenericFailureMessage, and the cart untouched. Notification failures are
// logged and never change the outcome.
func (o *Orchestrator) Submit(ctx context.Context, sessionID string, cart Cart, customer Customer) (*Confirmation, error) {
	s, prev, err := o.beginSession(sessionID)
	if err != nil {
		return nil, err
	}

	lines := cart.Lines()
	if len(lines) == 0 {
		s.abort(prev.State, prev.Message)
		return nil, ErrEmptyCart
	}

	payload := domain.OrderPayload{
		OrderID:         o.ids.Next(o.now()),
		Amount:          domain.Subtotal(lines) + o.opts.ShippingFee,
		CustomerName:    customer.Name,
		CustomerEmail:   customer.Email,
		Phone:           customer.Phone,
		DeliveryAddress: customer.DeliveryAddress,
		PaymentMethod:   customer.PaymentMethod,
		Cart:            lines,
	}

	res, err := o.dispatcher.Initiate(ctx, customer.PaymentMethod, payload)
	if err != nil {
		s.fail(err.Error(), o.now())
		return nil, err
	}

	// The payment is settled from here on; a dropped request must not abandon the order.
	ctx = context.WithoutCancel(ctx)

	order, err := o.orders.Create(ctx, domain.NewOrder(payload, *res))
	if err != nil {
		o.logger.Error("order not recorded after successful payment",
			zap.String("order_id", payload.OrderID),
			zap.String("transaction_id", res.TransactionID),
			zap.String("provider", res.Provider),
			zap.Int64("amount", payload.Amount),
			zap.Error(err))
		s.fail(GenericFailureMessage, o.now())
		return nil, err
	}

	o.notify(ctx, order)

	if err := cart.Clear(ctx); err != nil {
		o.logger.Warn("failed to clear cart after checkout",
			zap.String("session_id", sessionID),
			zap.String("order_id", order.OrderID),
			zap.Error(err))
	}

	o.publish(order)

	c := &Confirmation{Order: order, Message: res.Message}
	if res.HasRedirect() {
		c.RedirectURL = res.PaymentURL
	}
	s.complete(c, o.now())

	o.logger.Info("checkout completed",
		zap.String("session_id", sessionID),
		zap.String("order_id", order.OrderID),
		zap.String("transaction_id", order.TransactionID),
		zap.Int64("amount", order.Amount))
	return c, nil
}

// notify sends the customer confirmation and the admin alert concurrently and
// waits for both. Failures are logged only.
func (o *Orchestrator) notify(ctx context.Context, order *domain.Order) {
	now := o.now()

	var g errgroup.Group
	g.Go(func() error {
		o.send(ctx, order.OrderID, notification.KindOrderConfirmation, notification.OrderConfirmationParams(order, now))
		return nil
	})
	g.Go(func() error {
		o.send(ctx, order.OrderID, notification.KindAdminAlert, notification.AdminAlertParams(order, o.opts.AdminEmail, now))
		return nil
	})
	_ = g.Wait()
}

func (o *Orchestrator) send(ctx context.Context, orderID string, kind notification.Kind, params notification.Params) {
	if err := o.notifier.Send(ctx, kind, params); err != nil {
		o.logger.Warn("checkout notification failed",
			zap.String("order_id", orderID),
			zap.String("kind", string(kind)),
			zap.Error(err))
	}
}

func (o *Orchestrator) publish(order *domain.Order) {
	ev, err := events.NewEvent(events.TypeOrderCreated, order.OrderID, order, o.now())
	if err != nil {
		o.logger.Error("failed to build order event", zap.String("order_id", order.OrderID), zap.Error(err))
		return
	}
	o.publisher.Enqueue(ev)
}

// beginSession moves the session to Processing under o.mu, so eviction
// cannot drop it between the lookup and the transition. It returns the
// state to restore if the submit is abandoned before payment.
func (o *Orchestrator) beginSession(id string) (*session, Snapshot, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	s, ok := o.sessions[id]
	if !ok {
		s = newSession(o.now())
		o.sessions[id] = s
	}
	prev := s.snapshot()
	if err := s.begin(o.now()); err != nil {
		return nil, Snapshot{}, err
	}
	return s, prev, nil
}

func (o *Orchestrator) cleanupLoop() {
	defer o.wg.Done()

	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			o.evictExpired(time.Now())
		case <-o.stopCleanup:
			return
		}
	}
}

func (o *Orchestrator) evictExpired(now time.Time) {
	o.mu.Lock()
	defer o.mu.Unlock()

	for id, s := range o.sessions {
		if s.expired(now, o.opts.SessionTTL) {
			delete(o.sessions, id)
		}
	}
}

// Close stops the session cleanup loop.
func (o *Orchestrator) Close() error {
	close(o.stopCleanup)
	o.wg.Wait()
	return nil
}
