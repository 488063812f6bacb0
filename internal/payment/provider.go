package payment

import (
	"context"
	"time"

	"github.com/yeo0314/JEPK-creation/internal/domain"
)

// Provider is one way of paying. Real gateways implement the same two calls.
type Provider interface {
	Validate(phone string) error
	Authorize(ctx context.Context, payload domain.OrderPayload) (*domain.PaymentResult, error)
}

// MobileMoney simulates a mobile-money collection round trip.
//
// PRODUCTION INTEGRATION POINT: Authorize would POST the payload to the
// provider's collection API and return its checkout URL as PaymentURL.
type MobileMoney struct {
	method   domain.PaymentMethod
	label    string
	prefixes []string // empty accepts any operator
	delay    time.Duration
	outcome  Outcome
	now      func() time.Time
}

func NewMobileMoney(method domain.PaymentMethod, label string, prefixes []string, delay time.Duration, outcome Outcome) *MobileMoney {
	if outcome == nil {
		outcome = AlwaysApprove{}
	}
	return &MobileMoney{
		method:   method,
		label:    label,
		prefixes: prefixes,
		delay:    delay,
		outcome:  outcome,
		now:      time.Now,
	}
}

func (m *MobileMoney) Validate(phone string) error {
	_, err := ValidatePhone(phone, m.method, m.prefixes)
	return err
}

func (m *MobileMoney) Authorize(ctx context.Context, payload domain.OrderPayload) (*domain.PaymentResult, error) {
	if m.delay > 0 {
		timer := time.NewTimer(m.delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, &ProviderError{Provider: m.label, Err: ctx.Err()}
		}
	}

	if ok, reason := m.outcome.Decide(payload); !ok {
		return nil, &ProviderError{Provider: m.label, Reason: reason}
	}

	return &domain.PaymentResult{
		Success:       true,
		TransactionID: NewTransactionID(m.now()),
		Provider:      m.label,
		PaymentURL:    "#",
		Message:       "Paiement " + m.label + " simulé avec succès",
	}, nil
}

// Cash is paid on delivery: no phone check, no remote call.
type Cash struct {
	now func() time.Time
}

func NewCash() *Cash {
	return &Cash{now: time.Now}
}

func (Cash) Validate(string) error {
	return nil
}

func (c Cash) Authorize(context.Context, domain.OrderPayload) (*domain.PaymentResult, error) {
	return &domain.PaymentResult{
		Success:       true,
		TransactionID: NewTransactionID(c.now()),
		Provider:      LabelCash,
		Message:       "Commande confirmée - Paiement à la livraison",
	}, nil
}
