package payment

import (
	"context"
	"time"

	"github.com/yeo0314/JEPK-creation/internal/domain"
	"go.uber.org/zap"
)

const (
	LabelOrangeMoney = "Orange Money"
	LabelMTNMoney    = "MTN Mobile Money"
	LabelWave        = "Wave"
	LabelCash        = "Paiement à la livraison"
)

// Registry maps a payment method to the provider handling it.
type Registry map[domain.PaymentMethod]Provider

// DefaultRegistry wires the simulated Ivorian providers.
func DefaultRegistry(delay time.Duration, outcome Outcome) Registry {
	return Registry{
		domain.PaymentOrangeMoney: NewMobileMoney(domain.PaymentOrangeMoney, LabelOrangeMoney, []string{"07", "08", "09"}, delay, outcome),
		domain.PaymentMTNMoney:    NewMobileMoney(domain.PaymentMTNMoney, LabelMTNMoney, []string{"05", "06"}, delay, outcome),
		domain.PaymentWave:        NewMobileMoney(domain.PaymentWave, LabelWave, nil, delay, outcome),
		domain.PaymentCash:        NewCash(),
	}
}

// Label returns the display name of a method, or the method itself when unknown.
func Label(method domain.PaymentMethod) string {
	switch method {
	case domain.PaymentOrangeMoney:
		return LabelOrangeMoney
	case domain.PaymentMTNMoney:
		return LabelMTNMoney
	case domain.PaymentWave:
		return LabelWave
	case domain.PaymentCash:
		return LabelCash
	}
	return string(method)
}

type Dispatcher struct {
	providers Registry
	logger    *zap.Logger
}

func NewDispatcher(providers Registry, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		providers: providers,
		logger:    logger,
	}
}

// Initiate validates the payment phone and authorizes the payment with the
// provider registered for method.
func (d *Dispatcher) Initiate(ctx context.Context, method domain.PaymentMethod, payload domain.OrderPayload) (*domain.PaymentResult, error) {
	provider, ok := d.providers[method]
	if !ok {
		return nil, &UnsupportedProviderError{Method: method}
	}

	if err := provider.Validate(payload.Phone); err != nil {
		d.logger.Info("payment phone rejected",
			zap.String("order_id", payload.OrderID),
			zap.String("method", method.String()),
			zap.Error(err))
		return nil, err
	}

	res, err := provider.Authorize(ctx, payload)
	if err != nil {
		d.logger.Warn("payment authorization failed",
			zap.String("order_id", payload.OrderID),
			zap.String("method", method.String()),
			zap.Error(err))
		return nil, err
	}

	d.logger.Info("payment authorized",
		zap.String("order_id", payload.OrderID),
		zap.String("transaction_id", res.TransactionID),
		zap.String("provider", res.Provider),
		zap.Int64("amount", payload.Amount))
	return res, nil
}

// Status of a past transaction as reported by the provider.
type Status struct {
	Status        string `json:"status"`
	TransactionID string `json:"transaction_id"`
	Provider      string `json:"provider"`
}

// CheckStatus reports a transaction's state. Simulated providers settle
// instantly, so any well-formed id is completed.
func (d *Dispatcher) CheckStatus(_ context.Context, method domain.PaymentMethod, transactionID string) (*Status, error) {
	if _, ok := d.providers[method]; !ok {
		return nil, &UnsupportedProviderError{Method: method}
	}
	if !ValidTransactionID(transactionID) {
		return nil, &ProviderError{Provider: Label(method), Reason: "unknown transaction " + transactionID}
	}
	return &Status{
		Status:        "completed",
		TransactionID: transactionID,
		Provider:      Label(method),
	}, nil
}
