package payment

import (
	"fmt"

	"github.com/yeo0314/JEPK-creation/internal/domain"
)

const (
	ReasonInvalidFormat  = "invalid format"
	ReasonPrefixMismatch = "prefix mismatch"
)

// ValidationError is a user-correctable problem with the payment phone number.
type ValidationError struct {
	Reason   string
	Provider domain.PaymentMethod
}

func (e *ValidationError) Error() string {
	if e.Reason == ReasonPrefixMismatch {
		return fmt.Sprintf("%s: this number does not belong to %s", e.Reason, e.Provider)
	}
	return e.Reason
}

// ProviderError is a failed (simulated) call to the payment provider.
type ProviderError struct {
	Provider string
	Reason   string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s payment failed: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("%s payment failed: %s", e.Provider, e.Reason)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

type UnsupportedProviderError struct {
	Method domain.PaymentMethod
}

func (e *UnsupportedProviderError) Error() string {
	return fmt.Sprintf("unsupported payment method %q", string(e.Method))
}
