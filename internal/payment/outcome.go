package payment

import (
	"math/rand"

	"github.com/yeo0314/JEPK-creation/internal/domain"
)

// Outcome decides whether a simulated provider approves a payment. An empty
// reason means approved.
type Outcome interface {
	Decide(payload domain.OrderPayload) (approved bool, reason string)
}

type AlwaysApprove struct{}

func (AlwaysApprove) Decide(domain.OrderPayload) (bool, string) {
	return true, ""
}

// RandomOutcome declines roughly FailureRate of payments.
type RandomOutcome struct {
	FailureRate float64
}

func (r RandomOutcome) Decide(domain.OrderPayload) (bool, string) {
	return decide(rand.Float64(), r.FailureRate)
}

func decide(roll, failureRate float64) (bool, string) {
	if roll < failureRate {
		return false, "declined by provider"
	}
	return true, ""
}
