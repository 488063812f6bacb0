package checkout

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/yeo0314/JEPK-creation/internal/domain"
)

type State string

const (
	StateIdle       State = "idle"
	StateProcessing State = "processing"
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
)

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrCheckoutInProgress = errors.New("checkout already in progress")
	ErrCheckoutCompleted  = errors.New("checkout already completed for this cart")
)

// GenericFailureMessage is shown when the payment went through but the order
// could not be recorded.
const GenericFailureMessage = "Une erreur est survenue lors de l'enregistrement de votre commande. Veuillez réessayer."

// Customer is what the checkout form collects.
type Customer struct {
	Name            string
	Email           string
	Phone           string
	DeliveryAddress string
	PaymentMethod   domain.PaymentMethod
}

// Confirmation is kept after a successful checkout for display.
type Confirmation struct {
	Order       *domain.Order `json:"order"`
	Message     string        `json:"message,omitempty"`
	RedirectURL string        `json:"redirect_url,omitempty"`
}

type Snapshot struct {
	State        State         `json:"state"`
	Message      string        `json:"message,omitempty"`
	Confirmation *Confirmation `json:"confirmation,omitempty"`
}

type session struct {
	mu           sync.Mutex
	state        State
	message      string
	confirmation *Confirmation
	updatedAt    time.Time
}

func newSession(now time.Time) *session {
	return &session{state: StateIdle, updatedAt: now}
}

// begin moves the session into Processing. Failed sessions may be resubmitted.
func (s *session) begin(now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateProcessing:
		return ErrCheckoutInProgress
	case StateCompleted:
		return ErrCheckoutCompleted
	case StateIdle, StateFailed:
		s.state = StateProcessing
		s.message = ""
		s.updatedAt = now
		return nil
	}
	return fmt.Errorf("unknown checkout state %q", s.state)
}

// abort returns a session that never left the guard checks to its previous state.
func (s *session) abort(prev State, prevMessage string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = prev
	s.message = prevMessage
}

func (s *session) fail(message string, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateFailed
	s.message = message
	s.updatedAt = now
}

func (s *session) complete(c *Confirmation, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateCompleted
	s.message = c.Message
	s.confirmation = c
	s.updatedAt = now
}

func (s *session) snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{State: s.state, Message: s.message, Confirmation: s.confirmation}
}

func (s *session) expired(now time.Time, ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state != StateProcessing && now.Sub(s.updatedAt) > ttl
}
