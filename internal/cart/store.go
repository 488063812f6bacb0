package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/yeo0314/JEPK-creation/internal/domain"
)

var ErrLineNotFound = errors.New("line not found in cart")

// Item describes what is being added; it becomes a CartLine.
type Item struct {
	ProductID string
	Name      string
	UnitPrice int64
	Color     string
	Image     string
}

// Store holds the lines of one cart session. Every mutation is saved
// through the Persister before it becomes visible; a failed save leaves
// the cart as it was.
type Store struct {
	mu        sync.Mutex
	sessionID string
	lines     []domain.CartLine
	persister Persister
}

func NewStore(sessionID string, lines []domain.CartLine, persister Persister) *Store {
	return &Store{
		sessionID: sessionID,
		lines:     domain.CopyLines(lines),
		persister: persister,
	}
}

// Load restores a session from the persister; a missing cart is an empty one.
func Load(ctx context.Context, sessionID string, persister Persister) (*Store, error) {
	lines, err := persister.Load(ctx, sessionID)
	if err != nil && !errors.Is(err, ErrCartNotFound) {
		return nil, fmt.Errorf("failed to load cart %s: %w", sessionID, err)
	}
	return NewStore(sessionID, lines, persister), nil
}

func (s *Store) SessionID() string {
	return s.sessionID
}

// AddItem appends a line or increments the line with the same product and colour.
func (s *Store) AddItem(ctx context.Context, item Item, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := domain.CopyLines(s.lines)
	id := domain.LineID(item.ProductID, item.Color)
	for i := range next {
		if next[i].LineID() == id {
			next[i].Quantity += quantity
			return s.commit(ctx, next)
		}
	}

	next = append(next, domain.CartLine{
		ProductID:     item.ProductID,
		Name:          item.Name,
		UnitPrice:     item.UnitPrice,
		Quantity:      quantity,
		SelectedColor: item.Color,
		SelectedImage: item.Image,
	})
	return s.commit(ctx, next)
}

// UpdateQuantity adds delta to a line. The quantity never drops below 1;
// use RemoveItem to drop a line.
func (s *Store) UpdateQuantity(ctx context.Context, lineID string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := domain.CopyLines(s.lines)
	for i := range next {
		if next[i].LineID() != lineID {
			continue
		}
		next[i].Quantity = max(next[i].Quantity+delta, 1)
		return s.commit(ctx, next)
	}
	return ErrLineNotFound
}

func (s *Store) RemoveItem(ctx context.Context, lineID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]domain.CartLine, 0, len(s.lines))
	for _, l := range s.lines {
		if l.LineID() != lineID {
			next = append(next, l)
		}
	}
	return s.commit(ctx, next)
}

// Clear drops the persisted cart first; the live lines survive a failed delete.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persister.Delete(ctx, s.sessionID); err != nil {
		return fmt.Errorf("failed to clear cart %s: %w", s.sessionID, err)
	}
	s.lines = nil
	return nil
}

// Lines returns a copy of the current lines.
func (s *Store) Lines() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.CopyLines(s.lines)
}

func (s *Store) Total() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.Subtotal(s.lines)
}

// Count is the number of units, not lines.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, l := range s.lines {
		n += l.Quantity
	}
	return n
}

func (s *Store) Empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines) == 0
}

// commit saves next and only then makes it the live state. Must hold s.mu.
func (s *Store) commit(ctx context.Context, next []domain.CartLine) error {
	if err := s.persister.Save(ctx, s.sessionID, next); err != nil {
		return fmt.Errorf("failed to save cart %s: %w", s.sessionID, err)
	}
	s.lines = next
	return nil
}
