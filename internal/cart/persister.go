package cart

import (
	"context"
	"errors"
	"sync"

	"github.com/yeo0314/JEPK-creation/internal/domain"
)

var ErrCartNotFound = errors.New("cart not found")

// Persister keeps cart lines across restarts. Consumers define this interface.
type Persister interface {
	Load(ctx context.Context, sessionID string) ([]domain.CartLine, error)
	Save(ctx context.Context, sessionID string, lines []domain.CartLine) error
	Delete(ctx context.Context, sessionID string) error
}

// MemoryPersister keeps carts in process memory.
type MemoryPersister struct {
	mu    sync.RWMutex
	carts map[string][]domain.CartLine
}

func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{carts: make(map[string][]domain.CartLine)}
}

func (m *MemoryPersister) Load(_ context.Context, sessionID string) ([]domain.CartLine, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	lines, ok := m.carts[sessionID]
	if !ok {
		return nil, ErrCartNotFound
	}
	return domain.CopyLines(lines), nil
}

func (m *MemoryPersister) Save(_ context.Context, sessionID string, lines []domain.CartLine) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[sessionID] = domain.CopyLines(lines)
	return nil
}

func (m *MemoryPersister) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, sessionID)
	return nil
}
