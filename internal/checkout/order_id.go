package checkout

import (
	"fmt"
	"sync"
	"time"
)

// OrderIDGenerator issues CMD-<unix-ms> ids that strictly increase within the process.
type OrderIDGenerator struct {
	mu   sync.Mutex
	last int64
}

func (g *OrderIDGenerator) Next(now time.Time) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := now.UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return fmt.Sprintf("CMD-%d", ms)
}
