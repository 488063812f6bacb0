package cart

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// CleanupInterval is how often idle live stores are dropped from memory.
const CleanupInterval = time.Minute

type liveStore struct {
	store    *Store
	lastUsed time.Time
}

// Sessions keeps one live Store per cart session. Stores that stay idle
// longer than idleTTL are evicted; their state remains in the persister.
type Sessions struct {
	persister Persister
	logger    *zap.Logger
	idleTTL   time.Duration
	sfg       singleflight.Group // one load per session id

	mu     sync.RWMutex
	stores map[string]*liveStore

	stopCleanup chan struct{}
	wg          sync.WaitGroup
}

func NewSessions(persister Persister, logger *zap.Logger, idleTTL time.Duration) *Sessions {
	s := &Sessions{
		persister:   persister,
		logger:      logger,
		idleTTL:     idleTTL,
		stores:      make(map[string]*liveStore),
		stopCleanup: make(chan struct{}),
	}

	s.wg.Add(1)
	go s.cleanupLoop()

	return s
}

// NewSessionID issues an identifier for a fresh cart.
func (s *Sessions) NewSessionID() string {
	return uuid.NewString()
}

// Open returns the live store for sessionID, loading it on first use.
func (s *Sessions) Open(ctx context.Context, sessionID string) (*Store, error) {
	s.mu.Lock()
	if ls, ok := s.stores[sessionID]; ok {
		ls.lastUsed = time.Now()
		s.mu.Unlock()
		return ls.store, nil
	}
	s.mu.Unlock()

	v, err, _ := s.sfg.Do(sessionID, func() (interface{}, error) {
		store, err := Load(ctx, sessionID, s.persister)
		if err != nil {
			s.logger.Error("cart load failed", zap.String("session_id", sessionID), zap.Error(err))
			return nil, err
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if ls, ok := s.stores[sessionID]; ok {
			return ls.store, nil
		}
		s.stores[sessionID] = &liveStore{store: store, lastUsed: time.Now()}
		return store, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*Store), nil
}

// Live is the number of stores currently held in memory.
func (s *Sessions) Live() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.stores)
}

func (s *Sessions) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.evictIdle(time.Now())
		case <-s.stopCleanup:
			return
		}
	}
}

func (s *Sessions) evictIdle(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, ls := range s.stores {
		if now.Sub(ls.lastUsed) > s.idleTTL {
			delete(s.stores, id)
		}
	}
}

// Close stops the background cleanup and waits for it to finish
func (s *Sessions) Close() error {
	close(s.stopCleanup)
	s.wg.Wait()
	return nil
}
