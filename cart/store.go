package cart

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrNoSession = errors.New("cart session id is required")

// SessionStore keeps one cart per browsing session. Carts are transient:
// they expire after a period of inactivity and are never shared between
// sessions.
type SessionStore interface {
	// Load returns the session's cart, or an empty cart when the session
	// has none.
	Load(ctx context.Context, sessionID string) (*Cart, error)

	// Update runs fn against the session's cart while holding exclusive
	// ownership of it and persists the result. If fn returns an error the
	// stored cart is left exactly as it was.
	Update(ctx context.Context, sessionID string, fn func(*Cart) error) (*Cart, error)

	Delete(ctx context.Context, sessionID string) error
}

type memoryEntry struct {
	cart     *Cart
	lastSeen time.Time
}

// MemoryStore is a SessionStore for single-instance deployments.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]*memoryEntry
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]*memoryEntry),
	}
}

func (s *MemoryStore) Load(_ context.Context, sessionID string) (*Cart, error) {
	if sessionID == "" {
		return nil, ErrNoSession
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.live(sessionID)
	if e == nil {
		return New(), nil
	}
	e.lastSeen = s.now()
	return clone(e.cart), nil
}

func (s *MemoryStore) Update(_ context.Context, sessionID string, fn func(*Cart) error) (*Cart, error) {
	if sessionID == "" {
		return nil, ErrNoSession
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	working := New()
	if e := s.live(sessionID); e != nil {
		working = clone(e.cart)
	}

	if err := fn(working); err != nil {
		return nil, err
	}

	s.entries[sessionID] = &memoryEntry{cart: working, lastSeen: s.now()}
	return clone(working), nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sessionID)
	return nil
}

// Sweep evicts expired sessions and returns how many were dropped.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	dropped := 0
	for id, e := range s.entries {
		if s.expired(e) {
			delete(s.entries, id)
			dropped++
		}
	}
	return dropped
}

// live returns the entry for id, evicting it first if it has expired.
// Callers hold s.mu.
func (s *MemoryStore) live(id string) *memoryEntry {
	e, ok := s.entries[id]
	if !ok {
		return nil
	}
	if s.expired(e) {
		delete(s.entries, id)
		return nil
	}
	return e
}

func (s *MemoryStore) expired(e *memoryEntry) bool {
	return s.ttl > 0 && s.now().Sub(e.lastSeen) > s.ttl
}

func clone(c *Cart) *Cart {
	return &Cart{Items: c.Lines(), UpdatedAt: c.UpdatedAt}
}
