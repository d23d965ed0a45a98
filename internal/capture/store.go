package capture

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/converse-backend/internal/domain"
)

// DefaultTTL is how long an unanswered capture stays pending before the
// store forgets it.
const DefaultTTL = time.Hour

// Store holds at most one PendingCapture per session. Get returns (nil, nil)
// when nothing is pending. Delete reports whether a record existed, so a
// cancel racing a validation consume resolves to exactly one winner. Replace
// writes only while the stored record still carries pc's ContinuationID, so
// a cancel landing mid-validation is never overwritten.
type Store interface {
	Get(ctx context.Context, sessionID uuid.UUID) (*domain.PendingCapture, error)
	Put(ctx context.Context, pc *domain.PendingCapture) error
	Replace(ctx context.Context, pc *domain.PendingCapture) (bool, error)
	Delete(ctx context.Context, sessionID uuid.UUID) (bool, error)
}

// MemoryStore is a process-local Store. Production wiring uses the Redis
// store; this one backs tests and single-node development.
type MemoryStore struct {
	mu  sync.Mutex
	m   map[uuid.UUID]domain.PendingCapture
	exp map[uuid.UUID]time.Time
	ttl time.Duration
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		m:   map[uuid.UUID]domain.PendingCapture{},
		exp: map[uuid.UUID]time.Time{},
		ttl: DefaultTTL,
	}
}

func (s *MemoryStore) Get(_ context.Context, sessionID uuid.UUID) (*domain.PendingCapture, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pc, ok := s.m[sessionID]
	if !ok {
		return nil, nil
	}
	if exp, has := s.exp[sessionID]; has && time.Now().After(exp) {
		delete(s.m, sessionID)
		delete(s.exp, sessionID)
		return nil, nil
	}
	cp := pc
	return &cp, nil
}

func (s *MemoryStore) Put(_ context.Context, pc *domain.PendingCapture) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[pc.SessionID] = *pc
	s.exp[pc.SessionID] = time.Now().Add(s.ttl)
	return nil
}

func (s *MemoryStore) Replace(_ context.Context, pc *domain.PendingCapture) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.m[pc.SessionID]
	if !ok || cur.ContinuationID != pc.ContinuationID {
		return false, nil
	}
	if exp, has := s.exp[pc.SessionID]; has && time.Now().After(exp) {
		delete(s.m, pc.SessionID)
		delete(s.exp, pc.SessionID)
		return false, nil
	}
	s.m[pc.SessionID] = *pc
	s.exp[pc.SessionID] = time.Now().Add(s.ttl)
	return true, nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.m[sessionID]
	delete(s.m, sessionID)
	delete(s.exp, sessionID)
	return ok, nil
}
