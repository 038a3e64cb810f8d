// internal/state/memory.go
package state

import (
	"context"
	"sync"
	"time"

	"github.com/user/sessionboard/internal/types"
)

// MemoryStore is an in-process auth-session store. Sessions do not survive
// a restart; it exists for tests and single-node development.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[types.AuthSessionID]*types.AuthSession
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[types.AuthSessionID]*types.AuthSession)}
}

func (s *MemoryStore) Put(_ context.Context, session *types.AuthSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *session
	s.sessions[session.ID] = &copied
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id types.AuthSessionID) (*types.AuthSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok || sess.Expired(time.Now()) {
		return nil, nil
	}
	copied := *sess
	return &copied, nil
}

func (s *MemoryStore) Delete(_ context.Context, id types.AuthSessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *MemoryStore) PruneExpired(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pruned := 0
	for id, sess := range s.sessions {
		if sess.Expired(now) {
			delete(s.sessions, id)
			pruned++
		}
	}
	return pruned, nil
}
