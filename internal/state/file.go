// internal/state/file.go
package state

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/user/sessionboard/internal/types"
)

// FileStore is a JSON-file-backed auth-session store. All records live in
// a single auth_sessions.json under the given directory; writes go through
// a temp file and rename so a crash never leaves a torn file.
type FileStore struct {
	root string
	mu   sync.RWMutex
}

// NewFileStore creates a file-backed store rooted at the given directory.
func NewFileStore(root string) *FileStore {
	return &FileStore{root: root}
}

func (s *FileStore) indexPath() string {
	return filepath.Join(s.root, "auth_sessions.json")
}

func (s *FileStore) load() (map[types.AuthSessionID]*types.AuthSession, error) {
	data, err := os.ReadFile(s.indexPath())
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[types.AuthSessionID]*types.AuthSession), nil
		}
		return nil, fmt.Errorf("read auth sessions: %w", err)
	}

	var sessions []*types.AuthSession
	if err := json.Unmarshal(data, &sessions); err != nil {
		return nil, fmt.Errorf("unmarshal auth sessions: %w", err)
	}

	index := make(map[types.AuthSessionID]*types.AuthSession, len(sessions))
	for _, sess := range sessions {
		index[sess.ID] = sess
	}
	return index, nil
}

func (s *FileStore) save(index map[types.AuthSessionID]*types.AuthSession) error {
	sessions := make([]*types.AuthSession, 0, len(index))
	for _, sess := range index {
		sessions = append(sessions, sess)
	}

	data, err := json.MarshalIndent(sessions, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal auth sessions: %w", err)
	}

	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	// Atomic write: write to temp file then rename
	tmp := s.indexPath() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp auth sessions: %w", err)
	}
	if err := os.Rename(tmp, s.indexPath()); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename temp auth sessions: %w", err)
	}
	return nil
}

// Put inserts or replaces the record for session.ID.
func (s *FileStore) Put(_ context.Context, session *types.AuthSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	index, err := s.load()
	if err != nil {
		return err
	}
	index[session.ID] = session
	return s.save(index)
}

// Get returns the live record for id, or (nil, nil) when the record is
// missing or expired.
func (s *FileStore) Get(_ context.Context, id types.AuthSessionID) (*types.AuthSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	index, err := s.load()
	if err != nil {
		return nil, err
	}
	sess, ok := index[id]
	if !ok || sess.Expired(time.Now()) {
		return nil, nil
	}
	return sess, nil
}

// Delete removes the record for id. Deleting a missing record is not an error.
func (s *FileStore) Delete(_ context.Context, id types.AuthSessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	index, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := index[id]; !ok {
		return nil
	}
	delete(index, id)
	return s.save(index)
}

// PruneExpired drops every record past its expiry and reports how many.
func (s *FileStore) PruneExpired(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index, err := s.load()
	if err != nil {
		return 0, err
	}
	pruned := 0
	for id, sess := range index {
		if sess.Expired(now) {
			delete(index, id)
			pruned++
		}
	}
	if pruned == 0 {
		return 0, nil
	}
	return pruned, s.save(index)
}
