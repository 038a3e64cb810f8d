// Package dashboard assembles view data from the upstream sessions API:
// the filtered listing with local status counts, the filter-option
// projection, and the session detail aggregation.
package dashboard

import (
	"context"
	"encoding/json"
	"net/url"
	"sync"

	"github.com/user/sessionboard/internal/types"
)

// Fetcher is the upstream client surface the dashboard needs.
type Fetcher interface {
	Get(ctx context.Context, path string, query url.Values, token string) (json.RawMessage, bool, error)
}

// TokenSource issues a fresh identity token for a user.
type TokenSource interface {
	IssueToken(ctx context.Context, userID string) (string, error)
}

// Service orchestrates upstream calls on behalf of one authenticated
// browser session per request. It holds no per-request state.
type Service struct {
	upstream Fetcher
	tokens   TokenSource

	// Guards token write-back on AuthSession records shared across the
	// detail flow's concurrent sub-fetches.
	mu sync.Mutex
}

func NewService(upstream Fetcher, tokens TokenSource) *Service {
	return &Service{upstream: upstream, tokens: tokens}
}

// fetch re-issues a fresh token immediately before the upstream call and
// records it on the auth session. Redundant within one request, but the
// regenerate-on-every-call policy is deliberate.
func (s *Service) fetch(ctx context.Context, sess *types.AuthSession, path string, query url.Values) (json.RawMessage, bool, error) {
	token, err := s.tokens.IssueToken(ctx, sess.UserID)
	if err != nil {
		return nil, false, err
	}
	s.mu.Lock()
	sess.Token = token
	s.mu.Unlock()
	return s.upstream.Get(ctx, path, query, token)
}
