// internal/types/interfaces.go
package types

import (
	"context"
	"time"
)

// AuthSessionStore persists per-browser auth sessions. Backends are
// swappable (file, sqlite, memory). Get returns (nil, nil) when no live
// record exists for the ID; expired records count as absent.
type AuthSessionStore interface {
	Put(ctx context.Context, session *AuthSession) error
	Get(ctx context.Context, id AuthSessionID) (*AuthSession, error)
	Delete(ctx context.Context, id AuthSessionID) error
	PruneExpired(ctx context.Context, now time.Time) (int, error)
}
