package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/user/sessionboard/internal/state"
	"github.com/user/sessionboard/internal/types"
)

func TestSweepPrunesExpired(t *testing.T) {
	store := state.NewMemoryStore()
	ctx := context.Background()

	now := time.Now()
	expired := &types.AuthSession{ID: types.NewAuthSessionID(), ExpiresAt: now.Add(-time.Hour)}
	live := &types.AuthSession{ID: types.NewAuthSessionID(), Authenticated: true, ExpiresAt: now.Add(time.Hour)}
	for _, sess := range []*types.AuthSession{expired, live} {
		if err := store.Put(ctx, sess); err != nil {
			t.Fatal(err)
		}
	}

	p := New(store, "@every 10m")
	p.sweep()

	if got, _ := store.Get(ctx, live.ID); got == nil {
		t.Error("live session must survive the sweep")
	}
	if n, _ := store.PruneExpired(ctx, now); n != 0 {
		t.Error("expired session should already be gone")
	}
}

func TestStartRejectsInvalidSchedule(t *testing.T) {
	p := New(state.NewMemoryStore(), "not a schedule")
	if err := p.Start(); err == nil {
		p.Stop()
		t.Fatal("expected schedule parse error")
	}
}

func TestStartStop(t *testing.T) {
	p := New(state.NewMemoryStore(), "@every 1h")
	if err := p.Start(); err != nil {
		t.Fatal(err)
	}
	p.Stop()
}
