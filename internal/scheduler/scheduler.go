// internal/scheduler/scheduler.go
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/user/sessionboard/internal/types"
)

// Pruner periodically sweeps expired auth-session records out of the
// store backend.
type Pruner struct {
	store    types.AuthSessionStore
	schedule string
	cron     *cron.Cron
}

// cronParser accepts both standard 5-field cron expressions and 6-field
// expressions with an optional seconds field.
var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// New creates a Pruner that sweeps the store on the given cron schedule
// (descriptors like "@every 10m" work too).
func New(store types.AuthSessionStore, schedule string) *Pruner {
	return &Pruner{
		store:    store,
		schedule: schedule,
		cron:     cron.New(cron.WithParser(cronParser)),
	}
}

// Start registers the sweep and starts the cron ticker.
func (p *Pruner) Start() error {
	if _, err := p.cron.AddFunc(p.schedule, p.sweep); err != nil {
		return err
	}
	p.cron.Start()
	return nil
}

// Stop halts the ticker and waits for a running sweep to finish.
func (p *Pruner) Stop() {
	<-p.cron.Stop().Done()
}

func (p *Pruner) sweep() {
	pruned, err := p.store.PruneExpired(context.Background(), time.Now())
	if err != nil {
		slog.Error("auth session prune failed", "error", err)
		return
	}
	if pruned > 0 {
		slog.Info("pruned expired auth sessions", "count", pruned)
	}
}
