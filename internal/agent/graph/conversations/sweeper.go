package conversations

import (
	"context"
	"time"

	logx "github.com/PawsConnect/pawsbot/pkg/logger"
)

const (
	DefaultSweepInterval = time.Hour
	DefaultRetention     = 24 * time.Hour
)

// Sweeper evicts stale conversations on a fixed interval, independent of traffic.
type Sweeper struct {
	store    *Store
	interval time.Duration
	maxAge   time.Duration
}

func NewSweeper(store *Store, interval, maxAge time.Duration) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	if maxAge <= 0 {
		maxAge = DefaultRetention
	}
	return &Sweeper{store: store, interval: interval, maxAge: maxAge}
}

// Run blocks until ctx is cancelled.
func (sw *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(sw.interval)
	defer ticker.Stop()

	logx.Debug().Dur("interval", sw.interval).Dur("max_age", sw.maxAge).Msg("Conversation sweeper started")
	for {
		select {
		case <-ctx.Done():
			logx.Debug().Msg("Conversation sweeper stopped")
			return
		case <-ticker.C:
			sw.store.Sweep(sw.maxAge)
		}
	}
}

// Start runs the sweeper in its own goroutine and returns a function that stops it and waits.
func (sw *Sweeper) Start(ctx context.Context) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		sw.Run(ctx)
	}()
	return func() {
		cancel()
		<-done
	}
}
