package watchdog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MilkshakeCollective/StachioGo/pkg/logger"
)

// SweepStore deactivates lapsed temporary entries in bulk
type SweepStore interface {
	SweepExpired(ctx context.Context, now time.Time) (int64, error)
}

// Sweeper periodically flips the active flag off on temporary entries whose
// expiry has passed. The store also filters lapsed entries at read time, so
// the sweeper only keeps the persisted data honest.
type Sweeper struct {
	store    SweepStore
	interval time.Duration
	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
}

// NewSweeper builds a sweeper with the given interval
func NewSweeper(store SweepStore, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &Sweeper{
		store:    store,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start launches the sweep goroutine. One immediate sweep runs at startup.
func (s *Sweeper) Start() {
	s.ticker = time.NewTicker(s.interval)

	go func() {
		s.sweep()
		for {
			select {
			case <-s.done:
				return
			case <-s.ticker.C:
				s.sweep()
			}
		}
	}()

	logger.System(fmt.Sprintf("Barrido de expiraciones iniciado (cada %s)", s.interval), "Sweeper")
}

// Stop halts the sweep goroutine; safe to call more than once
func (s *Sweeper) Stop() {
	s.stopOnce.Do(func() {
		if s.ticker != nil {
			s.ticker.Stop()
		}
		close(s.done)
	})
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	swept, err := s.store.SweepExpired(ctx, time.Now())
	if err != nil {
		logger.Error(fmt.Sprintf("Error en barrido de expiraciones: %v", err), "Sweeper")
		return
	}
	if swept > 0 {
		logger.Info(fmt.Sprintf("Barrido de expiraciones: %d entradas desactivadas", swept), "Sweeper")
	}
}
