package watchdog

import (
	"context"
	"testing"
	"time"
)

type fakeSweepStore struct {
	swept chan int64
}

func (f *fakeSweepStore) SweepExpired(context.Context, time.Time) (int64, error) {
	select {
	case f.swept <- 3:
	default:
	}
	return 3, nil
}

func TestSweeperRunsImmediatelyOnStart(t *testing.T) {
	store := &fakeSweepStore{swept: make(chan int64, 1)}
	s := NewSweeper(store, time.Hour)

	s.Start()
	defer s.Stop()

	select {
	case <-store.swept:
	case <-time.After(2 * time.Second):
		t.Fatal("expected an immediate sweep on start")
	}
}

func TestSweeperStopIsIdempotent(t *testing.T) {
	s := NewSweeper(&fakeSweepStore{swept: make(chan int64, 1)}, time.Hour)
	s.Start()

	s.Stop()
	s.Stop() // must not panic
}

func TestSweeperDefaultsInterval(t *testing.T) {
	s := NewSweeper(&fakeSweepStore{swept: make(chan int64, 1)}, 0)
	if s.interval != 15*time.Minute {
		t.Errorf("interval = %s, want the 15m default", s.interval)
	}
}
