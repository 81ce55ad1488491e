package watchdog

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/MilkshakeCollective/StachioGo/pkg/models"
)

func scanFixture(total int, blacklisted ...int) (*fakeStore, *fakeConfigs, *fakePlatform) {
	platform := newFakePlatform()
	store := &fakeStore{entries: make(map[string][]models.BlacklistEntry)}

	for i := 0; i < total; i++ {
		userID := fmt.Sprintf("u%03d", i)
		platform.members = append(platform.members, Member{GuildID: "g1", UserID: userID, Username: userID})
	}
	for _, idx := range blacklisted {
		userID := fmt.Sprintf("u%03d", idx)
		store.entries[userID] = []models.BlacklistEntry{entry(int64(idx+1), models.CategoryFiveM)}
	}

	configs := &fakeConfigs{configs: map[string]*models.WatchdogConfig{"g1": models.DefaultWatchdogConfig("g1")}}
	return store, configs, platform
}

func newTestScanner(store *fakeStore, configs *fakeConfigs, platform *fakePlatform, opts ScannerOptions) (*Scanner, *int) {
	exec := NewExecutor(store, configs, platform)
	s := NewScanner(store, exec, platform, opts)

	sleeps := 0
	s.sleep = func(context.Context, time.Duration) { sleeps++ }
	return s, &sleeps
}

func TestScanBatchesAndDelays(t *testing.T) {
	store, configs, platform := scanFixture(25, 0, 12, 24)
	s, sleeps := newTestScanner(store, configs, platform, ScannerOptions{BatchSize: 10, Delay: time.Second})

	report, err := s.Scan(context.Background(), "g1")
	if err != nil {
		t.Fatalf("Scan() returned error: %v", err)
	}

	if report.Total != 25 {
		t.Errorf("Total = %d, want 25", report.Total)
	}
	if report.Batches != 3 {
		t.Errorf("Batches = %d, want 3 for 25 members in batches of 10", report.Batches)
	}
	if report.Applied != 3 {
		t.Errorf("Applied = %d, want 3", report.Applied)
	}
	if report.Skipped != 22 {
		t.Errorf("Skipped = %d, want 22", report.Skipped)
	}
	if report.Failed != 0 || report.Aborted != 0 {
		t.Errorf("Failed = %d, Aborted = %d, want 0/0", report.Failed, report.Aborted)
	}
	if *sleeps != 3 {
		t.Errorf("delay paid %d times, want only the 3 blacklisted members", *sleeps)
	}
	if report.RunID == "" {
		t.Error("report should carry a run ID")
	}
}

func TestScanExactBatchBoundary(t *testing.T) {
	store, configs, platform := scanFixture(20)
	s, _ := newTestScanner(store, configs, platform, ScannerOptions{BatchSize: 10})

	report, err := s.Scan(context.Background(), "g1")
	if err != nil {
		t.Fatalf("Scan() returned error: %v", err)
	}
	if report.Batches != 2 {
		t.Errorf("Batches = %d, want 2 for exactly 20 members", report.Batches)
	}
	if report.Skipped != 20 {
		t.Errorf("Skipped = %d, want 20", report.Skipped)
	}
}

func TestScanEmptyGuild(t *testing.T) {
	store, configs, platform := scanFixture(0)
	s, _ := newTestScanner(store, configs, platform, ScannerOptions{BatchSize: 10})

	report, err := s.Scan(context.Background(), "g1")
	if err != nil {
		t.Fatalf("Scan() returned error: %v", err)
	}
	if report.Total != 0 || report.Batches != 0 {
		t.Errorf("empty guild should produce an empty report, got %+v", report)
	}
}

func TestScanCancellation(t *testing.T) {
	store, configs, platform := scanFixture(30)
	s, _ := newTestScanner(store, configs, platform, ScannerOptions{BatchSize: 10})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := s.Scan(ctx, "g1")
	if err != nil {
		t.Fatalf("Scan() returned error: %v", err)
	}
	if !report.Cancelled {
		t.Error("report should be marked cancelled")
	}
	if report.Batches != 0 {
		t.Errorf("Batches = %d, want 0 when cancelled before the first batch", report.Batches)
	}
}

func TestScanMemberListFailure(t *testing.T) {
	store, configs, platform := scanFixture(0)
	platform.listErr = errors.New("missing GuildMembers intent")
	s, _ := newTestScanner(store, configs, platform, ScannerOptions{BatchSize: 10})

	if _, err := s.Scan(context.Background(), "g1"); err == nil {
		t.Error("failing to list members should abort the scan with an error")
	}
}

func TestScanMemberFailureDoesNotAbortBatch(t *testing.T) {
	store, configs, platform := scanFixture(5, 1, 3)
	s, _ := newTestScanner(store, configs, platform, ScannerOptions{BatchSize: 10})

	// The second lookup per blacklisted member happens inside Enforce; fail
	// the store after the scanner's own pre-check to count it as a failure.
	banErr := errors.New("api 500")
	platform.banErr = banErr
	configs.configs["g1"].FiveMPunishment = models.PunishmentBan

	report, err := s.Scan(context.Background(), "g1")
	if err != nil {
		t.Fatalf("Scan() returned error: %v", err)
	}
	if report.Failed != 2 {
		t.Errorf("Failed = %d, want 2", report.Failed)
	}
	if report.Skipped != 3 {
		t.Errorf("Skipped = %d, want 3", report.Skipped)
	}
	if report.Cancelled {
		t.Error("individual failures must not cancel the scan")
	}
}

func TestScanRespectsMaxMembers(t *testing.T) {
	store, configs, platform := scanFixture(50)
	s, _ := newTestScanner(store, configs, platform, ScannerOptions{BatchSize: 10, MaxMembers: 20})

	report, err := s.Scan(context.Background(), "g1")
	if err != nil {
		t.Fatalf("Scan() returned error: %v", err)
	}
	if report.Total != 20 {
		t.Errorf("Total = %d, want the 20-member cap", report.Total)
	}
}
