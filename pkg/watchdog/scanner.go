package watchdog

import (
	"context"
	"fmt"
	"time"

	"github.com/MilkshakeCollective/StachioGo/pkg/logger"
	"github.com/google/uuid"
)

// ScannerOptions are the rate-limit tunables of a guild scan
type ScannerOptions struct {
	// BatchSize members are processed sequentially before the progress log
	BatchSize int
	// Delay is inserted after each member that had active entries. Skipped
	// members incur no delay.
	Delay time.Duration
	// MaxMembers caps a scan defensively; 0 means no cap
	MaxMembers int
}

// DefaultScannerOptions mirrors the historical safe values: batches of 10
// with a 1.5s pause per acted-upon member.
func DefaultScannerOptions() ScannerOptions {
	return ScannerOptions{
		BatchSize:  10,
		Delay:      1500 * time.Millisecond,
		MaxMembers: 25000,
	}
}

// ScanReport summarizes one completed (or cancelled) guild scan
type ScanReport struct {
	RunID     string
	GuildID   string
	Total     int
	Batches   int
	Applied   int
	Aborted   int
	NoAction  int
	Skipped   int
	Failed    int
	Cancelled bool
	Duration  time.Duration
}

// Scanner drives the executor across every member of a guild without
// violating platform rate limits. Failures on individual members are logged
// and never abort the remaining batch.
type Scanner struct {
	store    BlacklistStore
	exec     *Executor
	platform Platform
	opts     ScannerOptions
	sleep    func(ctx context.Context, d time.Duration)
}

// NewScanner builds a scanner over the given engine handles
func NewScanner(store BlacklistStore, exec *Executor, platform Platform, opts ScannerOptions) *Scanner {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultScannerOptions().BatchSize
	}
	return &Scanner{
		store:    store,
		exec:     exec,
		platform: platform,
		opts:     opts,
		sleep:    sleepWithContext,
	}
}

func sleepWithContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

// Scan fetches the full member list and walks it in batches. The only
// condition that aborts a whole scan is failing to fetch the member list;
// cancellation is honored once per batch.
func (s *Scanner) Scan(ctx context.Context, guildID string) (*ScanReport, error) {
	start := time.Now()
	report := &ScanReport{
		RunID:   uuid.New().String(),
		GuildID: guildID,
	}

	members, err := s.platform.ListMembers(ctx, guildID, s.opts.MaxMembers)
	if err != nil {
		return nil, fmt.Errorf("obteniendo lista de miembros de %s: %w", guildID, err)
	}
	report.Total = len(members)

	if len(members) == 0 {
		logger.Info(fmt.Sprintf("[SCAN %s] Sin miembros en el servidor %s", report.RunID, guildID), "Scanner")
		return report, nil
	}

	logger.Info(fmt.Sprintf("[SCAN %s] Iniciando escaneo de blacklist en %s con %d miembros", report.RunID, guildID, len(members)), "Scanner")

	for i := 0; i < len(members); i += s.opts.BatchSize {
		if ctx.Err() != nil {
			report.Cancelled = true
			logger.Warn(fmt.Sprintf("[SCAN %s] Escaneo cancelado en el lote %d", report.RunID, report.Batches+1), "Scanner")
			break
		}

		end := i + s.opts.BatchSize
		if end > len(members) {
			end = len(members)
		}
		report.Batches++

		for _, member := range members[i:end] {
			s.scanMember(ctx, member, report)
		}

		logger.Info(fmt.Sprintf("[SCAN %s] Procesados %d/%d", report.RunID, end, len(members)), "Scanner")
	}

	report.Duration = time.Since(start)
	logger.Success(fmt.Sprintf("[SCAN %s] Escaneo completado en %s: %d aplicados, %d abortados, %d fallidos",
		report.RunID, guildID, report.Applied, report.Aborted, report.Failed), "Scanner")
	return report, nil
}

// scanMember handles one member: skip fast when there is nothing on record,
// otherwise enforce and pay the inter-action delay.
func (s *Scanner) scanMember(ctx context.Context, member Member, report *ScanReport) {
	entries, err := s.store.ActiveEntries(ctx, member.UserID)
	if err != nil {
		report.Failed++
		logger.Error(fmt.Sprintf("[SCAN %s] Error consultando %s: %v", report.RunID, member.UserID, err), "Scanner")
		return
	}
	if len(entries) == 0 {
		report.Skipped++
		return
	}

	outcome, err := s.exec.Enforce(ctx, member, TriggerScan)
	if err != nil {
		report.Failed++
		logger.Error(fmt.Sprintf("[SCAN %s] Error procesando %s: %v", report.RunID, member.UserID, err), "Scanner")
	} else {
		switch outcome.Status {
		case StatusApplied:
			report.Applied++
		case StatusAborted:
			report.Aborted++
		default:
			report.NoAction++
		}
	}

	// Safety delay applies to every acted-upon member, including failures,
	// to bound the burst rate against the platform.
	s.sleep(ctx, s.opts.Delay)
}
