package watchdog

import (
	"testing"

	"github.com/MilkshakeCollective/StachioGo/pkg/models"
)

func entry(id int64, category models.UserCategory) models.BlacklistEntry {
	return models.BlacklistEntry{
		ID:       id,
		Category: category,
		Status:   models.StatusPermanent,
		Active:   true,
	}
}

func TestResolveHighestSeverityWins(t *testing.T) {
	cfg := models.DefaultWatchdogConfig("g1") // General BAN, FiveM WARN

	forward := []models.BlacklistEntry{entry(1, models.CategoryFiveM), entry(2, models.CategoryGeneral)}
	backward := []models.BlacklistEntry{entry(2, models.CategoryGeneral), entry(1, models.CategoryFiveM)}

	for name, entries := range map[string][]models.BlacklistEntry{"warn-then-ban": forward, "ban-then-warn": backward} {
		t.Run(name, func(t *testing.T) {
			d := Resolve(entries, cfg)
			if d.Punishment != models.PunishmentBan {
				t.Errorf("Punishment = %s, want BAN", d.Punishment)
			}
			if d.Source == nil || d.Source.ID != 2 {
				t.Errorf("Source should be the BAN entry (ID 2)")
			}
		})
	}
}

func TestResolveTieKeepsFirstEntry(t *testing.T) {
	cfg := models.DefaultWatchdogConfig("g1")

	// Both categories fold into General; same severity, first wins.
	entries := []models.BlacklistEntry{entry(10, models.CategoryScammer), entry(20, models.CategoryCheater)}

	d := Resolve(entries, cfg)
	if d.Source == nil || d.Source.ID != 10 {
		t.Errorf("tie should keep the first entry encountered, got %+v", d.Source)
	}
}

func TestResolveAllNoneIsNoAction(t *testing.T) {
	cfg := &models.WatchdogConfig{GuildID: "g1"} // every umbrella defaults to NONE

	d := Resolve([]models.BlacklistEntry{entry(1, models.CategoryGeneral), entry(2, models.CategoryRoblox)}, cfg)
	if !d.NoAction() {
		t.Errorf("all-NONE config should resolve to no action, got %s", d.Punishment)
	}
}

func TestResolveEmptyInputs(t *testing.T) {
	cfg := models.DefaultWatchdogConfig("g1")

	if d := Resolve(nil, cfg); !d.NoAction() {
		t.Error("no entries should resolve to no action")
	}
	if d := Resolve([]models.BlacklistEntry{entry(1, models.CategoryGeneral)}, nil); !d.NoAction() {
		t.Error("nil config should resolve to no action")
	}
}

func TestResolveSkipsUnknownCategory(t *testing.T) {
	cfg := models.DefaultWatchdogConfig("g1")

	entries := []models.BlacklistEntry{entry(1, models.UserCategory("Invented")), entry(2, models.CategoryFiveM)}
	d := Resolve(entries, cfg)
	if d.Punishment != models.PunishmentWarn {
		t.Errorf("Punishment = %s, want WARN from the known category", d.Punishment)
	}
	if d.Source == nil || d.Source.ID != 2 {
		t.Error("Source should be the known-category entry")
	}
}

func TestResolveHistoryIsLastFive(t *testing.T) {
	cfg := models.DefaultWatchdogConfig("g1")

	entries := make([]models.BlacklistEntry, 0, 7)
	for i := int64(1); i <= 7; i++ {
		entries = append(entries, entry(i, models.CategoryGeneral))
	}

	d := Resolve(entries, cfg)
	if len(d.History) != 5 {
		t.Fatalf("History length = %d, want 5", len(d.History))
	}
	if d.History[0].ID != 3 || d.History[4].ID != 7 {
		t.Errorf("History should be the last five entries, got IDs %d..%d", d.History[0].ID, d.History[4].ID)
	}
}
