package watchdog

import "github.com/MilkshakeCollective/StachioGo/pkg/models"

// historySize is how many recent entries travel with a decision for the
// notification and audit embeds.
const historySize = 5

// Decision is the output of severity resolution: the single punishment to
// apply, the entry that produced it and the recent history slice. It is
// transient and never persisted.
type Decision struct {
	Punishment models.PunishmentType
	Source     *models.BlacklistEntry
	History    []models.BlacklistEntry
}

// NoAction reports whether the decision terminates enforcement without any
// mutation. This is a valid outcome, not an error.
func (d Decision) NoAction() bool {
	return d.Punishment == models.PunishmentNone || d.Source == nil
}

// Resolve maps a set of active blacklist entries to exactly one punishment
// under the guild's configuration. Every entry's category folds into its
// umbrella, the configured punishment is looked up, and the pair with the
// highest severity wins. Ties keep the first entry encountered, so callers
// must pass entries ordered by creation.
func Resolve(entries []models.BlacklistEntry, cfg *models.WatchdogConfig) Decision {
	decision := Decision{Punishment: models.PunishmentNone}
	if cfg == nil || len(entries) == 0 {
		return decision
	}

	for i := range entries {
		umbrella, ok := UmbrellaFor(entries[i].Category)
		if !ok {
			continue
		}
		punishment := cfg.PunishmentFor(umbrella)
		if punishment.Severity() > decision.Punishment.Severity() {
			decision.Punishment = punishment
			decision.Source = &entries[i]
		}
	}

	if decision.Source != nil {
		decision.History = recentHistory(entries)
	}
	return decision
}

// recentHistory returns the last historySize entries by recency
func recentHistory(entries []models.BlacklistEntry) []models.BlacklistEntry {
	if len(entries) <= historySize {
		return entries
	}
	return entries[len(entries)-historySize:]
}
