package watchdog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MilkshakeCollective/StachioGo/pkg/logger"
	"github.com/MilkshakeCollective/StachioGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

// Executor applies a resolved punishment exactly once per attempt. Each
// attempt walks Resolved → Guarded → {Applied | Aborted}; NoAction is the
// short-circuit terminal when there is nothing to enforce.
type Executor struct {
	store    BlacklistStore
	configs  ConfigStore
	platform Platform
	sinks    []EventSink
}

// NewExecutor wires the executor with explicit handles; no globals so test
// doubles slot in.
func NewExecutor(store BlacklistStore, configs ConfigStore, platform Platform, sinks ...EventSink) *Executor {
	return &Executor{
		store:    store,
		configs:  configs,
		platform: platform,
		sinks:    sinks,
	}
}

// requiredPermsFor returns the platform permissions implied by a punishment
func requiredPermsFor(p models.PunishmentType) []int64 {
	switch p {
	case models.PunishmentRole:
		return []int64{discordgo.PermissionManageRoles}
	case models.PunishmentKick:
		return []int64{discordgo.PermissionKickMembers}
	case models.PunishmentBan:
		return []int64{discordgo.PermissionBanMembers}
	default:
		return nil
	}
}

// Enforce runs the full pipeline for one member: store lookup, severity
// resolution, permission guard and execution. It returns a typed outcome;
// the error is reserved for transient store/platform failures the caller
// may retry or log.
func (e *Executor) Enforce(ctx context.Context, m Member, trigger Trigger) (Outcome, error) {
	cfg, err := e.configs.Get(ctx, m.GuildID)
	if errors.Is(err, models.ErrConfigMissing) {
		return Outcome{Status: StatusNoAction, Punishment: models.PunishmentNone, Reason: "watchdog disabled for this guild"}, nil
	}
	if err != nil {
		return Outcome{}, fmt.Errorf("cargando configuración de watchdog: %w", err)
	}

	entries, err := e.store.ActiveEntries(ctx, m.UserID)
	if err != nil {
		return Outcome{}, fmt.Errorf("consultando entradas activas: %w", err)
	}
	if len(entries) == 0 {
		return Outcome{Status: StatusNoAction, Punishment: models.PunishmentNone, Reason: "no active blacklist entries"}, nil
	}

	decision := Resolve(entries, cfg)
	if decision.NoAction() {
		return Outcome{Status: StatusNoAction, Punishment: models.PunishmentNone, Reason: "all active entries resolve to NONE"}, nil
	}

	return e.apply(ctx, m, cfg, decision, trigger)
}

// apply guards and executes an already-resolved decision
func (e *Executor) apply(_ context.Context, m Member, cfg *models.WatchdogConfig, d Decision, trigger Trigger) (Outcome, error) {
	action := fmt.Sprintf("Watchdog: action user (%s) %s", d.Punishment, m.Username)

	bot, err := e.platform.BotState(m.GuildID)
	if err != nil {
		return Outcome{}, fmt.Errorf("leyendo estado del bot: %w", err)
	}
	ownerID, err := e.platform.GuildOwnerID(m.GuildID)
	if err != nil {
		return Outcome{}, fmt.Errorf("leyendo propietario del servidor: %w", err)
	}
	target, err := e.platform.TargetState(m.GuildID, m.UserID)
	if err != nil {
		return Outcome{}, fmt.Errorf("leyendo estado del miembro: %w", err)
	}

	check := GuardCheck{
		Action:        action,
		Bot:           *bot,
		OwnerID:       ownerID,
		Target:        target,
		RequiredPerms: requiredPermsFor(d.Punishment),
	}

	if d.Punishment == models.PunishmentRole {
		if cfg.RoleID == "" {
			return e.abort(m, cfg, d, action, "no punishment role configured"), nil
		}
		role, err := e.platform.RoleState(m.GuildID, cfg.RoleID)
		if err != nil {
			return Outcome{}, fmt.Errorf("leyendo rol de castigo: %w", err)
		}
		check.TargetRole = role
	}

	if res := EvaluateGuard(check); !res.Allowed {
		return e.abort(m, cfg, d, action, res.Reason), nil
	}

	reason := enforcementReason(d.Source)

	// Best-effort notification before the action; closed DMs never abort
	// enforcement.
	if err := e.platform.SendDirectEmbed(m.UserID, notificationEmbed(d)); err != nil {
		logger.Debug(fmt.Sprintf("No se pudo notificar a %s por MD: %v", m.UserID, err), "Watchdog")
	}

	switch d.Punishment {
	case models.PunishmentWarn:
		// The notification itself is the full action
	case models.PunishmentRole:
		if err := e.platform.AddRole(m.GuildID, m.UserID, cfg.RoleID); err != nil {
			return Outcome{}, fmt.Errorf("asignando rol de castigo: %w", err)
		}
	case models.PunishmentKick:
		if err := e.platform.Kick(m.GuildID, m.UserID, reason); err != nil {
			return Outcome{}, fmt.Errorf("expulsando miembro: %w", err)
		}
	case models.PunishmentBan:
		if err := e.platform.Ban(m.GuildID, m.UserID, reason); err != nil {
			return Outcome{}, fmt.Errorf("baneando miembro: %w", err)
		}
	}

	logger.Info(fmt.Sprintf("Castigo %s aplicado a %s en %s (%s)", d.Punishment, m.UserID, m.GuildID, trigger), "Watchdog")

	// Audit log is best-effort; an unconfigured or deleted channel is not
	// fatal.
	if cfg.LogChannelID != "" {
		if err := e.platform.SendChannelEmbed(cfg.LogChannelID, auditEmbed(m, d, reason)); err != nil {
			logger.Warn(fmt.Sprintf("No se pudo escribir el log de watchdog en %s: %v", cfg.LogChannelID, err), "Watchdog")
		}
	}

	e.publish(Event{
		GuildID:    m.GuildID,
		UserID:     m.UserID,
		Username:   m.Username,
		Punishment: d.Punishment,
		Category:   d.Source.Category,
		Reason:     reason,
		Trigger:    trigger,
		At:         time.Now(),
	})

	return Outcome{
		Status:     StatusApplied,
		Punishment: d.Punishment,
		Source:     d.Source,
		Reason:     reason,
	}, nil
}

// abort records a guard rejection: error-log channel write, operational log,
// no mutation. The rejection is an expected outcome, not an error.
func (e *Executor) abort(m Member, cfg *models.WatchdogConfig, d Decision, action, reason string) Outcome {
	logger.Warn(fmt.Sprintf("Guard rechazó %q en %s: %s", action, m.GuildID, reason), "Watchdog")

	if cfg.ErrorLogChannelID != "" {
		if err := e.platform.SendChannelEmbed(cfg.ErrorLogChannelID, guardRejectionEmbed(action, m.GuildID, reason)); err != nil {
			logger.Debug(fmt.Sprintf("No se pudo escribir el log de errores en %s: %v", cfg.ErrorLogChannelID, err), "Watchdog")
		}
	}

	return Outcome{
		Status:     StatusAborted,
		Punishment: d.Punishment,
		Source:     d.Source,
		Reason:     reason,
	}
}

func (e *Executor) publish(ev Event) {
	for _, sink := range e.sinks {
		sink.PublishEnforcement(ev)
	}
}
