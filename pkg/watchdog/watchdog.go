package watchdog

import (
	"context"
	"time"

	"github.com/MilkshakeCollective/StachioGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

// Member identifies a guild member candidate for enforcement
type Member struct {
	GuildID  string
	UserID   string
	Username string
}

// Trigger records what initiated an enforcement attempt
type Trigger string

const (
	TriggerJoin   Trigger = "join"
	TriggerScan   Trigger = "scan"
	TriggerManual Trigger = "manual"
)

// Status is the terminal state of one enforcement attempt
type Status string

const (
	// StatusNoAction: no config, no active entries, or everything mapped
	// to NONE. Valid terminal outcome, nothing was touched.
	StatusNoAction Status = "no_action"
	// StatusAborted: the permission guard rejected the action before any
	// mutation was attempted.
	StatusAborted Status = "aborted"
	// StatusApplied: the punishment was executed and the audit log written
	StatusApplied Status = "applied"
)

// Outcome is the typed result of one enforcement attempt, returned to the
// caller instead of being swallowed.
type Outcome struct {
	Status     Status
	Punishment models.PunishmentType
	Source     *models.BlacklistEntry
	Reason     string
}

// Event is published to sinks after a punishment is applied
type Event struct {
	GuildID    string                `json:"guildId"`
	UserID     string                `json:"userId"`
	Username   string                `json:"username"`
	Punishment models.PunishmentType `json:"punishment"`
	Category   models.UserCategory   `json:"category"`
	Reason     string                `json:"reason"`
	Trigger    Trigger               `json:"trigger"`
	At         time.Time             `json:"at"`
}

// BlacklistStore is the slice of the persistence layer the engine reads.
// Entries come back ordered by creation so tie-breaking stays stable.
type BlacklistStore interface {
	ActiveEntries(ctx context.Context, discordID string) ([]models.BlacklistEntry, error)
}

// ConfigStore resolves a guild's enforcement configuration. Get returns
// models.ErrConfigMissing for guilds that never ran setup.
type ConfigStore interface {
	Get(ctx context.Context, guildID string) (*models.WatchdogConfig, error)
}

// Platform abstracts the chat platform client. The engine never owns the
// session lifecycle; it only issues the calls listed here.
type Platform interface {
	BotState(guildID string) (*MemberState, error)
	TargetState(guildID, userID string) (*MemberState, error)
	RoleState(guildID, roleID string) (*RoleState, error)
	GuildOwnerID(guildID string) (string, error)
	ListMembers(ctx context.Context, guildID string, limit int) ([]Member, error)
	SendDirectEmbed(userID string, embed *discordgo.MessageEmbed) error
	AddRole(guildID, userID, roleID string) error
	Kick(guildID, userID, reason string) error
	Ban(guildID, userID, reason string) error
	SendChannelEmbed(channelID string, embed *discordgo.MessageEmbed) error
}

// EventSink receives enforcement events (MQTT publisher, web feed).
// Implementations must not block; delivery is best-effort.
type EventSink interface {
	PublishEnforcement(ev Event)
}
