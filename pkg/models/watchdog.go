package models

import "time"

// PunishmentType is the action a guild configures for an umbrella category
type PunishmentType string

const (
	PunishmentNone PunishmentType = "NONE"
	PunishmentWarn PunishmentType = "WARN"
	PunishmentRole PunishmentType = "ROLE"
	PunishmentKick PunishmentType = "KICK"
	PunishmentBan  PunishmentType = "BAN"
)

// Severity returns the total order over punishments. Higher values win when
// multiple blacklist entries map to different punishments.
func (p PunishmentType) Severity() int {
	switch p {
	case PunishmentWarn:
		return 1
	case PunishmentRole:
		return 2
	case PunishmentKick:
		return 3
	case PunishmentBan:
		return 4
	default:
		return 0
	}
}

// Valid reports whether the value is one of the known punishment kinds
func (p PunishmentType) Valid() bool {
	switch p {
	case PunishmentNone, PunishmentWarn, PunishmentRole, PunishmentKick, PunishmentBan:
		return true
	}
	return false
}

// UmbrellaCategory is the coarse grouping a guild assigns one punishment to
type UmbrellaCategory string

const (
	UmbrellaGeneral     UmbrellaCategory = "General"
	UmbrellaFiveM       UmbrellaCategory = "FiveM"
	UmbrellaDiscord     UmbrellaCategory = "Discord"
	UmbrellaRoblox      UmbrellaCategory = "Roblox"
	UmbrellaOtherGame   UmbrellaCategory = "OtherGame"
	UmbrellaMarketplace UmbrellaCategory = "Marketplace"
)

// Umbrellas lists every umbrella category in a stable order
var Umbrellas = []UmbrellaCategory{
	UmbrellaGeneral,
	UmbrellaFiveM,
	UmbrellaDiscord,
	UmbrellaRoblox,
	UmbrellaOtherGame,
	UmbrellaMarketplace,
}

// WatchdogConfig holds a guild's enforcement settings. A guild without a
// document receives no enforcement at all.
type WatchdogConfig struct {
	GuildID               string         `bson:"_id" json:"guildId"`
	GeneralPunishment     PunishmentType `bson:"general_punishment" json:"generalPunishment"`
	FiveMPunishment       PunishmentType `bson:"fivem_punishment" json:"fivemPunishment"`
	DiscordPunishment     PunishmentType `bson:"discord_punishment" json:"discordPunishment"`
	RobloxPunishment      PunishmentType `bson:"roblox_punishment" json:"robloxPunishment"`
	OtherGamePunishment   PunishmentType `bson:"othergame_punishment" json:"otherGamePunishment"`
	MarketplacePunishment PunishmentType `bson:"marketplace_punishment" json:"marketplacePunishment"`
	RoleID                string         `bson:"role_id,omitempty" json:"roleId,omitempty"`
	LogChannelID          string         `bson:"log_channel_id,omitempty" json:"logChannelId,omitempty"`
	ErrorLogChannelID     string         `bson:"error_log_channel_id,omitempty" json:"errorLogChannelId,omitempty"`
	CreatedAt             time.Time      `bson:"created_at" json:"createdAt"`
	UpdatedAt             time.Time      `bson:"updated_at" json:"updatedAt"`
}

// PunishmentFor returns the configured punishment for an umbrella category
func (c *WatchdogConfig) PunishmentFor(u UmbrellaCategory) PunishmentType {
	switch u {
	case UmbrellaGeneral:
		return c.GeneralPunishment
	case UmbrellaFiveM:
		return c.FiveMPunishment
	case UmbrellaDiscord:
		return c.DiscordPunishment
	case UmbrellaRoblox:
		return c.RobloxPunishment
	case UmbrellaOtherGame:
		return c.OtherGamePunishment
	case UmbrellaMarketplace:
		return c.MarketplacePunishment
	default:
		return PunishmentNone
	}
}

// SetPunishmentFor assigns the punishment for an umbrella category. It
// returns false for an unknown category.
func (c *WatchdogConfig) SetPunishmentFor(u UmbrellaCategory, p PunishmentType) bool {
	switch u {
	case UmbrellaGeneral:
		c.GeneralPunishment = p
	case UmbrellaFiveM:
		c.FiveMPunishment = p
	case UmbrellaDiscord:
		c.DiscordPunishment = p
	case UmbrellaRoblox:
		c.RobloxPunishment = p
	case UmbrellaOtherGame:
		c.OtherGamePunishment = p
	case UmbrellaMarketplace:
		c.MarketplacePunishment = p
	default:
		return false
	}
	return true
}

// DefaultWatchdogConfig returns the setup defaults applied by /watchdog setup
func DefaultWatchdogConfig(guildID string) *WatchdogConfig {
	now := time.Now()
	return &WatchdogConfig{
		GuildID:               guildID,
		GeneralPunishment:     PunishmentBan,
		FiveMPunishment:       PunishmentWarn,
		DiscordPunishment:     PunishmentKick,
		RobloxPunishment:      PunishmentWarn,
		OtherGamePunishment:   PunishmentWarn,
		MarketplacePunishment: PunishmentBan,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
}
