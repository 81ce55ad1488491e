// Package models defines the persisted entities of the watchdog system.
package models

import "time"

// BlacklistStatus represents the lifetime of a blacklist entry
type BlacklistStatus string

const (
	StatusPermanent  BlacklistStatus = "PERMANENT"
	StatusTemporary  BlacklistStatus = "TEMPORARY"
	StatusIndefinite BlacklistStatus = "INDEFINITE"
)

// UserCategory is the fine-grained offense category recorded on an entry.
// Guild configuration never maps these directly; they fold into an
// UmbrellaCategory first (see pkg/watchdog).
type UserCategory string

const (
	CategoryGeneral          UserCategory = "General"
	CategoryScammer          UserCategory = "Scammer"
	CategoryToxicBehavior    UserCategory = "ToxicBehavior"
	CategoryDataLeaker       UserCategory = "DataLeaker"
	CategoryDDoSer           UserCategory = "DDoSer"
	CategoryAltAccount       UserCategory = "AltAccount"
	CategoryExploitAbuser    UserCategory = "ExploitAbuser"
	CategoryCheater          UserCategory = "Cheater"
	CategoryDeveloperAbuse   UserCategory = "DeveloperAbuse"
	CategoryImpersonator     UserCategory = "Impersonator"
	CategoryAdvertiser       UserCategory = "Advertiser"
	CategoryPhisher          UserCategory = "Phisher"
	CategoryFiveM            UserCategory = "FiveM"
	CategoryServerRaider     UserCategory = "ServerRaider"
	CategoryNSFWDistributor  UserCategory = "NSFWDistributor"
	CategoryRoblox           UserCategory = "Roblox"
	CategoryOtherGame        UserCategory = "OtherGame"
	CategoryExploitDeveloper UserCategory = "ExploitDeveloper"
	CategoryMarketplace      UserCategory = "Marketplace"
	CategoryChargebacker     UserCategory = "Chargebacker"
	CategoryFraudulentSeller UserCategory = "FraudulentSeller"
	CategoryAccountSeller    UserCategory = "AccountSeller"
)

// Categories lists every user category in a stable order
var Categories = []UserCategory{
	CategoryGeneral,
	CategoryScammer,
	CategoryToxicBehavior,
	CategoryDataLeaker,
	CategoryDDoSer,
	CategoryAltAccount,
	CategoryExploitAbuser,
	CategoryCheater,
	CategoryDeveloperAbuse,
	CategoryImpersonator,
	CategoryAdvertiser,
	CategoryPhisher,
	CategoryFiveM,
	CategoryServerRaider,
	CategoryNSFWDistributor,
	CategoryRoblox,
	CategoryOtherGame,
	CategoryExploitDeveloper,
	CategoryMarketplace,
	CategoryChargebacker,
	CategoryFraudulentSeller,
	CategoryAccountSeller,
}

// BlacklistedIdentity represents one tracked actor. The Discord ID is the
// document key; entries reference it and are deleted with it.
type BlacklistedIdentity struct {
	DiscordID string    `bson:"_id" json:"discordId"`
	Username  string    `bson:"username" json:"username"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

// BlacklistEntry is one infraction record owned by a BlacklistedIdentity
type BlacklistEntry struct {
	ID         int64           `bson:"_id" json:"id"`
	DiscordID  string          `bson:"discord_id" json:"discordId"`
	Category   UserCategory    `bson:"category" json:"category"`
	Status     BlacklistStatus `bson:"status" json:"status"`
	Active     bool            `bson:"active" json:"active"`
	Community  string          `bson:"community,omitempty" json:"community,omitempty"`
	Reason     string          `bson:"reason,omitempty" json:"reason,omitempty"`
	ReportedBy string          `bson:"reported_by,omitempty" json:"reportedBy,omitempty"`
	Evidence   string          `bson:"evidence,omitempty" json:"evidence,omitempty"`
	ExpiresAt  *time.Time      `bson:"expires_at,omitempty" json:"expiresAt,omitempty"`
	CreatedAt  time.Time       `bson:"created_at" json:"createdAt"`
	UpdatedAt  time.Time       `bson:"updated_at" json:"updatedAt"`
}

// ActiveAt reports whether the entry counts for enforcement at the given
// instant: the active flag must be set and, for temporary entries, the
// expiry must still be in the future. A temporary entry without an expiry
// is treated as lapsed.
func (e *BlacklistEntry) ActiveAt(now time.Time) bool {
	if !e.Active {
		return false
	}
	if e.Status != StatusTemporary {
		return true
	}
	return e.ExpiresAt != nil && e.ExpiresAt.After(now)
}

// Lapsed reports whether a temporary entry has passed its expiry while the
// active flag is still set. The sweeper uses this to flip entries off.
func (e *BlacklistEntry) Lapsed(now time.Time) bool {
	if !e.Active || e.Status != StatusTemporary {
		return false
	}
	return e.ExpiresAt == nil || !e.ExpiresAt.After(now)
}

// EntryData carries the moderator-supplied fields when creating an entry
type EntryData struct {
	Category   UserCategory
	Status     BlacklistStatus
	Community  string
	Reason     string
	ReportedBy string
	Evidence   string
	ExpiresAt  *time.Time
}

// EntryPatch carries partial updates for an existing entry. Nil fields are
// left untouched; ClearExpiry removes the expiry timestamp.
type EntryPatch struct {
	Category    *UserCategory
	Status      *BlacklistStatus
	Active      *bool
	Community   *string
	Reason      *string
	ReportedBy  *string
	Evidence    *string
	ExpiresAt   *time.Time
	ClearExpiry bool
}
