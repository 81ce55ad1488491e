package watchdog

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
)

// MemberState is the snapshot of a guild member the guard decides over
type MemberState struct {
	UserID         string
	Username       string
	HighestRolePos int
	Permissions    int64
	TimedOutUntil  *time.Time
}

// TimedOut reports whether the member is communication-restricted right now
func (m *MemberState) TimedOut(now time.Time) bool {
	return m.TimedOutUntil != nil && m.TimedOutUntil.After(now)
}

// RoleState is the snapshot of a role the guard decides over
type RoleState struct {
	RoleID   string
	Name     string
	Position int
	Managed  bool
}

// ChannelState carries the bot's effective permissions in one channel,
// overwrites already applied.
type ChannelState struct {
	ChannelID   string
	Name        string
	Permissions int64
}

// GuardCheck is the input to a pre-flight safety check. Target, TargetRole
// and Channel are optional; only the checks for the inputs given run.
type GuardCheck struct {
	Action        string
	Bot           MemberState
	OwnerID       string
	Target        *MemberState
	TargetRole    *RoleState
	Channel       *ChannelState
	RequiredPerms []int64
	Now           time.Time
}

// GuardResult is the outcome of a guard evaluation. A rejection is a soft,
// expected gate: it carries a human-readable reason and is never an error.
type GuardResult struct {
	Allowed bool
	Reason  string
}

func allow() GuardResult { return GuardResult{Allowed: true} }

func reject(format string, args ...interface{}) GuardResult {
	return GuardResult{Reason: fmt.Sprintf(format, args...)}
}

// permNames maps the permission bits the watchdog requests to readable names
var permNames = map[int64]string{
	discordgo.PermissionManageRoles:     "ManageRoles",
	discordgo.PermissionKickMembers:     "KickMembers",
	discordgo.PermissionBanMembers:      "BanMembers",
	discordgo.PermissionViewChannel:     "ViewChannel",
	discordgo.PermissionSendMessages:    "SendMessages",
	discordgo.PermissionModerateMembers: "ModerateMembers",
}

// PermissionName returns a readable name for a permission bit
func PermissionName(perm int64) string {
	if name, ok := permNames[perm]; ok {
		return name
	}
	return fmt.Sprintf("0x%x", perm)
}

// EvaluateGuard decides whether the bot may safely perform the intended
// action. Checks run in a fixed order and short-circuit on the first
// violation with a descriptive reason.
func EvaluateGuard(c GuardCheck) GuardResult {
	now := c.Now
	if now.IsZero() {
		now = time.Now()
	}

	// 1. The bot itself must not be timed out
	if c.Bot.TimedOut(now) {
		return reject("cannot perform %q — bot is timed out", c.Action)
	}

	// 2. Guild-level permission set
	for _, perm := range c.RequiredPerms {
		if c.Bot.Permissions&perm == 0 {
			return reject("missing required permission %s for %q", PermissionName(perm), c.Action)
		}
	}

	// 3. Channel-scoped permissions; overwrites can revoke guild grants
	if c.Channel != nil {
		for _, perm := range c.RequiredPerms {
			if c.Channel.Permissions&perm == 0 {
				return reject("missing channel permission %s in #%s", PermissionName(perm), c.Channel.Name)
			}
		}
	}

	// 4. Role hierarchy against a target member
	if c.Target != nil {
		if c.Target.UserID == c.OwnerID {
			return reject("cannot %s the server owner", c.Action)
		}
		if c.Target.HighestRolePos >= c.Bot.HighestRolePos {
			return reject("cannot %s member with equal or higher role", c.Action)
		}
	}

	// 5. Target role checks
	if c.TargetRole != nil {
		if c.TargetRole.Managed {
			return reject("cannot %s a managed role (%s)", c.Action, c.TargetRole.Name)
		}
		if c.TargetRole.Position >= c.Bot.HighestRolePos {
			return reject("cannot %s a role higher or equal to bot's highest role", c.Action)
		}
	}

	// 6. ManageRoles inside a channel also needs the channel to be visible
	if c.Channel != nil && containsPerm(c.RequiredPerms, discordgo.PermissionManageRoles) {
		hasGlobal := c.Bot.Permissions&discordgo.PermissionManageRoles != 0
		hasChannel := c.Channel.Permissions&discordgo.PermissionManageRoles != 0
		if !hasGlobal && !hasChannel {
			return reject("cannot %s — missing ManageRoles permission (globally and in #%s)", c.Action, c.Channel.Name)
		}
		if c.Channel.Permissions&discordgo.PermissionViewChannel == 0 {
			return reject("cannot %s — missing ViewChannel permission for #%s", c.Action, c.Channel.Name)
		}
	}

	return allow()
}

func containsPerm(perms []int64, perm int64) bool {
	for _, p := range perms {
		if p == perm {
			return true
		}
	}
	return false
}
