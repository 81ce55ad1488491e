package watchdog

import (
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
)

func TestEvaluateGuard(t *testing.T) {
	now := time.Now()
	timedOut := now.Add(time.Hour)

	bot := MemberState{
		UserID:         "bot",
		HighestRolePos: 10,
		Permissions:    discordgo.PermissionBanMembers | discordgo.PermissionKickMembers | discordgo.PermissionManageRoles,
	}

	tests := []struct {
		name    string
		check   GuardCheck
		allowed bool
		reason  string
	}{
		{
			name: "allowed ban on lower member",
			check: GuardCheck{
				Action:        "ban",
				Bot:           bot,
				OwnerID:       "owner",
				Target:        &MemberState{UserID: "u1", HighestRolePos: 3},
				RequiredPerms: []int64{discordgo.PermissionBanMembers},
				Now:           now,
			},
			allowed: true,
		},
		{
			name: "bot timed out",
			check: GuardCheck{
				Action: "ban",
				Bot:    MemberState{UserID: "bot", HighestRolePos: 10, Permissions: bot.Permissions, TimedOutUntil: &timedOut},
				Now:    now,
			},
			allowed: false,
			reason:  "timed out",
		},
		{
			name: "missing guild permission",
			check: GuardCheck{
				Action:        "ban",
				Bot:           MemberState{UserID: "bot", HighestRolePos: 10},
				Target:        &MemberState{UserID: "u1", HighestRolePos: 3},
				RequiredPerms: []int64{discordgo.PermissionBanMembers},
				Now:           now,
			},
			allowed: false,
			reason:  "BanMembers",
		},
		{
			name: "channel overwrite revokes permission",
			check: GuardCheck{
				Action:        "log",
				Bot:           bot,
				Channel:       &ChannelState{ChannelID: "c1", Name: "logs", Permissions: 0},
				RequiredPerms: []int64{discordgo.PermissionBanMembers},
				Now:           now,
			},
			allowed: false,
			reason:  "channel permission",
		},
		{
			name: "target is server owner",
			check: GuardCheck{
				Action:        "ban",
				Bot:           bot,
				OwnerID:       "u1",
				Target:        &MemberState{UserID: "u1", HighestRolePos: 1},
				RequiredPerms: []int64{discordgo.PermissionBanMembers},
				Now:           now,
			},
			allowed: false,
			reason:  "server owner",
		},
		{
			name: "target with equal role position",
			check: GuardCheck{
				Action:        "kick",
				Bot:           bot,
				Target:        &MemberState{UserID: "u1", HighestRolePos: 10},
				RequiredPerms: []int64{discordgo.PermissionKickMembers},
				Now:           now,
			},
			allowed: false,
			reason:  "equal or higher role",
		},
		{
			name: "target with higher role position",
			check: GuardCheck{
				Action:        "kick",
				Bot:           bot,
				Target:        &MemberState{UserID: "u1", HighestRolePos: 15},
				RequiredPerms: []int64{discordgo.PermissionKickMembers},
				Now:           now,
			},
			allowed: false,
			reason:  "equal or higher role",
		},
		{
			name: "managed role",
			check: GuardCheck{
				Action:        "assign role",
				Bot:           bot,
				TargetRole:    &RoleState{RoleID: "r1", Name: "Bots", Position: 2, Managed: true},
				RequiredPerms: []int64{discordgo.PermissionManageRoles},
				Now:           now,
			},
			allowed: false,
			reason:  "managed role",
		},
		{
			name: "role above bot",
			check: GuardCheck{
				Action:        "assign role",
				Bot:           bot,
				TargetRole:    &RoleState{RoleID: "r1", Name: "Admin", Position: 12},
				RequiredPerms: []int64{discordgo.PermissionManageRoles},
				Now:           now,
			},
			allowed: false,
			reason:  "higher or equal",
		},
		{
			name: "role assignable below bot",
			check: GuardCheck{
				Action:        "assign role",
				Bot:           bot,
				Target:        &MemberState{UserID: "u1", HighestRolePos: 1},
				TargetRole:    &RoleState{RoleID: "r1", Name: "Muted", Position: 2},
				RequiredPerms: []int64{discordgo.PermissionManageRoles},
				Now:           now,
			},
			allowed: true,
		},
		{
			name: "channel invisible for role management",
			check: GuardCheck{
				Action:        "assign role",
				Bot:           bot,
				Channel:       &ChannelState{ChannelID: "c1", Name: "hidden", Permissions: discordgo.PermissionManageRoles},
				RequiredPerms: []int64{discordgo.PermissionManageRoles},
				Now:           now,
			},
			allowed: false,
			reason:  "ViewChannel",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := EvaluateGuard(tt.check)
			if res.Allowed != tt.allowed {
				t.Fatalf("Allowed = %v, want %v (reason: %q)", res.Allowed, tt.allowed, res.Reason)
			}
			if !tt.allowed {
				if res.Reason == "" {
					t.Error("rejection must carry a reason")
				}
				if !strings.Contains(res.Reason, tt.reason) {
					t.Errorf("Reason = %q, want it to mention %q", res.Reason, tt.reason)
				}
			}
		})
	}
}

func TestPermissionName(t *testing.T) {
	if got := PermissionName(discordgo.PermissionBanMembers); got != "BanMembers" {
		t.Errorf("PermissionName = %s, want BanMembers", got)
	}
	if got := PermissionName(1 << 40); !strings.HasPrefix(got, "0x") {
		t.Errorf("unknown permission should render as hex, got %s", got)
	}
}
