// Package discord provides the Discord-backed platform adapter for the
// watchdog engine.
package discord

import (
	"context"
	"fmt"
	"sort"

	"github.com/MilkshakeCollective/StachioGo/pkg/watchdog"
	"github.com/bwmarrin/discordgo"
)

// Platform adapts a discordgo session to the calls the watchdog engine
// needs. State cache reads are preferred; REST is the fallback.
type Platform struct {
	session *discordgo.Session
}

// NewPlatform wraps the session of an ExtendedClient
func NewPlatform(session *discordgo.Session) *Platform {
	return &Platform{session: session}
}

var _ watchdog.Platform = (*Platform)(nil)

// member fetches a guild member from the state cache or the API
func (p *Platform) member(guildID, userID string) (*discordgo.Member, error) {
	if m, err := p.session.State.Member(guildID, userID); err == nil && m != nil {
		return m, nil
	}
	return p.session.GuildMember(guildID, userID)
}

// guildRoles returns the guild's roles keyed by ID
func (p *Platform) guildRoles(guildID string) (map[string]*discordgo.Role, error) {
	guild, err := p.session.State.Guild(guildID)
	if err != nil || guild == nil || len(guild.Roles) == 0 {
		roles, err := p.session.GuildRoles(guildID)
		if err != nil {
			return nil, err
		}
		byID := make(map[string]*discordgo.Role, len(roles))
		for _, r := range roles {
			byID[r.ID] = r
		}
		return byID, nil
	}

	byID := make(map[string]*discordgo.Role, len(guild.Roles))
	for _, r := range guild.Roles {
		byID[r.ID] = r
	}
	return byID, nil
}

// memberState computes the guard snapshot for one member: aggregated
// permissions, highest role position and timeout status.
func (p *Platform) memberState(guildID, userID string) (*watchdog.MemberState, error) {
	m, err := p.member(guildID, userID)
	if err != nil {
		return nil, fmt.Errorf("obteniendo miembro %s de %s: %w", userID, guildID, err)
	}

	roles, err := p.guildRoles(guildID)
	if err != nil {
		return nil, fmt.Errorf("obteniendo roles de %s: %w", guildID, err)
	}

	var perms int64
	highest := 0
	if everyone, ok := roles[guildID]; ok {
		perms |= everyone.Permissions
	}
	for _, roleID := range m.Roles {
		role, ok := roles[roleID]
		if !ok {
			continue
		}
		perms |= role.Permissions
		if role.Position > highest {
			highest = role.Position
		}
	}
	if perms&discordgo.PermissionAdministrator != 0 {
		perms = discordgo.PermissionAll
	}

	state := &watchdog.MemberState{
		UserID:         userID,
		HighestRolePos: highest,
		Permissions:    perms,
	}
	if m.User != nil {
		state.Username = m.User.Username
	}
	if m.CommunicationDisabledUntil != nil {
		until := *m.CommunicationDisabledUntil
		state.TimedOutUntil = &until
	}
	return state, nil
}

// BotState returns the guard snapshot for the bot itself
func (p *Platform) BotState(guildID string) (*watchdog.MemberState, error) {
	if p.session.State == nil || p.session.State.User == nil {
		return nil, fmt.Errorf("sesión sin estado de usuario")
	}
	return p.memberState(guildID, p.session.State.User.ID)
}

// TargetState returns the guard snapshot for an enforcement target
func (p *Platform) TargetState(guildID, userID string) (*watchdog.MemberState, error) {
	return p.memberState(guildID, userID)
}

// RoleState returns the guard snapshot for one role
func (p *Platform) RoleState(guildID, roleID string) (*watchdog.RoleState, error) {
	roles, err := p.guildRoles(guildID)
	if err != nil {
		return nil, err
	}
	role, ok := roles[roleID]
	if !ok {
		return nil, fmt.Errorf("rol %s no encontrado en %s", roleID, guildID)
	}
	return &watchdog.RoleState{
		RoleID:   role.ID,
		Name:     role.Name,
		Position: role.Position,
		Managed:  role.Managed,
	}, nil
}

// GuildOwnerID returns the owner of a guild
func (p *Platform) GuildOwnerID(guildID string) (string, error) {
	if guild, err := p.session.State.Guild(guildID); err == nil && guild != nil && guild.OwnerID != "" {
		return guild.OwnerID, nil
	}
	guild, err := p.session.Guild(guildID)
	if err != nil {
		return "", err
	}
	return guild.OwnerID, nil
}

// ListMembers pages through the full member list of a guild. A limit of 0
// means no cap.
func (p *Platform) ListMembers(ctx context.Context, guildID string, limit int) ([]watchdog.Member, error) {
	var members []watchdog.Member
	after := ""

	for {
		if err := ctx.Err(); err != nil {
			return members, err
		}

		page, err := p.session.GuildMembers(guildID, after, 1000)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			break
		}

		for _, m := range page {
			if m.User == nil || m.User.Bot {
				continue
			}
			members = append(members, watchdog.Member{
				GuildID:  guildID,
				UserID:   m.User.ID,
				Username: m.User.Username,
			})
			if limit > 0 && len(members) >= limit {
				return members, nil
			}
		}

		after = page[len(page)-1].User.ID
		if len(page) < 1000 {
			break
		}
	}

	// Stable order keeps batch boundaries deterministic between runs
	sort.Slice(members, func(i, j int) bool { return members[i].UserID < members[j].UserID })
	return members, nil
}

// SendDirectEmbed DMs an embed to a user
func (p *Platform) SendDirectEmbed(userID string, embed *discordgo.MessageEmbed) error {
	channel, err := p.session.UserChannelCreate(userID)
	if err != nil {
		return err
	}
	_, err = p.session.ChannelMessageSendEmbed(channel.ID, embed)
	return err
}

// AddRole assigns a role to a member
func (p *Platform) AddRole(guildID, userID, roleID string) error {
	return p.session.GuildMemberRoleAdd(guildID, userID, roleID)
}

// Kick removes a member from the guild
func (p *Platform) Kick(guildID, userID, reason string) error {
	return p.session.GuildMemberDeleteWithReason(guildID, userID, reason)
}

// Ban bans a member from the guild
func (p *Platform) Ban(guildID, userID, reason string) error {
	return p.session.GuildBanCreateWithReason(guildID, userID, reason, 0)
}

// SendChannelEmbed posts an embed to a guild channel
func (p *Platform) SendChannelEmbed(channelID string, embed *discordgo.MessageEmbed) error {
	_, err := p.session.ChannelMessageSendEmbed(channelID, embed)
	return err
}
