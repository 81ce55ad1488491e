package watchdog

import (
	"fmt"
	"strings"
	"time"

	"github.com/MilkshakeCollective/StachioGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

// Embed colors per punishment kind; colorPrimary covers everything else
const (
	colorPrimary = 0x57F287
	colorWarn    = 0xF1C40F
	colorKick    = 0xE67E22
	colorBan     = 0xE74C3C
)

func punishmentColor(p models.PunishmentType) int {
	switch p {
	case models.PunishmentWarn:
		return colorWarn
	case models.PunishmentKick:
		return colorKick
	case models.PunishmentBan:
		return colorBan
	default:
		return colorPrimary
	}
}

// formatHistory renders the recent-infraction slice shared by the DM and
// audit embeds: id, community, reason and status per entry.
func formatHistory(entries []models.BlacklistEntry) string {
	if len(entries) == 0 {
		return "No recorded history."
	}
	var b strings.Builder
	for _, e := range entries {
		community := e.Community
		if community == "" {
			community = "Unknown"
		}
		reason := e.Reason
		if reason == "" {
			reason = "Not specified"
		}
		fmt.Fprintf(&b, "**`•` Case `#%d`** — %s\n **`•` Reason:** %s\n **`•` Status:** %s\n\n", e.ID, community, reason, e.Status)
	}
	return strings.TrimRight(b.String(), "\n")
}

// notificationEmbed is the best-effort DM sent to the punished user
func notificationEmbed(d Decision) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "🛡️ Stachio - Blacklist Notification",
		Description: "You have been blacklisted by **Stachio** for rule violations.\n\n" +
			"Please review the rules and take corrective action to avoid further punishment.",
		Color: punishmentColor(d.Punishment),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "History", Value: formatHistory(d.History)},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Stachio Watchdog • Please keep this for your records",
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// auditEmbed is posted to the guild's configured log channel after a
// punishment is applied.
func auditEmbed(m Member, d Decision, reason string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "🚨 Watchdog Enforcement",
		Description: fmt.Sprintf(
			"A blacklist action was enforced on **%s** (%s).\n\n**Punishment:** %s\n**Category:** %s\n**Reason:** %s",
			m.Username, m.UserID, d.Punishment, d.Source.Category, reason,
		),
		Color: punishmentColor(d.Punishment),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Recent History", Value: formatHistory(d.History)},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Stachio Watchdog • Log",
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// guardRejectionEmbed is posted to the guild's error-log channel when the
// permission guard aborts an action.
func guardRejectionEmbed(action, guildID, reason string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "❌ Permission Guard Triggered",
		Description: fmt.Sprintf(
			"**Action:** %s\n**Guild:** %s\n**Reason:** %s",
			action, guildID, reason,
		),
		Color:     colorBan,
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// enforcementReason builds the audit reason string attached to kicks/bans
func enforcementReason(source *models.BlacklistEntry) string {
	if source.Reason == "" {
		return fmt.Sprintf("Blacklisted under %s", source.Category)
	}
	return fmt.Sprintf("Blacklisted under %s: %s", source.Category, source.Reason)
}
