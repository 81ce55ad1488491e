package watchdog

import (
	"context"
	"fmt"
	"time"

	"github.com/MilkshakeCollective/StachioGo/pkg/discord"
	"github.com/MilkshakeCollective/StachioGo/pkg/errors"
	"github.com/MilkshakeCollective/StachioGo/pkg/logger"
	"github.com/MilkshakeCollective/StachioGo/pkg/watchdog"
	"github.com/bwmarrin/discordgo"
)

// scanTimeout bounds a full guild scan; large guilds at the default pace
// stay well under this.
const scanTimeout = 2 * time.Hour

// createScanCommand creates the /watchdog scan subcommand
func createScanCommand(deps Deps) *discord.Command {
	return discord.NewCommand(
		"scan",
		"Escanea todos los miembros del servidor contra la blacklist",
		"watchdog",
		scanHandler(deps),
	).WithUserPermissions(discordgo.PermissionManageServer).
		WithBotPermissions(discordgo.PermissionBanMembers)
}

func scanHandler(deps Deps) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		go func() {
			defer errors.RecoverMiddleware()()

			// A full scan takes minutes; defer and edit when done
			if err := ctx.Defer(); err != nil {
				logger.Error(fmt.Sprintf("No se pudo diferir la respuesta del escaneo: %v", err), "WatchdogCmd")
				return
			}

			bg, cancel := context.WithTimeout(context.Background(), scanTimeout)
			defer cancel()

			report, err := deps.Scanner.Scan(bg, ctx.Interaction.GuildID)
			if err != nil {
				ctx.EditReply("❌ No se pudo obtener la lista de miembros del servidor.")
				return
			}

			ctx.EditReplyEmbed(scanReportEmbed(report))
		}()
		return nil
	}
}

// scanReportEmbed renders a completed scan as an embed
func scanReportEmbed(r *watchdog.ScanReport) *discordgo.MessageEmbed {
	title := "🔍 Escaneo completado"
	color := 0x57F287
	if r.Cancelled {
		title = "🔍 Escaneo cancelado"
		color = 0xF1C40F
	}

	return &discordgo.MessageEmbed{
		Title: title,
		Color: color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Miembros", Value: fmt.Sprintf("%d", r.Total), Inline: true},
			{Name: "Lotes", Value: fmt.Sprintf("%d", r.Batches), Inline: true},
			{Name: "Duración", Value: r.Duration.Round(time.Second).String(), Inline: true},
			{Name: "Castigos aplicados", Value: fmt.Sprintf("%d", r.Applied), Inline: true},
			{Name: "Abortados por el guard", Value: fmt.Sprintf("%d", r.Aborted), Inline: true},
			{Name: "Sin acción", Value: fmt.Sprintf("%d", r.NoAction+r.Skipped), Inline: true},
			{Name: "Fallos", Value: fmt.Sprintf("%d", r.Failed), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Run %s", r.RunID),
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}
