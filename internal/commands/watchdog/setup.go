package watchdog

import (
	"context"
	"fmt"
	"time"

	"github.com/MilkshakeCollective/StachioGo/pkg/discord"
	"github.com/MilkshakeCollective/StachioGo/pkg/errors"
	"github.com/MilkshakeCollective/StachioGo/pkg/logger"
	"github.com/MilkshakeCollective/StachioGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

// createSetupCommand creates the /watchdog setup subcommand
func createSetupCommand(deps Deps) *discord.Command {
	return discord.NewCommand(
		"setup",
		"Activa el watchdog en este servidor con los castigos por defecto",
		"watchdog",
		setupHandler(deps),
	).WithUserPermissions(discordgo.PermissionManageServer)
}

func setupHandler(deps Deps) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		go func() {
			defer errors.RecoverMiddleware()()

			bg, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			cfg, created, err := deps.Configs.Ensure(bg, ctx.Interaction.GuildID)
			if err != nil {
				logger.Error(fmt.Sprintf("Error en setup de watchdog para %s: %v", ctx.Interaction.GuildID, err), "WatchdogCmd")
				ctx.ReplyEphemeral("❌ No se pudo guardar la configuración del watchdog.")
				return
			}

			title := "🛡️ Watchdog activado"
			description := "La configuración por defecto ha sido aplicada. Usa `/watchdog setpunishment` para ajustar cada categoría."
			if !created {
				title = "🛡️ Watchdog ya estaba activo"
				description = "Este servidor ya tenía una configuración; no se modificó nada."
			}

			ctx.ReplyEmbed(&discordgo.MessageEmbed{
				Title:       title,
				Description: description,
				Color:       0x57F287,
				Fields:      configFields(cfg),
				Timestamp:   time.Now().Format(time.RFC3339),
			})
		}()
		return nil
	}
}

// configFields renders a config as embed fields, one per umbrella category
func configFields(cfg *models.WatchdogConfig) []*discordgo.MessageEmbedField {
	fields := make([]*discordgo.MessageEmbedField, 0, len(models.Umbrellas)+2)
	for _, u := range models.Umbrellas {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   string(u),
			Value:  string(cfg.PunishmentFor(u)),
			Inline: true,
		})
	}

	role := "Sin configurar"
	if cfg.RoleID != "" {
		role = fmt.Sprintf("<@&%s>", cfg.RoleID)
	}
	logs := "Sin configurar"
	if cfg.LogChannelID != "" {
		logs = fmt.Sprintf("<#%s>", cfg.LogChannelID)
	}

	fields = append(fields,
		&discordgo.MessageEmbedField{Name: "Rol de castigo", Value: role, Inline: true},
		&discordgo.MessageEmbedField{Name: "Canal de logs", Value: logs, Inline: true},
	)
	return fields
}
