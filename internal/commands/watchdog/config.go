package watchdog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MilkshakeCollective/StachioGo/pkg/discord"
	apperrors "github.com/MilkshakeCollective/StachioGo/pkg/errors"
	"github.com/MilkshakeCollective/StachioGo/pkg/logger"
	"github.com/MilkshakeCollective/StachioGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

// umbrellaChoices builds the option choices for the umbrella categories
func umbrellaChoices() []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(models.Umbrellas))
	for _, u := range models.Umbrellas {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  string(u),
			Value: string(u),
		})
	}
	return choices
}

// punishmentChoices builds the option choices for the punishment types
func punishmentChoices() []*discordgo.ApplicationCommandOptionChoice {
	punishments := []models.PunishmentType{
		models.PunishmentNone,
		models.PunishmentWarn,
		models.PunishmentRole,
		models.PunishmentKick,
		models.PunishmentBan,
	}
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(punishments))
	for _, p := range punishments {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  string(p),
			Value: string(p),
		})
	}
	return choices
}

// createSetPunishmentCommand creates the /watchdog setpunishment subcommand
func createSetPunishmentCommand(deps Deps) *discord.Command {
	return discord.NewCommand(
		"setpunishment",
		"Cambia el castigo de una categoría de blacklist",
		"watchdog",
		setPunishmentHandler(deps),
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "categoria",
			Description: "Categoría a configurar",
			Required:    true,
			Choices:     umbrellaChoices(),
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "castigo",
			Description: "Castigo a aplicar",
			Required:    true,
			Choices:     punishmentChoices(),
		},
	).WithUserPermissions(discordgo.PermissionManageServer)
}

func setPunishmentHandler(deps Deps) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		go func() {
			defer apperrors.RecoverMiddleware()()

			umbrella := models.UmbrellaCategory(ctx.GetStringOption("categoria"))
			punishment := models.PunishmentType(ctx.GetStringOption("castigo"))

			bg, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			cfg, err := deps.Configs.SetPunishment(bg, ctx.Interaction.GuildID, umbrella, punishment)
			if replyConfigError(ctx, err, "castigo") {
				return
			}

			logger.Info(fmt.Sprintf("Castigo de %s cambiado a %s en %s", umbrella, punishment, ctx.Interaction.GuildID), "WatchdogCmd")
			ctx.ReplyEmbed(&discordgo.MessageEmbed{
				Title:       "✅ Castigo actualizado",
				Description: fmt.Sprintf("La categoría **%s** ahora aplica **%s**.", umbrella, punishment),
				Color:       0x57F287,
				Fields:      configFields(cfg),
			})
		}()
		return nil
	}
}

// createSetRoleCommand creates the /watchdog setrole subcommand
func createSetRoleCommand(deps Deps) *discord.Command {
	return discord.NewCommand(
		"setrole",
		"Define el rol que asigna el castigo ROLE",
		"watchdog",
		setRoleHandler(deps),
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionRole,
			Name:        "rol",
			Description: "Rol de castigo",
			Required:    true,
		},
	).WithUserPermissions(discordgo.PermissionManageServer)
}

func setRoleHandler(deps Deps) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		go func() {
			defer apperrors.RecoverMiddleware()()

			role := ctx.GetRoleOption("rol")
			if role == nil {
				ctx.ReplyEphemeral("❌ Debes indicar un rol válido.")
				return
			}
			if role.Managed {
				ctx.ReplyEphemeral("❌ No se puede usar un rol gestionado por una integración.")
				return
			}

			bg, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if _, err := deps.Configs.SetRole(bg, ctx.Interaction.GuildID, role.ID); replyConfigError(ctx, err, "rol") {
				return
			}

			ctx.Reply(fmt.Sprintf("✅ El rol de castigo ahora es <@&%s>.", role.ID))
		}()
		return nil
	}
}

// createSetLogCommand creates the /watchdog setlog subcommand
func createSetLogCommand(deps Deps) *discord.Command {
	return discord.NewCommand(
		"setlog",
		"Define el canal de logs de acciones del watchdog",
		"watchdog",
		setLogHandler(deps, false),
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionChannel,
			Name:        "canal",
			Description: "Canal de logs",
			Required:    true,
			ChannelTypes: []discordgo.ChannelType{
				discordgo.ChannelTypeGuildText,
			},
		},
	).WithUserPermissions(discordgo.PermissionManageServer)
}

// createSetErrorLogCommand creates the /watchdog seterrorlog subcommand
func createSetErrorLogCommand(deps Deps) *discord.Command {
	return discord.NewCommand(
		"seterrorlog",
		"Define el canal donde se reportan los rechazos del guard",
		"watchdog",
		setLogHandler(deps, true),
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionChannel,
			Name:        "canal",
			Description: "Canal de errores",
			Required:    true,
			ChannelTypes: []discordgo.ChannelType{
				discordgo.ChannelTypeGuildText,
			},
		},
	).WithUserPermissions(discordgo.PermissionManageServer)
}

func setLogHandler(deps Deps, errorLog bool) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		go func() {
			defer apperrors.RecoverMiddleware()()

			channel := ctx.GetChannelOption("canal")
			if channel == nil {
				ctx.ReplyEphemeral("❌ Debes indicar un canal válido.")
				return
			}

			bg, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			var err error
			if errorLog {
				_, err = deps.Configs.SetErrorLogChannel(bg, ctx.Interaction.GuildID, channel.ID)
			} else {
				_, err = deps.Configs.SetLogChannel(bg, ctx.Interaction.GuildID, channel.ID)
			}
			if replyConfigError(ctx, err, "canal") {
				return
			}

			kind := "logs"
			if errorLog {
				kind = "errores"
			}
			ctx.Reply(fmt.Sprintf("✅ El canal de %s ahora es <#%s>.", kind, channel.ID))
		}()
		return nil
	}
}

// replyConfigError maps store errors to user feedback; returns true when the
// handler should stop.
func replyConfigError(ctx *discord.CommandContext, err error, what string) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, models.ErrConfigMissing) {
		ctx.ReplyEphemeral("❌ El watchdog no está configurado en este servidor. Ejecuta `/watchdog setup` primero.")
		return true
	}
	logger.Error(fmt.Sprintf("Error guardando %s de watchdog: %v", what, err), "WatchdogCmd")
	ctx.ReplyEphemeral("❌ No se pudo guardar la configuración.")
	return true
}
