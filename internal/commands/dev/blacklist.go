package dev

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/MilkshakeCollective/StachioGo/pkg/discord"
	"github.com/MilkshakeCollective/StachioGo/pkg/errors"
	"github.com/MilkshakeCollective/StachioGo/pkg/logger"
	"github.com/MilkshakeCollective/StachioGo/pkg/models"
	"github.com/MilkshakeCollective/StachioGo/pkg/watchdog"
	"github.com/bwmarrin/discordgo"
)

const dbTimeout = 10 * time.Second

// statusChoices builds the option choices for entry statuses
func statusChoices() []*discordgo.ApplicationCommandOptionChoice {
	statuses := []models.BlacklistStatus{
		models.StatusPermanent,
		models.StatusTemporary,
		models.StatusIndefinite,
	}
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(statuses))
	for _, s := range statuses {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  string(s),
			Value: string(s),
		})
	}
	return choices
}

// categoryAutoComplete filters the category list by the typed prefix
func categoryAutoComplete(ctx *discord.CommandContext) {
	typed := strings.ToLower(ctx.GetStringOption("categoria"))

	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, 25)
	for _, c := range models.Categories {
		if typed != "" && !strings.Contains(strings.ToLower(string(c)), typed) {
			continue
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  string(c),
			Value: string(c),
		})
		if len(choices) == 25 {
			break
		}
	}

	if err := ctx.SendAutoCompleteChoices(choices); err != nil {
		logger.Debug(fmt.Sprintf("Error enviando autocompletado de categorías: %v", err), "DevBlacklist")
	}
}

func categoryOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:         discordgo.ApplicationCommandOptionString,
		Name:         "categoria",
		Description:  "Categoría de la infracción",
		Autocomplete: true,
	}
}

// createBlacklistAddCommand creates the /dev blacklist add subcommand
func createBlacklistAddCommand(deps Deps) *discord.Command {
	opt := categoryOption()
	opt.Required = true

	return discord.NewCommand(
		"add",
		"Añade una entrada de blacklist a un usuario",
		"dev",
		blacklistAddHandler(deps),
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario a bloquear",
			Required:    true,
		},
		opt,
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "razon",
			Description: "Razón del bloqueo",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "estado",
			Description: "Duración de la entrada",
			Required:    true,
			Choices:     statusChoices(),
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "comunidad",
			Description: "Comunidad que reporta",
			Required:    false,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "evidencia",
			Description: "Enlace a la evidencia",
			Required:    false,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "dias",
			Description: "Días hasta la expiración (solo TEMPORARY)",
			Required:    false,
		},
	).AsDev().WithAutoComplete(categoryAutoComplete)
}

func blacklistAddHandler(deps Deps) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		go func() {
			defer errors.RecoverMiddleware()()

			user := ctx.GetUserOption("usuario")
			if user == nil {
				ctx.ReplyEphemeral("❌ Debes indicar un usuario válido.")
				return
			}

			category := models.UserCategory(ctx.GetStringOption("categoria"))
			status := models.BlacklistStatus(ctx.GetStringOption("estado"))
			days := ctx.GetIntOption("dias")

			data := models.EntryData{
				Category:   category,
				Status:     status,
				Community:  ctx.GetStringOption("comunidad"),
				Reason:     ctx.GetStringOption("razon"),
				ReportedBy: ctx.User().ID,
				Evidence:   ctx.GetStringOption("evidencia"),
			}

			if status == models.StatusTemporary {
				if days <= 0 {
					ctx.ReplyEphemeral("❌ Una entrada TEMPORARY necesita `dias` mayor que cero.")
					return
				}
				expires := time.Now().AddDate(0, 0, int(days))
				data.ExpiresAt = &expires
			}

			bg, cancel := context.WithTimeout(context.Background(), dbTimeout)
			defer cancel()

			entry, err := deps.Blacklist.AddEntry(bg, user.ID, user.Username, data)
			if err != nil {
				logger.Error(fmt.Sprintf("Error añadiendo entrada de blacklist: %v", err), "DevBlacklist")
				ctx.ReplyEphemeral("❌ No se pudo crear la entrada.")
				return
			}

			ctx.ReplyEphemeralEmbed(entryEmbed("🚫 Entrada creada", 0xE74C3C, entry))
		}()
		return nil
	}
}

// createBlacklistUpdateCommand creates the /dev blacklist update subcommand
func createBlacklistUpdateCommand(deps Deps) *discord.Command {
	return discord.NewCommand(
		"update",
		"Actualiza una entrada de blacklist existente",
		"dev",
		blacklistUpdateHandler(deps),
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "id",
			Description: "ID de la entrada",
			Required:    true,
		},
		categoryOption(),
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "estado",
			Description: "Nueva duración",
			Required:    false,
			Choices:     statusChoices(),
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionBoolean,
			Name:        "activa",
			Description: "Activa o desactiva la entrada",
			Required:    false,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "razon",
			Description: "Nueva razón",
			Required:    false,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "evidencia",
			Description: "Nueva evidencia",
			Required:    false,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "dias",
			Description: "Nueva expiración en días (0 la elimina)",
			Required:    false,
		},
	).AsDev().WithAutoComplete(categoryAutoComplete)
}

func blacklistUpdateHandler(deps Deps) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		go func() {
			defer errors.RecoverMiddleware()()

			entryID := ctx.GetIntOption("id")
			patch := models.EntryPatch{}

			if v := ctx.GetStringOption("categoria"); v != "" {
				c := models.UserCategory(v)
				patch.Category = &c
			}
			if v := ctx.GetStringOption("estado"); v != "" {
				s := models.BlacklistStatus(v)
				patch.Status = &s
			}
			if opt := ctx.GetOption("activa"); opt != nil {
				active := opt.BoolValue()
				patch.Active = &active
			}
			if v := ctx.GetStringOption("razon"); v != "" {
				patch.Reason = &v
			}
			if v := ctx.GetStringOption("evidencia"); v != "" {
				patch.Evidence = &v
			}
			if opt := ctx.GetOption("dias"); opt != nil {
				days := opt.IntValue()
				if days <= 0 {
					patch.ClearExpiry = true
				} else {
					expires := time.Now().AddDate(0, 0, int(days))
					patch.ExpiresAt = &expires
				}
			}

			bg, cancel := context.WithTimeout(context.Background(), dbTimeout)
			defer cancel()

			entry, err := deps.Blacklist.UpdateEntry(bg, entryID, patch)
			if stderrors.Is(err, models.ErrEntryNotFound) {
				ctx.ReplyEphemeral(fmt.Sprintf("❌ No existe la entrada `#%d`.", entryID))
				return
			}
			if err != nil {
				logger.Error(fmt.Sprintf("Error actualizando entrada #%d: %v", entryID, err), "DevBlacklist")
				ctx.ReplyEphemeral("❌ No se pudo actualizar la entrada.")
				return
			}

			ctx.ReplyEphemeralEmbed(entryEmbed("📝 Entrada actualizada", 0xF1C40F, entry))
		}()
		return nil
	}
}

// createBlacklistDeleteCommand creates the /dev blacklist delete subcommand
func createBlacklistDeleteCommand(deps Deps) *discord.Command {
	return discord.NewCommand(
		"delete",
		"Elimina una entrada de blacklist por ID",
		"dev",
		blacklistDeleteHandler(deps),
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "id",
			Description: "ID de la entrada",
			Required:    true,
		},
	).AsDev()
}

func blacklistDeleteHandler(deps Deps) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		go func() {
			defer errors.RecoverMiddleware()()

			entryID := ctx.GetIntOption("id")

			bg, cancel := context.WithTimeout(context.Background(), dbTimeout)
			defer cancel()

			err := deps.Blacklist.DeleteEntry(bg, entryID)
			if stderrors.Is(err, models.ErrEntryNotFound) {
				ctx.ReplyEphemeral(fmt.Sprintf("❌ No existe la entrada `#%d`.", entryID))
				return
			}
			if err != nil {
				logger.Error(fmt.Sprintf("Error eliminando entrada #%d: %v", entryID, err), "DevBlacklist")
				ctx.ReplyEphemeral("❌ No se pudo eliminar la entrada.")
				return
			}

			ctx.ReplyEphemeral(fmt.Sprintf("✅ Entrada `#%d` eliminada.", entryID))
		}()
		return nil
	}
}

// createBlacklistGetCommand creates the /dev blacklist get subcommand
func createBlacklistGetCommand(deps Deps) *discord.Command {
	return discord.NewCommand(
		"get",
		"Muestra una entrada de blacklist por ID",
		"dev",
		blacklistGetHandler(deps),
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "id",
			Description: "ID de la entrada",
			Required:    true,
		},
	).AsDev()
}

func blacklistGetHandler(deps Deps) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		go func() {
			defer errors.RecoverMiddleware()()

			entryID := ctx.GetIntOption("id")

			bg, cancel := context.WithTimeout(context.Background(), dbTimeout)
			defer cancel()

			entry, err := deps.Blacklist.EntryByID(bg, entryID)
			if stderrors.Is(err, models.ErrEntryNotFound) {
				ctx.ReplyEphemeral(fmt.Sprintf("❌ No existe la entrada `#%d`.", entryID))
				return
			}
			if err != nil {
				logger.Error(fmt.Sprintf("Error leyendo entrada #%d: %v", entryID, err), "DevBlacklist")
				ctx.ReplyEphemeral("❌ No se pudo leer la entrada.")
				return
			}

			ctx.ReplyEphemeralEmbed(entryEmbed("📄 Entrada de blacklist", 0x5865F2, entry))
		}()
		return nil
	}
}

// createBlacklistInfoCommand creates the /dev blacklist info subcommand
func createBlacklistInfoCommand(deps Deps) *discord.Command {
	return discord.NewCommand(
		"info",
		"Muestra la identidad y todas las entradas de un usuario",
		"dev",
		blacklistInfoHandler(deps),
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario a consultar",
			Required:    true,
		},
	).AsDev()
}

func blacklistInfoHandler(deps Deps) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		go func() {
			defer errors.RecoverMiddleware()()

			user := ctx.GetUserOption("usuario")
			if user == nil {
				ctx.ReplyEphemeral("❌ Debes indicar un usuario válido.")
				return
			}

			bg, cancel := context.WithTimeout(context.Background(), dbTimeout)
			defer cancel()

			identity, err := deps.Blacklist.FindIdentity(bg, user.ID)
			if stderrors.Is(err, models.ErrIdentityNotFound) {
				ctx.ReplyEphemeral(fmt.Sprintf("✅ <@%s> no está en la blacklist.", user.ID))
				return
			}
			if err != nil {
				logger.Error(fmt.Sprintf("Error leyendo identidad %s: %v", user.ID, err), "DevBlacklist")
				ctx.ReplyEphemeral("❌ No se pudo consultar la blacklist.")
				return
			}

			entries, err := deps.Blacklist.EntriesFor(bg, user.ID)
			if err != nil {
				logger.Error(fmt.Sprintf("Error leyendo entradas de %s: %v", user.ID, err), "DevBlacklist")
				ctx.ReplyEphemeral("❌ No se pudieron leer las entradas.")
				return
			}

			now := time.Now()
			var lines []string
			for _, e := range entries {
				state := "inactiva"
				if e.ActiveAt(now) {
					state = "activa"
				}
				lines = append(lines, fmt.Sprintf("`#%d` **%s** (%s, %s) — %s", e.ID, e.Category, e.Status, state, e.Reason))
			}

			ctx.ReplyEphemeralEmbed(&discordgo.MessageEmbed{
				Title:       fmt.Sprintf("📋 Blacklist de %s", identity.Username),
				Description: strings.Join(lines, "\n"),
				Color:       0x5865F2,
				Fields: []*discordgo.MessageEmbedField{
					{Name: "Usuario", Value: fmt.Sprintf("<@%s>", identity.DiscordID), Inline: true},
					{Name: "Registrado", Value: fmt.Sprintf("<t:%d:R>", identity.CreatedAt.Unix()), Inline: true},
					{Name: "Entradas", Value: fmt.Sprintf("%d", len(entries)), Inline: true},
				},
				Timestamp: time.Now().Format(time.RFC3339),
			})
		}()
		return nil
	}
}

// createBlacklistRemoveUserCommand creates the /dev blacklist remove-user
// subcommand. Removal cascades to every entry of the identity.
func createBlacklistRemoveUserCommand(deps Deps) *discord.Command {
	return discord.NewCommand(
		"remove-user",
		"Elimina a un usuario de la blacklist junto a todas sus entradas",
		"dev",
		blacklistRemoveUserHandler(deps),
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario a desbloquear",
			Required:    true,
		},
	).AsDev()
}

func blacklistRemoveUserHandler(deps Deps) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		go func() {
			defer errors.RecoverMiddleware()()

			user := ctx.GetUserOption("usuario")
			if user == nil {
				ctx.ReplyEphemeral("❌ Debes indicar un usuario válido.")
				return
			}

			bg, cancel := context.WithTimeout(context.Background(), dbTimeout)
			defer cancel()

			err := deps.Blacklist.DeleteIdentity(bg, user.ID)
			if stderrors.Is(err, models.ErrIdentityNotFound) {
				ctx.ReplyEphemeral(fmt.Sprintf("❌ <@%s> no está en la blacklist.", user.ID))
				return
			}
			if err != nil {
				logger.Error(fmt.Sprintf("Error eliminando identidad %s: %v", user.ID, err), "DevBlacklist")
				ctx.ReplyEphemeral("❌ No se pudo eliminar al usuario de la blacklist.")
				return
			}

			logger.Info(fmt.Sprintf("Usuario %s eliminó a %s de la blacklist", ctx.User().ID, user.ID), "DevBlacklist")
			ctx.ReplyEphemeral(fmt.Sprintf("✅ <@%s> fue eliminado de la blacklist junto a todas sus entradas.", user.ID))
		}()
		return nil
	}
}

// createBlacklistEnforceCommand creates the /dev blacklist enforce
// subcommand, a manual trigger of the enforcement pipeline.
func createBlacklistEnforceCommand(deps Deps) *discord.Command {
	return discord.NewCommand(
		"enforce",
		"Ejecuta el pipeline de watchdog contra un miembro de este servidor",
		"dev",
		blacklistEnforceHandler(deps),
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Miembro a evaluar",
			Required:    true,
		},
	).AsDev()
}

func blacklistEnforceHandler(deps Deps) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		go func() {
			defer errors.RecoverMiddleware()()

			user := ctx.GetUserOption("usuario")
			if user == nil {
				ctx.ReplyEphemeral("❌ Debes indicar un usuario válido.")
				return
			}

			bg, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			outcome, err := deps.Executor.Enforce(bg, watchdog.Member{
				GuildID:  ctx.Interaction.GuildID,
				UserID:   user.ID,
				Username: user.Username,
			}, watchdog.TriggerManual)
			if err != nil {
				logger.Error(fmt.Sprintf("Error en enforcement manual de %s: %v", user.ID, err), "DevBlacklist")
				ctx.ReplyEphemeral("❌ El enforcement falló por un error de plataforma o base de datos.")
				return
			}

			ctx.ReplyEphemeral(fmt.Sprintf(
				"Resultado: `%s` | Castigo: `%s` | Motivo: %s",
				outcome.Status, outcome.Punishment, outcome.Reason,
			))
		}()
		return nil
	}
}

// entryEmbed renders one entry with its full metadata
func entryEmbed(title string, color int, e *models.BlacklistEntry) *discordgo.MessageEmbed {
	expires := "Nunca"
	if e.ExpiresAt != nil {
		expires = fmt.Sprintf("<t:%d:R>", e.ExpiresAt.Unix())
	}
	community := e.Community
	if community == "" {
		community = "N/A"
	}
	evidence := e.Evidence
	if evidence == "" {
		evidence = "N/A"
	}

	return &discordgo.MessageEmbed{
		Title: title,
		Color: color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "ID", Value: fmt.Sprintf("`#%d`", e.ID), Inline: true},
			{Name: "Usuario", Value: fmt.Sprintf("<@%s>", e.DiscordID), Inline: true},
			{Name: "Categoría", Value: string(e.Category), Inline: true},
			{Name: "Estado", Value: string(e.Status), Inline: true},
			{Name: "Activa", Value: fmt.Sprintf("%t", e.Active), Inline: true},
			{Name: "Expira", Value: expires, Inline: true},
			{Name: "Comunidad", Value: community, Inline: true},
			{Name: "Reportado por", Value: fmt.Sprintf("<@%s>", e.ReportedBy), Inline: true},
			{Name: "Evidencia", Value: evidence, Inline: true},
			{Name: "Razón", Value: e.Reason, Inline: false},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}
