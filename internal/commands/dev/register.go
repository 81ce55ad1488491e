// Package dev provides the developer-only /dev command group. It is only
// registered in the dev guild.
package dev

import (
	"github.com/MilkshakeCollective/StachioGo/pkg/database"
	"github.com/MilkshakeCollective/StachioGo/pkg/discord"
	"github.com/MilkshakeCollective/StachioGo/pkg/watchdog"
	"github.com/bwmarrin/discordgo"
)

// Deps are the handles the /dev commands operate on
type Deps struct {
	Blacklist *database.BlacklistStore
	Executor  *watchdog.Executor
}

// Register registers all dev commands as /dev subcommands (only in dev guild)
func Register(client *discord.ExtendedClient, deps Deps) {
	evalCmd := CreateEvalCommand()

	// Build the blacklist subcommand group
	blacklistGroup := client.CommandHandler.BuildSubcommandGroup(
		"dev",
		"blacklist",
		"Gestión de la blacklist global",
		createBlacklistAddCommand(deps),
		createBlacklistUpdateCommand(deps),
		createBlacklistDeleteCommand(deps),
		createBlacklistGetCommand(deps),
		createBlacklistInfoCommand(deps),
		createBlacklistRemoveUserCommand(deps),
		createBlacklistEnforceCommand(deps),
	)

	// Build the /dev command group with all subcommands
	devGroup := &discordgo.ApplicationCommand{
		Name:        "dev",
		Description: "Comandos de desarrollo",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        evalCmd.Name,
				Description: evalCmd.Description,
				Options:     evalCmd.Options,
			},
			blacklistGroup,
		},
	}

	// Register the individual commands in the command map
	client.Commands.Set("dev.eval", evalCmd)

	// Register the command group as dev-only command
	client.CommandHandler.AddDevCommand(devGroup)
}
