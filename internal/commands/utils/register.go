package utils

import (
	"github.com/MilkshakeCollective/StachioGo/pkg/discord"
)

// Register registers the /utils command group
func Register(client *discord.ExtendedClient) {
	group := client.CommandHandler.BuildCommandGroup(
		"utils",
		"Comandos de utilidad",
		createPingCommand(),
		createStatsCommand(),
	)

	client.CommandHandler.AddGlobalCommand(group)
}
