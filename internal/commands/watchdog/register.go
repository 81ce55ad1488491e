// Package watchdog provides the guild-facing /watchdog command group for
// configuring and running blacklist enforcement.
package watchdog

import (
	"github.com/MilkshakeCollective/StachioGo/pkg/database"
	"github.com/MilkshakeCollective/StachioGo/pkg/discord"
	"github.com/MilkshakeCollective/StachioGo/pkg/watchdog"
)

// Deps are the engine handles the /watchdog commands operate on
type Deps struct {
	Configs *database.WatchdogStore
	Scanner *watchdog.Scanner
}

// Register registers the /watchdog command group
func Register(client *discord.ExtendedClient, deps Deps) {
	group := client.CommandHandler.BuildCommandGroup(
		"watchdog",
		"Configura y ejecuta la protección de blacklist",
		createSetupCommand(deps),
		createSetPunishmentCommand(deps),
		createSetRoleCommand(deps),
		createSetLogCommand(deps),
		createSetErrorLogCommand(deps),
		createScanCommand(deps),
	)

	client.CommandHandler.AddGlobalCommand(group)
}
