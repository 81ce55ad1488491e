// Package commands provides a registry for organizing bot commands.
// Commands are organized in subdirectories by category (utils, watchdog, dev).
package commands

import (
	"github.com/MilkshakeCollective/StachioGo/internal/commands/dev"
	"github.com/MilkshakeCollective/StachioGo/internal/commands/utils"
	wdcmd "github.com/MilkshakeCollective/StachioGo/internal/commands/watchdog"
	"github.com/MilkshakeCollective/StachioGo/pkg/database"
	"github.com/MilkshakeCollective/StachioGo/pkg/discord"
	"github.com/MilkshakeCollective/StachioGo/pkg/watchdog"
)

// Deps bundles the engine handles the command groups need
type Deps struct {
	Blacklist *database.BlacklistStore
	Configs   *database.WatchdogStore
	Executor  *watchdog.Executor
	Scanner   *watchdog.Scanner
}

// RegisterAll registers all commands with the Discord client
func RegisterAll(client *discord.ExtendedClient, deps Deps) {
	// Utility commands
	utils.Register(client)

	// Watchdog configuration and scans (/watchdog ...)
	wdcmd.Register(client, wdcmd.Deps{
		Configs: deps.Configs,
		Scanner: deps.Scanner,
	})

	// Developer commands, dev guild only (/dev ...)
	dev.Register(client, dev.Deps{
		Blacklist: deps.Blacklist,
		Executor:  deps.Executor,
	})
}
