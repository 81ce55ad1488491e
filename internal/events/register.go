// Package events provides a registry for organizing bot events.
// Events are organized by category (ready, guild, member).
package events

import (
	"github.com/MilkshakeCollective/StachioGo/pkg/discord"
	"github.com/MilkshakeCollective/StachioGo/pkg/logger"
	"github.com/MilkshakeCollective/StachioGo/pkg/watchdog"
)

// RegisterAll registers all events with the Discord client
func RegisterAll(client *discord.ExtendedClient, exec *watchdog.Executor) {
	logger.System("📋 Registrando eventos del bot...", "Events")

	// Ready event (bot startup)
	RegisterReadyEvent(client)

	// Guild events (server join/leave)
	RegisterGuildEvents(client)

	// Member events (join enforcement hook)
	RegisterMemberEvents(client, exec)

	logger.Success("✅ Todos los eventos registrados correctamente", "Events")
}
