// Package events provides event handlers for member events
package events

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

// RegisterMemberEvents registers all member-related event handlers. The join
// handler is the enforcement hook: every new member is checked against the
// blacklist before anything else happens.
func RegisterMemberEvents(client *discord.ExtendedClient, exec *watchdog.Executor) {
	client.Session.AddHandler(onGuildMemberAdd(exec))
	client.Session.AddHandler(onGuildMemberRemove)
}

// onGuildMemberAdd runs the watchdog pipeline against every joining member
func onGuildMemberAdd(exec *watchdog.Executor) func(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
	return func(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
		if m.User == nil || m.User.Bot {
			return
		}

		logger.Info(fmt.Sprintf("👋 Nuevo miembro: %s en servidor %s", m.User.Username, m.GuildID), "Member")

		go func() {
			defer errors.RecoverMiddleware()()

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			outcome, err := exec.Enforce(ctx, watchdog.Member{
				GuildID:  m.GuildID,
				UserID:   m.User.ID,
				Username: m.User.Username,
			}, watchdog.TriggerJoin)
			if err != nil {
				logger.Error(fmt.Sprintf("Error evaluando a %s al entrar en %s: %v", m.User.ID, m.GuildID, err), "Member")
				return
			}

			if outcome.Status == watchdog.StatusApplied {
				logger.Info(fmt.Sprintf("🛡️ Watchdog aplicó %s a %s al entrar en %s", outcome.Punishment, m.User.ID, m.GuildID), "Member")
			}
		}()
	}
}

// onGuildMemberRemove is called when a member leaves the server
func onGuildMemberRemove(s *discordgo.Session, m *discordgo.GuildMemberRemove) {
	logger.Debug(fmt.Sprintf("👋 %s salió del servidor %s", m.User.Username, m.GuildID), "Member")
}
