// Package discord provides the event handler for managing Discord events.
package discord

import (
	"sync"

	"github.com/MilkshakeCollective/StachioGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// EventHandler manages event loading and registration
type EventHandler struct {
	client *ExtendedClient
	events []interface{}
	mu     sync.RWMutex
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(client *ExtendedClient) *EventHandler {
	return &EventHandler{
		client: client,
		events: make([]interface{}, 0),
	}
}

// RegisterEvent adds an event handler to the Discord session
func (eh *EventHandler) RegisterEvent(handler interface{}) {
	eh.client.Session.AddHandler(handler)
	eh.mu.Lock()
	eh.events = append(eh.events, handler)
	eh.mu.Unlock()
	logger.Debug("Evento registrado", "EventHandler")
}

// Event handler types for the Discord events the bot listens to

// ReadyHandler is called when the bot is ready
type ReadyHandler func(s *discordgo.Session, r *discordgo.Ready)

// GuildCreateHandler is called when the bot joins a guild
type GuildCreateHandler func(s *discordgo.Session, g *discordgo.GuildCreate)

// GuildDeleteHandler is called when the bot leaves a guild
type GuildDeleteHandler func(s *discordgo.Session, g *discordgo.GuildDelete)

// GuildMemberAddHandler is called when a member joins a guild
type GuildMemberAddHandler func(s *discordgo.Session, m *discordgo.GuildMemberAdd)

// GuildMemberRemoveHandler is called when a member leaves a guild
type GuildMemberRemoveHandler func(s *discordgo.Session, m *discordgo.GuildMemberRemove)

// InteractionCreateHandler is called when an interaction is created
type InteractionCreateHandler func(s *discordgo.Session, i *discordgo.InteractionCreate)

// OnReady registers a ready event handler
func (eh *EventHandler) OnReady(handler ReadyHandler) {
	eh.RegisterEvent(handler)
	logger.Debug("Evento 'Ready' registrado", "EventHandler")
}

// OnGuildCreate registers a guild create event handler
func (eh *EventHandler) OnGuildCreate(handler GuildCreateHandler) {
	eh.RegisterEvent(handler)
	logger.Debug("Evento 'GuildCreate' registrado", "EventHandler")
}

// OnGuildDelete registers a guild delete event handler
func (eh *EventHandler) OnGuildDelete(handler GuildDeleteHandler) {
	eh.RegisterEvent(handler)
	logger.Debug("Evento 'GuildDelete' registrado", "EventHandler")
}

// OnGuildMemberAdd registers a guild member add event handler
func (eh *EventHandler) OnGuildMemberAdd(handler GuildMemberAddHandler) {
	eh.RegisterEvent(handler)
	logger.Debug("Evento 'GuildMemberAdd' registrado", "EventHandler")
}

// OnGuildMemberRemove registers a guild member remove event handler
func (eh *EventHandler) OnGuildMemberRemove(handler GuildMemberRemoveHandler) {
	eh.RegisterEvent(handler)
	logger.Debug("Evento 'GuildMemberRemove' registrado", "EventHandler")
}

// OnInteractionCreate registers an interaction create event handler
func (eh *EventHandler) OnInteractionCreate(handler InteractionCreateHandler) {
	eh.RegisterEvent(handler)
	logger.Debug("Evento 'InteractionCreate' registrado", "EventHandler")
}
