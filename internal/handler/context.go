package handler

import (
	"server-skeleton/internal/logging"

	"github.com/bwmarrin/discordgo"
)

// InteractionContext is what the dispatcher hands to interaction handlers.
type InteractionContext struct {
	Session *discordgo.Session
	Event   *discordgo.InteractionCreate
	Key     string
	// Options are the leaf command options once subcommands are stripped.
	Options []*discordgo.ApplicationCommandInteractionDataOption
	Logger  logging.Logger
}

// Option returns the leaf option with the given name, or nil.
func (c *InteractionContext) Option(name string) *discordgo.ApplicationCommandInteractionDataOption {
	for _, o := range c.Options {
		if o.Name == name {
			return o
		}
	}
	return nil
}

// CustomArg returns the part of the component custom id after the first ':'.
func (c *InteractionContext) CustomArg() string {
	var customID string
	switch c.Event.Type {
	case discordgo.InteractionMessageComponent:
		customID = c.Event.MessageComponentData().CustomID
	case discordgo.InteractionModalSubmit:
		customID = c.Event.ModalSubmitData().CustomID
	default:
		return ""
	}
	if len(customID) <= len(c.Key) {
		return ""
	}
	return customID[len(c.Key)+1:]
}

// MessageContext is what the dispatcher hands to message command handlers.
type MessageContext struct {
	Session *discordgo.Session
	Event   *discordgo.MessageCreate
	Prefix  string
	Command string
	Args    []string
	Logger  logging.Logger
}

// EventContext is what event handlers receive. Args are the values the
// gateway published for the event, usually the payload struct.
type EventContext struct {
	Session *discordgo.Session
	Name    string
	Args    []any
	Logger  logging.Logger
}

// Payload returns the last published argument.
func (c *EventContext) Payload() any {
	if len(c.Args) == 0 {
		return nil
	}
	return c.Args[len(c.Args)-1]
}
