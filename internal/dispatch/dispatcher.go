// Package dispatch routes gateway events to registered handlers: interactions
// and prefixed message commands go to exactly one handler, lifecycle events
// fan out to every handler subscribed on the bus.
package dispatch

import (
	"fmt"
	"runtime/debug"
	"strings"

	"server-skeleton/internal/handler"
	"server-skeleton/internal/logging"
	"server-skeleton/internal/registry"

	"github.com/bwmarrin/discordgo"
)

// Gateway event names as published on the bus.
const (
	EventReady             = "ready"
	EventInteractionCreate = "interaction_create"
	EventMessageCreate     = "message_create"
)

// Dispatcher resolves handlers from a loaded registry.
type Dispatcher struct {
	reg      *registry.Registry
	log      logging.Logger
	prefixes *Prefixes
}

func New(reg *registry.Registry, prefixes *Prefixes, log logging.Logger) *Dispatcher {
	if prefixes == nil {
		prefixes = NewPrefixes(nil)
	}
	return &Dispatcher{reg: reg, log: log, prefixes: prefixes}
}

// Prefixes returns the message command prefixes in use.
func (d *Dispatcher) Prefixes() *Prefixes { return d.prefixes }

// Message routes a prefixed message to its message command handler. Messages
// without a configured prefix, and the bot's own messages, are ignored without
// logging.
func (d *Dispatcher) Message(s *discordgo.Session, m *discordgo.MessageCreate) error {
	if m == nil || m.Message == nil {
		return nil
	}
	if m.Author != nil && s != nil && s.State != nil && s.State.User != nil && m.Author.ID == s.State.User.ID {
		return nil
	}
	prefix, ok := d.prefixes.Match(m.Content)
	if !ok {
		return nil
	}

	userID := "unknown"
	if m.Author != nil {
		userID = m.Author.ID
	}
	src := source(userID, m.GuildID)
	details := "MessageCommand " + m.Content
	d.log.Info(fmt.Sprintf("Received %s %s", details, src))

	fields := strings.Fields(m.Content[len(prefix):])
	var command string
	var args []string
	if len(fields) > 0 {
		command, args = fields[0], fields[1:]
	}

	h, found := d.reg.MessageCommand(command)
	if !found || h.Execute == nil {
		d.log.Warn(fmt.Sprintf("Ignoring %s %s", details, src))
		return nil
	}

	d.log.Verbose(fmt.Sprintf("Matched message command handler %s", command))
	d.log.Verbose(fmt.Sprintf("Responding to %s %s", details, src))

	ctx := &handler.MessageContext{
		Session: s,
		Event:   m,
		Prefix:  prefix,
		Command: command,
		Args:    args,
		Logger:  d.log,
	}
	if err := invoke(command, func() error { return h.Execute(ctx) }); err != nil {
		return fmt.Errorf("message command handler %s: %w", command, err)
	}
	return nil
}

// RegisterBuiltins appends the dispatcher's own event handlers to reg: the
// interaction router, the message router when prefixes are configured, and a
// one-shot ready handler resolving the mention placeholder.
func (d *Dispatcher) RegisterBuiltins(reg *registry.Registry) {
	d.log.Verbose("Adding built-in interaction handler to event handlers")
	reg.AddEvent(EventInteractionCreate, handler.NewEvent().SetExecute(func(ctx *handler.EventContext) error {
		i, ok := ctx.Payload().(*discordgo.InteractionCreate)
		if !ok {
			return nil
		}
		return d.Interaction(ctx.Session, i)
	}))

	if d.prefixes.Len() > 0 {
		d.log.Verbose("Adding built-in message handler to event handlers")
		reg.AddEvent(EventMessageCreate, handler.NewEvent().SetExecute(func(ctx *handler.EventContext) error {
			m, ok := ctx.Payload().(*discordgo.MessageCreate)
			if !ok {
				return nil
			}
			return d.Message(ctx.Session, m)
		}))
	}

	if d.prefixes.HasMentionPlaceholder() {
		d.log.Verbose("Adding built-in ready mention prefix replacement handler to event handlers")
		reg.AddEvent(EventReady, handler.NewEvent().SetOnce(true).SetExecute(func(ctx *handler.EventContext) error {
			r, ok := ctx.Payload().(*discordgo.Ready)
			if !ok || r.User == nil {
				return fmt.Errorf("ready event without user")
			}
			if d.prefixes.ResolveMention(r.User.ID) {
				d.log.Verbose("Updated placeholder mention prefix with actual mention")
			}
			return nil
		}))
	}
}

// invoke runs fn, turning a panic into an error so one failing handler
// cannot take down the gateway goroutine.
func invoke(key string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v\n%s", key, r, debug.Stack())
		}
	}()
	return fn()
}
