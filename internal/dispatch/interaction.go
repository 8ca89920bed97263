package dispatch

import (
	"fmt"
	"strings"

	"server-skeleton/internal/handler"

	"github.com/bwmarrin/discordgo"
)

// Classify returns the handler category answering i. Interactions the bot
// does not route (pings, unknown component types) report false.
func Classify(i *discordgo.InteractionCreate) (handler.Category, bool) {
	switch i.Type {
	case discordgo.InteractionApplicationCommandAutocomplete:
		return handler.CategoryAutocomplete, true

	case discordgo.InteractionApplicationCommand:
		switch i.ApplicationCommandData().CommandType {
		case discordgo.UserApplicationCommand, discordgo.MessageApplicationCommand:
			return handler.CategoryMenuCommand, true
		default:
			return handler.CategoryCommand, true
		}

	case discordgo.InteractionMessageComponent:
		switch i.MessageComponentData().ComponentType {
		case discordgo.ButtonComponent:
			return handler.CategoryButton, true
		case discordgo.SelectMenuComponent,
			discordgo.UserSelectMenuComponent,
			discordgo.RoleSelectMenuComponent,
			discordgo.MentionableSelectMenuComponent,
			discordgo.ChannelSelectMenuComponent:
			return handler.CategorySelectMenu, true
		}

	case discordgo.InteractionModalSubmit:
		return handler.CategoryModalSubmit, true
	}

	return handler.CategoryUnknown, false
}

// CommandPath joins the command name with every nested subcommand group and
// subcommand ("music queue show") and returns the remaining leaf options.
func CommandPath(name string, options []*discordgo.ApplicationCommandInteractionDataOption) (string, []*discordgo.ApplicationCommandInteractionDataOption) {
	for len(options) > 0 && options[0] != nil &&
		(options[0].Type == discordgo.ApplicationCommandOptionSubCommand ||
			options[0].Type == discordgo.ApplicationCommandOptionSubCommandGroup) {
		name += " " + options[0].Name
		options = options[0].Options
	}
	return name, options
}

// CustomIDKey is the part of a component or modal custom id before the
// first ':'.
func CustomIDKey(customID string) string {
	key, _, _ := strings.Cut(customID, ":")
	return key
}

// candidates lists lookup keys from the full command path down to the
// top-level name, so one handler can serve a whole subcommand tree.
func candidates(path string) []string {
	keys := []string{path}
	for {
		i := strings.LastIndexByte(path, ' ')
		if i < 0 {
			return keys
		}
		path = path[:i]
		keys = append(keys, path)
	}
}

type interactionRoute struct {
	category handler.Category
	keys     []string
	options  []*discordgo.ApplicationCommandInteractionDataOption
	// details is the log description; empty for autocomplete.
	details string
	label   string
}

func route(i *discordgo.InteractionCreate, c handler.Category) interactionRoute {
	r := interactionRoute{category: c}

	switch c {
	case handler.CategoryAutocomplete:
		data := i.ApplicationCommandData()
		path, options := CommandPath(data.Name, data.Options)
		r.keys, r.options = candidates(path), options
		r.label = "autocomplete"

	case handler.CategoryCommand:
		data := i.ApplicationCommandData()
		path, options := CommandPath(data.Name, data.Options)
		r.keys, r.options = candidates(path), options
		r.label = "command"
		r.details = "Command /" + path + formatOptions(options)

	case handler.CategoryMenuCommand:
		data := i.ApplicationCommandData()
		r.keys = []string{data.Name}
		r.label = "menu command"
		r.details = "MenuCommand " + data.Name

	case handler.CategoryButton, handler.CategorySelectMenu:
		customID := i.MessageComponentData().CustomID
		r.keys = []string{CustomIDKey(customID)}
		if c == handler.CategoryButton {
			r.label, r.details = "button", "Button "+customID
		} else {
			r.label, r.details = "select menu", "SelectMenu "+customID
		}

	case handler.CategoryModalSubmit:
		customID := i.ModalSubmitData().CustomID
		r.keys = []string{CustomIDKey(customID)}
		r.label, r.details = "modal submit", "ModalSubmit "+customID
	}

	return r
}

func formatOptions(options []*discordgo.ApplicationCommandInteractionDataOption) string {
	var b strings.Builder
	for _, o := range options {
		fmt.Fprintf(&b, " %s:%v", o.Name, o.Value)
	}
	return b.String()
}

func interactionSource(i *discordgo.InteractionCreate) string {
	userID := "unknown"
	if i.Member != nil && i.Member.User != nil {
		userID = i.Member.User.ID
	} else if i.User != nil {
		userID = i.User.ID
	}
	return source(userID, i.GuildID)
}

func source(userID, guildID string) string {
	if guildID == "" {
		return "from UID " + userID
	}
	return "from UID " + userID + " in GID " + guildID
}

// Interaction routes i to exactly one registered handler and waits for it.
// A miss is logged, not returned; the handler's own error is returned.
func (d *Dispatcher) Interaction(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if i == nil || i.Interaction == nil {
		return nil
	}
	c, ok := Classify(i)
	if !ok {
		return nil
	}

	r := route(i, c)
	src := interactionSource(i)
	if r.details != "" {
		d.log.Info(fmt.Sprintf("Received %s %s", r.details, src))
	}

	for _, key := range r.keys {
		rec, found := d.reg.Interaction(c, key)
		if !found {
			continue
		}
		fn := handler.InteractionFuncOf(rec)
		if fn == nil {
			break
		}

		d.log.Verbose(fmt.Sprintf("Matched %s handler %s", r.label, key))
		if r.details != "" {
			d.log.Verbose(fmt.Sprintf("Responding to %s %s", r.details, src))
		}

		ctx := &handler.InteractionContext{
			Session: s,
			Event:   i,
			Key:     key,
			Options: r.options,
			Logger:  d.log,
		}
		if err := invoke(key, func() error { return fn(ctx) }); err != nil {
			return fmt.Errorf("%s handler %s: %w", r.label, key, err)
		}
		return nil
	}

	details := r.details
	if details == "" {
		details = "Autocomplete /" + r.keys[0]
	}
	d.log.Warn(fmt.Sprintf("Ignoring %s %s", details, src))
	return nil
}
