// Package handler defines the handler records modules register: a closed set
// of variants, each tagged with its Category when constructed.
package handler

import "github.com/bwmarrin/discordgo"

type (
	InteractionFunc func(*InteractionContext) error
	MessageFunc     func(*MessageContext) error
	EventFunc       func(*EventContext) error
)

// Record is implemented only by the variants in this package.
type Record interface {
	Category() Category
	Validate() bool

	IsAutocompleteHandler() bool
	IsButtonHandler() bool
	IsCommandHandler() bool
	IsMenuCommandHandler() bool
	IsModalSubmitHandler() bool
	IsSelectMenuHandler() bool
	IsEventHandler() bool
	IsMessageCommandHandler() bool

	sealed()
}

// SchemaProvider is implemented by records that carry an application command
// definition for deployment.
type SchemaProvider interface {
	Record
	ApplicationCommand() *discordgo.ApplicationCommand
}

type base struct {
	category Category
}

func (b base) Category() Category { return b.category }
func (b base) sealed()            {}

func (b base) IsAutocompleteHandler() bool   { return b.category == CategoryAutocomplete }
func (b base) IsButtonHandler() bool         { return b.category == CategoryButton }
func (b base) IsCommandHandler() bool        { return b.category == CategoryCommand }
func (b base) IsMenuCommandHandler() bool    { return b.category == CategoryMenuCommand }
func (b base) IsModalSubmitHandler() bool    { return b.category == CategoryModalSubmit }
func (b base) IsSelectMenuHandler() bool     { return b.category == CategorySelectMenu }
func (b base) IsEventHandler() bool          { return b.category == CategoryEvent }
func (b base) IsMessageCommandHandler() bool { return b.category == CategoryMessageCommand }

// Event reacts to a gateway event. Several may exist per event name.
type Event struct {
	base
	Once    bool
	Execute EventFunc
}

func NewEvent() *Event { return &Event{base: base{CategoryEvent}} }

// SetOnce marks the handler to be removed after its first invocation.
func (h *Event) SetOnce(once bool) *Event {
	h.Once = once
	return h
}

func (h *Event) SetExecute(fn EventFunc) *Event {
	h.Execute = fn
	return h
}

func (h *Event) Validate() bool { return h.Execute != nil }

// Command answers a chat input (slash) command.
type Command struct {
	base
	Schema  *discordgo.ApplicationCommand
	Execute InteractionFunc
}

func NewCommand() *Command { return &Command{base: base{CategoryCommand}} }

func (h *Command) SetSchema(schema *discordgo.ApplicationCommand) *Command {
	h.Schema = schema
	return h
}

func (h *Command) SetExecute(fn InteractionFunc) *Command {
	h.Execute = fn
	return h
}

func (h *Command) Validate() bool {
	if h.Execute == nil || h.Schema == nil || h.Schema.Name == "" {
		return false
	}
	return h.Schema.Type == 0 || h.Schema.Type == discordgo.ChatApplicationCommand
}

func (h *Command) ApplicationCommand() *discordgo.ApplicationCommand { return h.Schema }

func (h *Command) interaction() InteractionFunc { return h.Execute }

// MenuCommand answers a user or message context menu command.
type MenuCommand struct {
	base
	Schema  *discordgo.ApplicationCommand
	Execute InteractionFunc
}

func NewMenuCommand() *MenuCommand { return &MenuCommand{base: base{CategoryMenuCommand}} }

func (h *MenuCommand) SetSchema(schema *discordgo.ApplicationCommand) *MenuCommand {
	h.Schema = schema
	return h
}

func (h *MenuCommand) SetExecute(fn InteractionFunc) *MenuCommand {
	h.Execute = fn
	return h
}

func (h *MenuCommand) Validate() bool {
	if h.Execute == nil || h.Schema == nil || h.Schema.Name == "" {
		return false
	}
	return h.Schema.Type == discordgo.UserApplicationCommand || h.Schema.Type == discordgo.MessageApplicationCommand
}

func (h *MenuCommand) ApplicationCommand() *discordgo.ApplicationCommand { return h.Schema }

func (h *MenuCommand) interaction() InteractionFunc { return h.Execute }

type Button struct {
	base
	Execute InteractionFunc
}

func NewButton() *Button { return &Button{base: base{CategoryButton}} }

func (h *Button) SetExecute(fn InteractionFunc) *Button {
	h.Execute = fn
	return h
}

func (h *Button) Validate() bool              { return h.Execute != nil }
func (h *Button) interaction() InteractionFunc { return h.Execute }

// SelectMenu handles every select menu kind (string, user, role, ...).
type SelectMenu struct {
	base
	Execute InteractionFunc
}

func NewSelectMenu() *SelectMenu { return &SelectMenu{base: base{CategorySelectMenu}} }

func (h *SelectMenu) SetExecute(fn InteractionFunc) *SelectMenu {
	h.Execute = fn
	return h
}

func (h *SelectMenu) Validate() bool              { return h.Execute != nil }
func (h *SelectMenu) interaction() InteractionFunc { return h.Execute }

type ModalSubmit struct {
	base
	Execute InteractionFunc
}

func NewModalSubmit() *ModalSubmit { return &ModalSubmit{base: base{CategoryModalSubmit}} }

func (h *ModalSubmit) SetExecute(fn InteractionFunc) *ModalSubmit {
	h.Execute = fn
	return h
}

func (h *ModalSubmit) Validate() bool              { return h.Execute != nil }
func (h *ModalSubmit) interaction() InteractionFunc { return h.Execute }

type Autocomplete struct {
	base
	Execute InteractionFunc
}

func NewAutocomplete() *Autocomplete { return &Autocomplete{base: base{CategoryAutocomplete}} }

func (h *Autocomplete) SetExecute(fn InteractionFunc) *Autocomplete {
	h.Execute = fn
	return h
}

func (h *Autocomplete) Validate() bool              { return h.Execute != nil }
func (h *Autocomplete) interaction() InteractionFunc { return h.Execute }

// MessageCommand answers a prefixed text message.
type MessageCommand struct {
	base
	Execute MessageFunc
}

func NewMessageCommand() *MessageCommand {
	return &MessageCommand{base: base{CategoryMessageCommand}}
}

func (h *MessageCommand) SetExecute(fn MessageFunc) *MessageCommand {
	h.Execute = fn
	return h
}

func (h *MessageCommand) Validate() bool { return h.Execute != nil }

type interactor interface {
	interaction() InteractionFunc
}

// InteractionFuncOf returns the callback of an interaction record, or nil
// when the record is not an interaction handler or has no callback.
func InteractionFuncOf(r Record) InteractionFunc {
	if i, ok := r.(interactor); ok {
		return i.interaction()
	}
	return nil
}

// IsNil reports whether r is nil or a nil pointer to one of the variants.
func IsNil(r Record) bool {
	switch h := r.(type) {
	case nil:
		return true
	case *Event:
		return h == nil
	case *Command:
		return h == nil
	case *MenuCommand:
		return h == nil
	case *Button:
		return h == nil
	case *SelectMenu:
		return h == nil
	case *ModalSubmit:
		return h == nil
	case *Autocomplete:
		return h == nil
	case *MessageCommand:
		return h == nil
	}
	return false
}
