// Package registry stores loaded handler records by category and lookup key.
//
// A Registry is filled once during loading and only read afterwards, so
// lookups from concurrently running dispatches need no locking.
package registry

import (
	"errors"
	"fmt"

	"server-skeleton/internal/handler"

	"github.com/bwmarrin/discordgo"
)

var (
	ErrConflict       = errors.New("key conflicts with a previously loaded handler of the same type")
	ErrSchemaConflict = errors.New("command schema conflicts with a previously loaded command")
	ErrCategory       = errors.New("record category does not match")
)

// Registry holds one map per interaction category, the message command map,
// the ordered event handler lists and the deployable command schemas.
type Registry struct {
	interactions    map[handler.Category]map[string]handler.Record
	messageCommands map[string]*handler.MessageCommand
	events          map[string][]*handler.Event
	eventOrder      []string
	schemas         []*discordgo.ApplicationCommand
}

// New returns an empty registry.
func New() *Registry {
	r := &Registry{
		interactions:    make(map[handler.Category]map[string]handler.Record),
		messageCommands: make(map[string]*handler.MessageCommand),
		events:          make(map[string][]*handler.Event),
	}
	for _, c := range handler.Categories {
		if c.IsInteraction() {
			r.interactions[c] = make(map[string]handler.Record)
		}
	}
	return r
}

// AddEvent appends h to the handlers of event name. Any number of handlers
// may share a name; they run in the order they were added.
func (r *Registry) AddEvent(name string, h *handler.Event) {
	if _, ok := r.events[name]; !ok {
		r.eventOrder = append(r.eventOrder, name)
	}
	r.events[name] = append(r.events[name], h)
}

// AddMessageCommand inserts h under key unless the key is taken.
func (r *Registry) AddMessageCommand(key string, h *handler.MessageCommand) error {
	if _, ok := r.messageCommands[key]; ok {
		return fmt.Errorf("message command %q: %w", key, ErrConflict)
	}
	r.messageCommands[key] = h
	return nil
}

// AddInteraction inserts an interaction record under key unless the key is
// taken in the record's category. Records carrying a command schema are also
// checked against, and added to, the deployable schema list.
func (r *Registry) AddInteraction(key string, rec handler.Record) error {
	table, ok := r.interactions[rec.Category()]
	if !ok {
		return fmt.Errorf("%s handler %q: %w", rec.Category(), key, ErrCategory)
	}
	if _, taken := table[key]; taken {
		return fmt.Errorf("%s handler %q: %w", rec.Category(), key, ErrConflict)
	}

	var schema *discordgo.ApplicationCommand
	if sp, ok := rec.(handler.SchemaProvider); ok {
		schema = sp.ApplicationCommand()
		if schema != nil && r.hasSchema(schema) {
			return fmt.Errorf("%s %q: %w", rec.Category(), schema.Name, ErrSchemaConflict)
		}
	}

	table[key] = rec
	if schema != nil {
		r.schemas = append(r.schemas, schema)
	}
	return nil
}

// hasSchema reports whether a schema of the same kind and name is known.
// Chat commands and context menus live in separate namespaces.
func (r *Registry) hasSchema(schema *discordgo.ApplicationCommand) bool {
	kind := schemaKind(schema)
	for _, s := range r.schemas {
		if s.Name == schema.Name && schemaKind(s) == kind {
			return true
		}
	}
	return false
}

func schemaKind(s *discordgo.ApplicationCommand) discordgo.ApplicationCommandType {
	if s.Type == 0 {
		return discordgo.ChatApplicationCommand
	}
	return s.Type
}

// Interaction looks up an interaction record.
func (r *Registry) Interaction(c handler.Category, key string) (handler.Record, bool) {
	rec, ok := r.interactions[c][key]
	return rec, ok
}

// MessageCommand looks up a message command record.
func (r *Registry) MessageCommand(key string) (*handler.MessageCommand, bool) {
	h, ok := r.messageCommands[key]
	return h, ok
}

// Events returns the handlers registered for name in load order.
func (r *Registry) Events(name string) []*handler.Event {
	return r.events[name]
}

// EventNames returns every event name in first-registration order.
func (r *Registry) EventNames() []string {
	names := make([]string, len(r.eventOrder))
	copy(names, r.eventOrder)
	return names
}

// Schemas returns the deployable command definitions in load order.
func (r *Registry) Schemas() []*discordgo.ApplicationCommand {
	list := make([]*discordgo.ApplicationCommand, len(r.schemas))
	copy(list, r.schemas)
	return list
}

// Len returns the number of records held for a category. For events it
// counts handlers, not names.
func (r *Registry) Len(c handler.Category) int {
	switch c {
	case handler.CategoryEvent:
		n := 0
		for _, list := range r.events {
			n += len(list)
		}
		return n
	case handler.CategoryMessageCommand:
		return len(r.messageCommands)
	default:
		return len(r.interactions[c])
	}
}
