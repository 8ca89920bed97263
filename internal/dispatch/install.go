package dispatch

import (
	"fmt"

	"server-skeleton/internal/events"
	"server-skeleton/internal/handler"
	"server-skeleton/internal/logging"
	"server-skeleton/internal/registry"

	"github.com/bwmarrin/discordgo"
)

// Install subscribes every event handler of reg to bus, one listener per
// handler with that handler's own once flag, in registry order. It returns
// the number of listeners installed.
func Install(bus *events.Bus, reg *registry.Registry, log logging.Logger) int {
	log.Verbose("Setting up event handlers")
	n := 0
	for _, name := range reg.EventNames() {
		for _, h := range reg.Events(name) {
			bus.Subscribe(name, h.Once, listener(name, h, log))
			n++
		}
	}
	log.Verbose(fmt.Sprintf("Event handlers set up (%d)", n))
	return n
}

func listener(name string, h *handler.Event, log logging.Logger) events.Listener {
	return func(args ...any) {
		if h.Execute == nil {
			return
		}
		ctx := &handler.EventContext{Name: name, Args: args, Logger: log}
		if len(args) > 0 {
			ctx.Session, _ = args[0].(*discordgo.Session)
		}
		if err := invoke(name, func() error { return h.Execute(ctx) }); err != nil {
			log.Error(fmt.Sprintf("Error handling %s event: %v", name, err))
		}
	}
}
