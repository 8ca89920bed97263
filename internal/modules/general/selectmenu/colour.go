package selectmenu

import (
	"fmt"
	"strings"

	"server-skeleton/internal/discord"
	"server-skeleton/internal/handler"
	"server-skeleton/internal/manifest"
)

func init() {
	manifest.Register(handler.NewSelectMenu().SetExecute(colour))
}

func colour(ctx *handler.InteractionContext) error {
	values := ctx.Event.MessageComponentData().Values
	if len(values) == 0 {
		return discord.RespondEphemeral(ctx.Session, ctx.Event, "No colour picked.")
	}
	return discord.RespondEphemeral(ctx.Session, ctx.Event, fmt.Sprintf("You picked %s.", strings.Join(values, ", ")))
}
