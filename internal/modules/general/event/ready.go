package event

import (
	"fmt"

	"server-skeleton/internal/handler"
	"server-skeleton/internal/manifest"

	"github.com/bwmarrin/discordgo"
)

func init() {
	manifest.Register(handler.NewEvent().SetOnce(true).SetExecute(func(ctx *handler.EventContext) error {
		r, ok := ctx.Payload().(*discordgo.Ready)
		if !ok {
			return nil
		}
		ctx.Logger.Info(fmt.Sprintf("Ready in %d guilds", len(r.Guilds)))
		return nil
	}))
}
