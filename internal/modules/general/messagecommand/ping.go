package messagecommand

import (
	"server-skeleton/internal/discord"
	"server-skeleton/internal/handler"
	"server-skeleton/internal/manifest"
)

func init() {
	manifest.Register(handler.NewMessageCommand().SetExecute(func(ctx *handler.MessageContext) error {
		return discord.Reply(ctx.Session, ctx.Event.Message, "Pong!")
	}))
}
