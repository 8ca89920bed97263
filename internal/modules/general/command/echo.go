package command

import (
	"server-skeleton/internal/discord"
	"server-skeleton/internal/handler"
	"server-skeleton/internal/manifest"

	"github.com/bwmarrin/discordgo"
)

func init() {
	manifest.Register(handler.NewCommand().
		SetSchema(&discordgo.ApplicationCommand{
			Name:        "echo",
			Description: "Repeat a message",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:         discordgo.ApplicationCommandOptionString,
					Name:         "text",
					Description:  "What to say",
					Required:     true,
					Autocomplete: true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionBoolean,
					Name:        "private",
					Description: "Only show the reply to you",
				},
			},
		}).
		SetExecute(echo))
}

func echo(ctx *handler.InteractionContext) error {
	var text string
	if o := ctx.Option("text"); o != nil {
		text = o.StringValue()
	}
	if o := ctx.Option("private"); o != nil && o.BoolValue() {
		return discord.RespondEphemeral(ctx.Session, ctx.Event, text)
	}
	return discord.Respond(ctx.Session, ctx.Event, text)
}
