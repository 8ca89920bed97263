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
			Name:        "feedback",
			Description: "Send feedback to the bot owners",
		}).
		SetExecute(feedback))
}

func feedback(ctx *handler.InteractionContext) error {
	return discord.RespondModal(ctx.Session, ctx.Event, "feedback", "Feedback",
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.TextInput{
				CustomID:  "message",
				Label:     "Message",
				Style:     discordgo.TextInputParagraph,
				Required:  true,
				MaxLength: 1000,
			},
		}},
	)
}
