package command

import (
	"fmt"
	"time"

	"server-skeleton/internal/discord"
	"server-skeleton/internal/handler"
	"server-skeleton/internal/manifest"

	"github.com/bwmarrin/discordgo"
)

func init() {
	manifest.Register(handler.NewCommand().
		SetSchema(&discordgo.ApplicationCommand{
			Name:        "ping",
			Description: "Check the bot's latency",
		}).
		SetExecute(ping))
}

func ping(ctx *handler.InteractionContext) error {
	latency := ctx.Session.HeartbeatLatency().Round(time.Millisecond)
	return discord.RespondComponents(ctx.Session, ctx.Event, fmt.Sprintf("Pong! (%s)", latency),
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{Label: "Again", Style: discordgo.PrimaryButton, CustomID: "ping:1"},
		}},
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.SelectMenu{
				CustomID:    "colour",
				Placeholder: "Pick a colour",
				Options: []discordgo.SelectMenuOption{
					{Label: "Red", Value: "red"},
					{Label: "Green", Value: "green"},
					{Label: "Blue", Value: "blue"},
				},
			},
		}},
	)
}
