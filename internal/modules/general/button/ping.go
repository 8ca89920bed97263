package button

import (
	"fmt"
	"strconv"

	"server-skeleton/internal/discord"
	"server-skeleton/internal/handler"
	"server-skeleton/internal/manifest"

	"github.com/bwmarrin/discordgo"
)

func init() {
	manifest.Register(handler.NewButton().SetExecute(again))
}

// again counts presses in the custom id, "ping:<n>".
func again(ctx *handler.InteractionContext) error {
	n, err := strconv.Atoi(ctx.CustomArg())
	if err != nil {
		n = 0
	}
	n++

	return discord.UpdateMessage(ctx.Session, ctx.Event, fmt.Sprintf("Pong! x%d", n),
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{Label: "Again", Style: discordgo.PrimaryButton, CustomID: fmt.Sprintf("ping:%d", n)},
		}},
	)
}
