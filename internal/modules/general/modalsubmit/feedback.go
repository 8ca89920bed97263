package modalsubmit

import (
	"fmt"

	"server-skeleton/internal/discord"
	"server-skeleton/internal/handler"
	"server-skeleton/internal/manifest"

	"github.com/bwmarrin/discordgo"
)

func init() {
	manifest.Register(handler.NewModalSubmit().SetExecute(feedback))
}

func feedback(ctx *handler.InteractionContext) error {
	message := textInput(ctx.Event.ModalSubmitData().Components, "message")
	if message == "" {
		return discord.RespondEphemeral(ctx.Session, ctx.Event, "Feedback was empty, nothing sent.")
	}

	userID := ""
	if ctx.Event.Member != nil && ctx.Event.Member.User != nil {
		userID = ctx.Event.Member.User.ID
	} else if ctx.Event.User != nil {
		userID = ctx.Event.User.ID
	}
	ctx.Logger.Info(fmt.Sprintf("Feedback from UID %s: %s", userID, message))

	return discord.RespondEphemeral(ctx.Session, ctx.Event, "Thanks for the feedback!")
}

func textInput(rows []discordgo.MessageComponent, customID string) string {
	for _, row := range rows {
		ar, ok := row.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, c := range ar.Components {
			if ti, ok := c.(*discordgo.TextInput); ok && ti.CustomID == customID {
				return ti.Value
			}
		}
	}
	return ""
}
