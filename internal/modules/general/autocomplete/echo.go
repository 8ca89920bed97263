package autocomplete

import (
	"strings"

	"server-skeleton/internal/discord"
	"server-skeleton/internal/handler"
	"server-skeleton/internal/manifest"

	"github.com/bwmarrin/discordgo"
)

var phrases = []string{"Hello there", "Good morning", "Good night", "See you later"}

func init() {
	manifest.Register(handler.NewAutocomplete().SetExecute(echo))
}

func echo(ctx *handler.InteractionContext) error {
	var typed string
	for _, o := range ctx.Options {
		if o.Focused {
			typed = strings.ToLower(o.StringValue())
		}
	}

	choices := []*discordgo.ApplicationCommandOptionChoice{}
	for _, p := range phrases {
		if strings.Contains(strings.ToLower(p), typed) {
			choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: p, Value: p})
		}
	}
	return discord.RespondChoices(ctx.Session, ctx.Event, choices)
}
