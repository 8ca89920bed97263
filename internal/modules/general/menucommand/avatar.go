package menucommand

import (
	"server-skeleton/internal/discord"
	"server-skeleton/internal/handler"
	"server-skeleton/internal/manifest"

	"github.com/bwmarrin/discordgo"
)

func init() {
	// Context menu names are shown as-is, so the key is capitalised.
	manifest.RegisterFile("Avatar", handler.NewMenuCommand().
		SetSchema(&discordgo.ApplicationCommand{
			Name: "Avatar",
			Type: discordgo.UserApplicationCommand,
		}).
		SetExecute(handler.Apply(avatar, handler.GuildOnly())))
}

func avatar(ctx *handler.InteractionContext) error {
	data := ctx.Event.ApplicationCommandData()
	if data.Resolved == nil || data.Resolved.Users[data.TargetID] == nil {
		return discord.RespondEphemeral(ctx.Session, ctx.Event, "Could not find that user.")
	}
	user := data.Resolved.Users[data.TargetID]

	return discord.RespondEmbed(ctx.Session, ctx.Event, &discordgo.MessageEmbed{
		Title: user.Username,
		Color: discord.EmbedColor,
		Image: &discordgo.MessageEmbedImage{URL: user.AvatarURL("1024")},
	})
}
