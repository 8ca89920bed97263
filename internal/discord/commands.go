package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// DeployCommands overwrites the application's commands with every loaded
// command and context menu schema. The upload is global unless deploy guilds
// are configured, in which case each guild gets its own overwrite.
func (b *Bot) DeployCommands(ctx context.Context) error {
	b.mu.RLock()
	initialized, appID := b.initialized, b.appID
	b.mu.RUnlock()

	if !initialized {
		return ErrNotInitialized
	}
	if appID == "" {
		return ErrNotReady
	}

	cmds := b.reg.Schemas()
	b.log.Info(fmt.Sprintf("Deploying %d commands", len(cmds)))
	if err := b.overwrite(ctx, appID, cmds); err != nil {
		return fmt.Errorf("deploy commands: %w", err)
	}
	b.log.Info("Deployed commands")
	return nil
}

// DeleteCommands removes every deployed application command.
func (b *Bot) DeleteCommands(ctx context.Context) error {
	b.mu.RLock()
	appID := b.appID
	b.mu.RUnlock()

	if appID == "" {
		return ErrNotReady
	}

	b.log.Info("Deleting commands")
	if err := b.overwrite(ctx, appID, []*discordgo.ApplicationCommand{}); err != nil {
		return fmt.Errorf("delete commands: %w", err)
	}
	b.log.Info("Deleted commands")
	return nil
}

func (b *Bot) overwrite(ctx context.Context, appID string, cmds []*discordgo.ApplicationCommand) error {
	guilds := b.cfg.DeployGuildIDs
	if len(guilds) == 0 {
		guilds = []string{""}
	}

	var errs []error
	for _, guildID := range guilds {
		if err := b.limiter.Wait(ctx); err != nil {
			errs = append(errs, err)
			break
		}

		scope := "globally"
		if guildID != "" {
			scope = "in GID " + guildID
		}
		b.log.Verbose(fmt.Sprintf("Overwriting %d commands %s", len(cmds), scope))

		if _, err := b.session.ApplicationCommandBulkOverwrite(appID, guildID, cmds, discordgo.WithContext(ctx)); err != nil {
			b.log.Error(fmt.Sprintf("Failed to overwrite commands %s: %v", scope, err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
