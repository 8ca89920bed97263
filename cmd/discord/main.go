// cmd/discord/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "server-skeleton/internal/modules/general/autocomplete"
	_ "server-skeleton/internal/modules/general/button"
	_ "server-skeleton/internal/modules/general/command"
	_ "server-skeleton/internal/modules/general/event"
	_ "server-skeleton/internal/modules/general/menucommand"
	_ "server-skeleton/internal/modules/general/messagecommand"
	_ "server-skeleton/internal/modules/general/modalsubmit"
	_ "server-skeleton/internal/modules/general/selectmenu"

	"server-skeleton/internal/config"
	"server-skeleton/internal/discord"
	"server-skeleton/internal/logging"
	"server-skeleton/internal/manifest"
)

func main() {
	cfg, err := config.New(os.Args[1:])
	if err != nil {
		logging.Fatal("Failed to load configuration", err)
	}

	log, err := logging.New(cfg.AppName, cfg.LogFormat, cfg.Verbose)
	if err != nil {
		logging.Fatal("Failed to create logger", err)
	}
	defer log.Sync()

	log.Info(fmt.Sprintf("Starting %s bot...", cfg.AppName))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	session, err := discord.NewSession(cfg)
	if err != nil {
		logging.Fatal("Failed to create Discord session", err)
	}

	bot := discord.New(cfg, log, session)
	if err := bot.Initialize(manifest.Default); err != nil {
		logging.Fatal("Failed to initialize client", err)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := bot.Run(ctx); err != nil {
			errCh <- err
		}
		close(errCh)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Info(fmt.Sprintf("Received signal %s, shutting down...", s))
		cancel()
		<-errCh
	case err := <-errCh:
		if err != nil {
			log.Error(fmt.Sprintf("Discord bot error: %v", err))
		}
		cancel()
	}

	log.Info("Discord bot exited cleanly")
}
