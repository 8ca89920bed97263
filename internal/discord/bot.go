package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"server-skeleton/internal/config"
	"server-skeleton/internal/dispatch"
	"server-skeleton/internal/events"
	"server-skeleton/internal/handler"
	"server-skeleton/internal/loader"
	"server-skeleton/internal/logging"
	"server-skeleton/internal/registry"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/time/rate"
)

var (
	ErrAlreadyInitialized = errors.New("client is already initialized")
	ErrNotInitialized     = errors.New("client must be initialized first")
	ErrNotReady           = errors.New("client must be logged in to Discord first")
)

// deployInterval spaces per-guild command uploads.
const deployInterval = 500 * time.Millisecond

// Session is the part of *discordgo.Session the bot drives.
type Session interface {
	AddHandler(handler interface{}) func()
	Open() error
	Close() error
	ApplicationCommandBulkOverwrite(appID string, guildID string, commands []*discordgo.ApplicationCommand, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
}

// Bot owns the handler registry and bridges the gateway session onto the
// event bus the registry's handlers are installed on.
type Bot struct {
	cfg        *config.Config
	log        logging.Logger
	session    Session
	reg        *registry.Registry
	bus        *events.Bus
	dispatcher *dispatch.Dispatcher
	limiter    *rate.Limiter

	mu          sync.RWMutex
	initialized bool
	appID       string
}

// NewSession creates a discordgo session with the intents the configured
// prefixes need.
func NewSession(cfg *config.Config) (*discordgo.Session, error) {
	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	dg.Identify.Intents = Intents(cfg)
	return dg, nil
}

// Intents always include guilds. Message commands add guild and direct
// messages, and any prefix other than the mention placeholder also needs the
// privileged message content intent.
func Intents(cfg *config.Config) discordgo.Intent {
	intents := discordgo.IntentsGuilds
	prefixes := dispatch.NewPrefixes(cfg.Prefixes)
	if prefixes.Len() > 0 {
		intents |= discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages
	}
	if prefixes.NonMention() {
		intents |= discordgo.IntentsMessageContent
	}
	return intents
}

func New(cfg *config.Config, log logging.Logger, session Session) *Bot {
	reg := registry.New()
	return &Bot{
		cfg:        cfg,
		log:        log,
		session:    session,
		reg:        reg,
		bus:        events.NewBus(),
		dispatcher: dispatch.New(reg, dispatch.NewPrefixes(cfg.Prefixes), log),
		limiter:    rate.NewLimiter(rate.Every(deployInterval), 1),
	}
}

// Initialize loads every handler from src, adds the built-in handlers and
// installs them all on the event bus. It may run once.
func (b *Bot) Initialize(src loader.Source) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.initialized {
		return ErrAlreadyInitialized
	}

	b.log.Info("Initializing client")
	sum := loader.New(src, b.reg, b.log).Load()

	b.dispatcher.RegisterBuiltins(b.reg)
	if b.cfg.Deploy {
		b.log.Verbose("Adding built-in ready command deployment handler to event handlers as deploy flag is set")
		b.reg.AddEvent(dispatch.EventReady, handler.NewEvent().SetOnce(true).SetExecute(func(*handler.EventContext) error {
			b.log.Info("Triggering command deployment because --deploy flag is set")
			return b.DeployCommands(context.Background())
		}))
	}

	dispatch.Install(b.bus, b.reg, b.log)

	b.initialized = true
	b.log.Info(fmt.Sprintf("Initialized client: %d modules, %d handlers loaded, %d skipped", sum.Modules, sum.Loaded, sum.Skipped))
	return nil
}

// Run connects to the gateway and serves events until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	b.mu.RLock()
	initialized := b.initialized
	b.mu.RUnlock()
	if !initialized {
		return ErrNotInitialized
	}

	removeEvent := b.session.AddHandler(b.onEvent)
	removeConnect := b.session.AddHandler(b.onConnect)
	removeDisconnect := b.session.AddHandler(b.onDisconnect)
	defer func() {
		removeEvent()
		removeConnect()
		removeDisconnect()
	}()

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer b.session.Close()

	<-ctx.Done()
	b.log.Info("Shutdown signal received. Cleaning up...")
	b.setAppID("")
	return nil
}

// onEvent publishes every dispatched gateway event under its lower-cased
// name ("READY" -> "ready"), with the session and the decoded payload.
func (b *Bot) onEvent(s *discordgo.Session, e *discordgo.Event) {
	var payload any = e
	if e.Struct != nil {
		payload = e.Struct
	}
	if r, ok := e.Struct.(*discordgo.Ready); ok && r.User != nil {
		b.setAppID(r.User.ID)
		b.log.Info(fmt.Sprintf("Logged in as %s", r.User.Username))
	}
	b.bus.Publish(strings.ToLower(e.Type), s, payload)
}

func (b *Bot) onConnect(s *discordgo.Session, c *discordgo.Connect) {
	b.bus.Publish("connect", s, c)
}

func (b *Bot) onDisconnect(s *discordgo.Session, d *discordgo.Disconnect) {
	b.setAppID("")
	b.bus.Publish("disconnect", s, d)
}

func (b *Bot) setAppID(id string) {
	b.mu.Lock()
	b.appID = id
	b.mu.Unlock()
}

// Ready reports whether the gateway session is established.
func (b *Bot) Ready() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.appID != ""
}
