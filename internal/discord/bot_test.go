package discord

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"server-skeleton/internal/config"
	"server-skeleton/internal/handler"
	"server-skeleton/internal/logging"
	"server-skeleton/internal/manifest"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/time/rate"
)

type overwriteCall struct {
	appID    string
	guildID  string
	commands []*discordgo.ApplicationCommand
}

type fakeSession struct {
	mu       sync.Mutex
	handlers int
	opened   bool
	closed   bool
	openErr  error
	calls    []overwriteCall
	failOn   string
	started  chan struct{}
}

func (f *fakeSession) AddHandler(interface{}) func() {
	f.mu.Lock()
	f.handlers++
	f.mu.Unlock()
	return func() {
		f.mu.Lock()
		f.handlers--
		f.mu.Unlock()
	}
}

func (f *fakeSession) Open() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.openErr != nil {
		return f.openErr
	}
	f.opened = true
	if f.started != nil {
		close(f.started)
	}
	return nil
}

func (f *fakeSession) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return nil
}

func (f *fakeSession) ApplicationCommandBulkOverwrite(appID, guildID string, cmds []*discordgo.ApplicationCommand, _ ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, overwriteCall{appID: appID, guildID: guildID, commands: cmds})
	if guildID != "" && guildID == f.failOn {
		return nil, errors.New("missing access")
	}
	return cmds, nil
}

func (f *fakeSession) overwrites() []overwriteCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]overwriteCall(nil), f.calls...)
}

func noop(*handler.InteractionContext) error { return nil }

func source() *manifest.Manifest {
	m := manifest.New()
	m.Add("general", "command", "ping.go", handler.NewCommand().
		SetSchema(&discordgo.ApplicationCommand{Name: "ping", Description: "Pong!"}).
		SetExecute(noop))
	m.Add("general", "menucommand", "Avatar.go", handler.NewMenuCommand().
		SetSchema(&discordgo.ApplicationCommand{Name: "Avatar", Type: discordgo.UserApplicationCommand}).
		SetExecute(noop))
	return m
}

func newBot(t *testing.T, cfg *config.Config) (*Bot, *fakeSession, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	s := &fakeSession{}
	b := New(cfg, logging.Wrap(zap.New(core), true), s)
	b.limiter = rate.NewLimiter(rate.Inf, 1)
	return b, s, logs
}

func ready(id string) *discordgo.Event {
	return &discordgo.Event{Type: "READY", Struct: &discordgo.Ready{User: &discordgo.User{ID: id, Username: "bot"}}}
}

func TestInitializeOnce(t *testing.T) {
	b, _, logs := newBot(t, &config.Config{})
	require.NoError(t, b.Initialize(source()))
	assert.ErrorIs(t, b.Initialize(source()), ErrAlreadyInitialized)

	assert.Equal(t, 1, logs.FilterMessage("Initializing client").Len())
	assert.Equal(t, 2, b.reg.Len(handler.CategoryCommand)+b.reg.Len(handler.CategoryMenuCommand))
	assert.Equal(t, 1, b.bus.Len("interaction_create"))
	assert.Equal(t, 0, b.bus.Len("message_create"))
}

func TestInitializeWithPrefixes(t *testing.T) {
	b, _, _ := newBot(t, &config.Config{Prefixes: []string{"@mention ", "!"}})
	require.NoError(t, b.Initialize(manifest.New()))

	assert.Equal(t, 1, b.bus.Len("message_create"))
	assert.Equal(t, 1, b.bus.Len("ready"))
}

func TestDeployPreconditions(t *testing.T) {
	b, s, _ := newBot(t, &config.Config{})
	ctx := context.Background()

	assert.ErrorIs(t, b.DeployCommands(ctx), ErrNotInitialized)
	assert.ErrorIs(t, b.DeleteCommands(ctx), ErrNotReady)

	require.NoError(t, b.Initialize(source()))
	assert.ErrorIs(t, b.DeployCommands(ctx), ErrNotReady)
	assert.Empty(t, s.overwrites())
}

func TestDeployGlobal(t *testing.T) {
	b, s, _ := newBot(t, &config.Config{})
	require.NoError(t, b.Initialize(source()))
	b.onEvent(nil, ready("app"))
	require.True(t, b.Ready())

	require.NoError(t, b.DeployCommands(context.Background()))
	calls := s.overwrites()
	require.Len(t, calls, 1)
	assert.Equal(t, "app", calls[0].appID)
	assert.Equal(t, "", calls[0].guildID)

	var names []string
	for _, c := range calls[0].commands {
		names = append(names, c.Name)
	}
	assert.ElementsMatch(t, []string{"ping", "Avatar"}, names)
}

func TestDeployPerGuild(t *testing.T) {
	b, s, logs := newBot(t, &config.Config{DeployGuildIDs: []string{"1", "2", "3"}})
	s.failOn = "2"
	require.NoError(t, b.Initialize(source()))
	b.onEvent(nil, ready("app"))

	err := b.DeployCommands(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing access")

	calls := s.overwrites()
	require.Len(t, calls, 3)
	assert.Equal(t, "3", calls[2].guildID)
	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
}

func TestDeleteCommands(t *testing.T) {
	b, s, _ := newBot(t, &config.Config{})
	b.onEvent(nil, ready("app"))

	require.NoError(t, b.DeleteCommands(context.Background()))
	calls := s.overwrites()
	require.Len(t, calls, 1)
	assert.NotNil(t, calls[0].commands)
	assert.Empty(t, calls[0].commands)
}

func TestDeployFlagDeploysOnFirstReady(t *testing.T) {
	b, s, _ := newBot(t, &config.Config{Deploy: true})
	require.NoError(t, b.Initialize(source()))

	b.onEvent(nil, ready("app"))
	b.onEvent(nil, ready("app"))

	assert.Len(t, s.overwrites(), 1)
}

func TestDisconnectClearsReady(t *testing.T) {
	b, _, _ := newBot(t, &config.Config{})
	b.onEvent(nil, ready("app"))
	require.True(t, b.Ready())

	b.onDisconnect(nil, &discordgo.Disconnect{})
	assert.False(t, b.Ready())
	assert.ErrorIs(t, b.DeleteCommands(context.Background()), ErrNotReady)
}

func TestEventBridgeRoutesInteraction(t *testing.T) {
	var hit bool
	m := manifest.New()
	m.Add("general", "command", "ping.go", handler.NewCommand().
		SetSchema(&discordgo.ApplicationCommand{Name: "ping", Description: "Pong!"}).
		SetExecute(func(*handler.InteractionContext) error {
			hit = true
			return nil
		}))

	b, _, _ := newBot(t, &config.Config{})
	require.NoError(t, b.Initialize(m))

	b.onEvent(nil, &discordgo.Event{
		Type: "INTERACTION_CREATE",
		Struct: &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
			Type: discordgo.InteractionApplicationCommand,
			User: &discordgo.User{ID: "u1"},
			Data: discordgo.ApplicationCommandInteractionData{Name: "ping"},
		}},
	})
	assert.True(t, hit)
}

func TestEventBridgeFansOutCustomEvents(t *testing.T) {
	m := manifest.New()
	var got []any
	m.Add("general", "event", "typing_start.go", handler.NewEvent().SetExecute(func(ctx *handler.EventContext) error {
		got = append(got, ctx.Payload())
		return nil
	}))

	b, _, _ := newBot(t, &config.Config{})
	require.NoError(t, b.Initialize(m))

	payload := &discordgo.TypingStart{UserID: "u1"}
	b.onEvent(nil, &discordgo.Event{Type: "TYPING_START", Struct: payload})
	b.onEvent(nil, &discordgo.Event{Type: "TYPING_START", Struct: payload})
	assert.Equal(t, []any{payload, payload}, got)
}

func TestRunRequiresInitialize(t *testing.T) {
	b, _, _ := newBot(t, &config.Config{})
	assert.ErrorIs(t, b.Run(context.Background()), ErrNotInitialized)
}

func TestRunOpensAndCloses(t *testing.T) {
	b, s, _ := newBot(t, &config.Config{})
	s.started = make(chan struct{})
	require.NoError(t, b.Initialize(manifest.New()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()

	select {
	case <-s.started:
	case <-time.After(time.Second):
		t.Fatal("session was not opened")
	}
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	assert.True(t, s.opened)
	assert.True(t, s.closed)
	assert.Equal(t, 0, s.handlers)
}

func TestRunOpenError(t *testing.T) {
	b, s, _ := newBot(t, &config.Config{})
	s.openErr = errors.New("bad token")
	require.NoError(t, b.Initialize(manifest.New()))

	err := b.Run(context.Background())
	assert.ErrorContains(t, err, "bad token")
}

func TestIntents(t *testing.T) {
	assert.Equal(t, discordgo.IntentsGuilds, Intents(&config.Config{}))

	mentionOnly := Intents(&config.Config{Prefixes: []string{"@mention "}})
	assert.NotZero(t, mentionOnly&discordgo.IntentsGuildMessages)
	assert.NotZero(t, mentionOnly&discordgo.IntentsDirectMessages)
	assert.Zero(t, mentionOnly&discordgo.IntentsMessageContent)

	bang := Intents(&config.Config{Prefixes: []string{"!"}})
	assert.NotZero(t, bang&discordgo.IntentsMessageContent)
}
