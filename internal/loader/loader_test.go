package loader

import (
	"errors"
	"testing"

	"server-skeleton/internal/handler"
	"server-skeleton/internal/logging"
	"server-skeleton/internal/manifest"
	"server-skeleton/internal/registry"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newLoader(t *testing.T, src Source) (*Loader, *registry.Registry, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	reg := registry.New()
	return New(src, reg, logging.Wrap(zap.New(core), true)), reg, logs
}

func warnings(logs *observer.ObservedLogs) []observer.LoggedEntry {
	return logs.FilterLevelExact(zapcore.WarnLevel).All()
}

func noop(*handler.InteractionContext) error { return nil }

func ping() *handler.Command {
	return handler.NewCommand().
		SetSchema(&discordgo.ApplicationCommand{Name: "ping", Description: "Pong!"}).
		SetExecute(noop)
}

func TestDuplicateCommandAcrossModules(t *testing.T) {
	m := manifest.New()
	first := ping()
	m.Add("a", "command", "ping.go", first)
	m.Add("b", "command", "ping.go", ping())

	l, reg, logs := newLoader(t, m)
	sum := l.Load()

	assert.Equal(t, Summary{Modules: 2, Loaded: 1, Skipped: 1}, sum)
	assert.Equal(t, 1, reg.Len(handler.CategoryCommand))
	got, ok := reg.Interaction(handler.CategoryCommand, "ping")
	require.True(t, ok)
	assert.Same(t, first, got)
	assert.Len(t, reg.Schemas(), 1)

	warns := warnings(logs)
	require.Len(t, warns, 1)
	assert.Contains(t, warns[0].Message, "b > Command > ping.go")
	assert.Contains(t, warns[0].Message, "conflict")
}

func TestDuplicateSchemaNameUnderDifferentFile(t *testing.T) {
	m := manifest.New()
	m.Add("a", "command", "ping.go", ping())
	m.Add("a", "command", "pong.go", ping())

	l, reg, logs := newLoader(t, m)
	l.Load()

	assert.Equal(t, 1, reg.Len(handler.CategoryCommand))
	_, ok := reg.Interaction(handler.CategoryCommand, "pong")
	assert.False(t, ok)
	assert.Len(t, warnings(logs), 1)
}

func TestDuplicateInteractionAndMessageKeys(t *testing.T) {
	m := manifest.New()
	m.Add("a", "button", "confirm.go", handler.NewButton().SetExecute(noop))
	m.Add("b", "button", "confirm.go", handler.NewButton().SetExecute(noop))
	m.Add("a", "messagecommand", "play.go", handler.NewMessageCommand().SetExecute(func(*handler.MessageContext) error { return nil }))
	m.Add("b", "messagecommand", "play.go", handler.NewMessageCommand().SetExecute(func(*handler.MessageContext) error { return nil }))

	l, reg, logs := newLoader(t, m)
	sum := l.Load()

	assert.Equal(t, 2, sum.Loaded)
	assert.Equal(t, 2, sum.Skipped)
	assert.Equal(t, 1, reg.Len(handler.CategoryButton))
	assert.Equal(t, 1, reg.Len(handler.CategoryMessageCommand))
	assert.Len(t, warnings(logs), 2)
}

func TestEventsAccumulate(t *testing.T) {
	m := manifest.New()
	exec := func(*handler.EventContext) error { return nil }
	a := handler.NewEvent().SetExecute(exec)
	b := handler.NewEvent().SetOnce(true).SetExecute(exec)
	m.Add("a", "event", "ready.go", a)
	m.Add("b", "event", "ready.go", b)

	l, reg, logs := newLoader(t, m)
	l.Load()

	assert.Equal(t, []*handler.Event{a, b}, reg.Events("ready"))
	assert.Empty(t, warnings(logs))
}

func TestUnknownFoldersAndFilesAreIgnored(t *testing.T) {
	m := manifest.New()
	m.Add("a", "Buttons", "confirm.go", handler.NewButton().SetExecute(noop))
	m.Add("a", "button", "README.md", handler.NewButton().SetExecute(noop))
	m.Add("a", "button", "confirm_test.go", handler.NewButton().SetExecute(noop))

	l, reg, logs := newLoader(t, m)
	sum := l.Load()

	assert.Equal(t, Summary{Modules: 1}, sum)
	assert.Equal(t, 0, reg.Len(handler.CategoryButton))
	assert.Empty(t, warnings(logs))
}

func TestMalformedRecordsAreSkipped(t *testing.T) {
	m := manifest.New()
	m.Add("a", "button", "broken.go", handler.NewButton())
	m.Add("a", "command", "noschema.go", handler.NewCommand().SetExecute(noop))
	m.Add("a", "command", "misplaced.go", handler.NewButton().SetExecute(noop))
	m.Add("a", "modalsubmit", "ok.go", handler.NewModalSubmit().SetExecute(noop))

	l, reg, logs := newLoader(t, m)
	var sum Summary
	require.NotPanics(t, func() { sum = l.Load() })

	assert.Equal(t, 1, sum.Loaded)
	assert.Equal(t, 3, sum.Skipped)
	assert.Equal(t, 0, reg.Len(handler.CategoryButton))
	assert.Equal(t, 0, reg.Len(handler.CategoryCommand))
	assert.Equal(t, 1, reg.Len(handler.CategoryModalSubmit))
	assert.Len(t, warnings(logs), 3)
}

type failingSource struct{ *manifest.Manifest }

func (f failingSource) Load(module, folder, file string) (handler.Record, error) {
	if file == "bad.go" {
		return nil, errors.New("cannot open")
	}
	return f.Manifest.Load(module, folder, file)
}

func TestSourceErrorSkipsOnlyThatFile(t *testing.T) {
	m := manifest.New()
	m.Add("a", "button", "bad.go", handler.NewButton().SetExecute(noop))
	m.Add("a", "button", "good.go", handler.NewButton().SetExecute(noop))

	l, reg, logs := newLoader(t, failingSource{m})
	sum := l.Load()

	assert.Equal(t, 1, sum.Loaded)
	assert.Equal(t, 1, reg.Len(handler.CategoryButton))
	require.Len(t, warnings(logs), 1)
	assert.Contains(t, warnings(logs)[0].Message, "cannot open")
}

type nilSource struct{ *manifest.Manifest }

func (n nilSource) Load(module, folder, file string) (handler.Record, error) {
	if file == "nil.go" {
		return (*handler.Button)(nil), nil
	}
	return n.Manifest.Load(module, folder, file)
}

func TestNilPointerRecordIsSkipped(t *testing.T) {
	m := manifest.New()
	m.Add("a", "button", "nil.go", handler.NewButton().SetExecute(noop))
	m.Add("a", "button", "ok.go", handler.NewButton().SetExecute(noop))

	l, reg, logs := newLoader(t, nilSource{m})
	var sum Summary
	require.NotPanics(t, func() { sum = l.Load() })

	assert.Equal(t, 1, sum.Loaded)
	assert.Equal(t, 1, sum.Skipped)
	_, ok := reg.Interaction(handler.CategoryButton, "ok")
	assert.True(t, ok)
	require.Len(t, warnings(logs), 1)
	assert.Contains(t, warnings(logs)[0].Message, "a > Button > nil.go")
	assert.Contains(t, warnings(logs)[0].Message, "no handler declared")
}

func TestDottedKeyLoads(t *testing.T) {
	m := manifest.New()
	m.Add("a", "button", "v1.2.go", handler.NewButton().SetExecute(noop))
	m.Add("a", "menucommand", "Mr. Avatar.go", handler.NewMenuCommand().
		SetSchema(&discordgo.ApplicationCommand{Name: "Mr. Avatar", Type: discordgo.UserApplicationCommand}).
		SetExecute(noop))

	l, reg, logs := newLoader(t, m)
	sum := l.Load()

	assert.Equal(t, 2, sum.Loaded)
	assert.Empty(t, warnings(logs))
	_, ok := reg.Interaction(handler.CategoryButton, "v1.2")
	assert.True(t, ok)
	_, ok = reg.Interaction(handler.CategoryMenuCommand, "Mr. Avatar")
	assert.True(t, ok)
}

// Later files may rely on earlier ones being registered: within a module the
// first folder in category order and the first file in name order win.
func TestLoadOrderIsDeterministic(t *testing.T) {
	m := manifest.New()
	exec := func(*handler.EventContext) error { return nil }
	names := []string{"z", "a", "m"}
	events := map[string]*handler.Event{}
	for _, n := range names {
		events[n] = handler.NewEvent().SetExecute(exec)
		m.Add(n, "event", "ready.go", events[n])
	}

	l, reg, _ := newLoader(t, m)
	l.Load()

	assert.Equal(t, []*handler.Event{events["a"], events["m"], events["z"]}, reg.Events("ready"))
}

func TestKey(t *testing.T) {
	assert.Equal(t, "ping", Key("ping.go"))
	assert.Equal(t, "Show Avatar", Key("Show Avatar.go"))
	assert.Equal(t, "interaction_create", Key("interaction_create.go"))
	assert.Equal(t, "v1.2", Key("v1.2.go"))
}
