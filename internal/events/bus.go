// Package events is a small publish/subscribe emitter keyed by event name.
package events

import "sync"

// Listener receives the arguments passed to Publish.
type Listener func(args ...any)

type subscription struct {
	id   uint64
	once bool
	fn   Listener
}

// Bus keeps, per event name, an ordered list of listeners. It is safe for
// concurrent use.
type Bus struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[string][]subscription
}

func NewBus() *Bus {
	return &Bus{subs: make(map[string][]subscription)}
}

// Subscribe appends fn to the listeners of name. A once listener is removed
// before its first invocation. The returned function removes the listener.
func (b *Bus) Subscribe(name string, once bool, fn Listener) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs[name] = append(b.subs[name], subscription{id: id, once: once, fn: fn})

	return func() { b.remove(name, id) }
}

// On subscribes a persistent listener.
func (b *Bus) On(name string, fn Listener) func() { return b.Subscribe(name, false, fn) }

// Once subscribes a listener that fires at most once.
func (b *Bus) Once(name string, fn Listener) func() { return b.Subscribe(name, true, fn) }

// Publish invokes the listeners of name in subscription order and returns how
// many ran. Listeners run on the caller's goroutine.
func (b *Bus) Publish(name string, args ...any) int {
	b.mu.Lock()
	current := b.subs[name]
	if len(current) == 0 {
		b.mu.Unlock()
		return 0
	}
	snapshot := make([]subscription, len(current))
	copy(snapshot, current)

	kept := current[:0:0]
	for _, s := range current {
		if !s.once {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		delete(b.subs, name)
	} else {
		b.subs[name] = kept
	}
	b.mu.Unlock()

	for _, s := range snapshot {
		s.fn(args...)
	}
	return len(snapshot)
}

// Len returns the number of listeners currently subscribed to name.
func (b *Bus) Len(name string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[name])
}

func (b *Bus) remove(name string, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	list := b.subs[name]
	for i, s := range list {
		if s.id == id {
			b.subs[name] = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	if len(b.subs[name]) == 0 {
		delete(b.subs, name)
	}
}
