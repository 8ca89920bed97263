package dispatch

import (
	"strings"
	"sync"
)

// MentionPrefix is the placeholder standing for "@bot " until the bot's own
// user id is known.
const MentionPrefix = "@mention "

// Prefixes is the ordered list of accepted message command prefixes.
type Prefixes struct {
	mu      sync.RWMutex
	list    []string
	resolve sync.Once
}

func NewPrefixes(list []string) *Prefixes {
	p := &Prefixes{}
	for _, prefix := range list {
		if prefix != "" {
			p.list = append(p.list, prefix)
		}
	}
	return p
}

// Match returns the first configured prefix content starts with.
func (p *Prefixes) Match(content string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, prefix := range p.list {
		if strings.HasPrefix(content, prefix) {
			return prefix, true
		}
	}
	return "", false
}

func (p *Prefixes) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.list)
}

// List returns a copy of the prefixes in match order.
func (p *Prefixes) List() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]string, len(p.list))
	copy(out, p.list)
	return out
}

// HasMentionPlaceholder reports whether MentionPrefix is configured and not
// yet resolved.
func (p *Prefixes) HasMentionPlaceholder() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, prefix := range p.list {
		if prefix == MentionPrefix {
			return true
		}
	}
	return false
}

// NonMention reports whether any prefix other than the mention placeholder is
// configured; those need the message content intent.
func (p *Prefixes) NonMention() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, prefix := range p.list {
		if prefix != MentionPrefix {
			return true
		}
	}
	return false
}

// ResolveMention replaces the placeholder with the literal mention of userID.
// Only the first call has any effect; it reports whether a prefix changed.
func (p *Prefixes) ResolveMention(userID string) bool {
	changed := false
	p.resolve.Do(func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		for i, prefix := range p.list {
			if prefix == MentionPrefix {
				p.list[i] = "<@" + userID + "> "
				changed = true
				return
			}
		}
	})
	return changed
}
