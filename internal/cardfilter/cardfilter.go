// Package cardfilter admits or rejects rows by the card number they were charged to.
package cardfilter

import "strings"

// Filter reports whether card contains at least one allowed substring. A nil allow-list
// admits every card; an empty non-nil list admits none. Cards are compared as raw
// strings since exports mask numbers differently.
func Filter(card string, allowed []string) bool {
	if allowed == nil {
		return true
	}
	for _, a := range allowed {
		if a != "" && strings.Contains(card, a) {
			return true
		}
	}
	return false
}

// Policy layers a block-list over the allow-list.
type Policy struct {
	Allowed []string
	Blocked []string
}

// NewPolicy builds a policy from trimmed, non-empty entries. A nil allowed slice means
// every card is allowed unless blocked.
func NewPolicy(allowed, blocked []string) Policy {
	p := Policy{Blocked: clean(blocked)}
	if allowed != nil {
		p.Allowed = clean(allowed)
		if p.Allowed == nil {
			p.Allowed = []string{}
		}
	}
	return p
}

// FromLists builds a policy from configured lists, where an empty allow-list means no
// restriction. It returns nil when the policy would admit every card.
func FromLists(allowed, blocked []string) *Policy {
	if len(allowed) == 0 {
		allowed = nil
	}
	p := NewPolicy(allowed, blocked)
	if !p.Active() {
		return nil
	}
	return &p
}

// Effective returns the allow-list with every blocked entry removed.
func (p Policy) Effective() []string {
	if p.Allowed == nil {
		return nil
	}
	out := make([]string, 0, len(p.Allowed))
	for _, a := range p.Allowed {
		if !p.blocks(a) {
			out = append(out, a)
		}
	}
	return out
}

// Admit reports whether a row charged to card may be imported.
func (p Policy) Admit(card string) bool {
	if !Filter(card, p.Effective()) {
		return false
	}
	return !p.blocks(card)
}

// Active reports whether the policy can reject anything.
func (p Policy) Active() bool {
	return p.Allowed != nil || len(p.Blocked) > 0
}

func (p Policy) blocks(card string) bool {
	for _, b := range p.Blocked {
		if b != "" && strings.Contains(card, b) {
			return true
		}
	}
	return false
}

func clean(values []string) []string {
	var out []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
