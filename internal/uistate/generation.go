package uistate

import "sync/atomic"

// Token identifies one fetch started through a Generation.
type Token uint64

// Generation discards stale async results. Every fetch calls Begin and
// applies its result only if IsCurrent still holds, so when parameters
// change quickly the last request wins regardless of completion order.
type Generation struct {
	n atomic.Uint64
}

// Begin starts a new fetch and invalidates all earlier tokens.
func (g *Generation) Begin() Token {
	return Token(g.n.Add(1))
}

// IsCurrent reports whether t belongs to the most recent Begin.
func (g *Generation) IsCurrent(t Token) bool {
	return uint64(t) == g.n.Load()
}

// Invalidate drops any in-flight fetch, e.g. when a screen unmounts.
func (g *Generation) Invalidate() {
	g.n.Add(1)
}
