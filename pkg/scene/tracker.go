package scene

// Tracker remembers the world generation a renderer last drew.
//
// The zero value is stale.
type Tracker struct {
	last uint64
	seen bool
}

// Stale reports whether gen differs from the last marked generation.
func (t *Tracker) Stale(gen uint64) bool {
	return !t.seen || gen != t.last
}

// Mark records gen as drawn.
func (t *Tracker) Mark(gen uint64) {
	t.last, t.seen = gen, true
}

// Reset forces the next Stale call to report true.
func (t *Tracker) Reset() {
	t.seen = false
}
