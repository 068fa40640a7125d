// Package rng implements the linear congruential generator every level
// stage draws from.
package rng

const (
	multiplier = 0x015A4E35
	increment  = 1

	// Bounds below shortRange are served from the high half of the state.
	shortRange = 0xFFFF
)

// Engine is a seeded 32-bit LCG. It counts every draw so callers can
// compare how much randomness two runs consumed.
type Engine struct {
	state uint32
	draws uint64
}

// New returns an engine seeded with seed.
func New(seed uint32) *Engine {
	e := &Engine{}
	e.Seed(seed)
	return e
}

// Seed resets the state and the draw counter.
func (e *Engine) Seed(seed uint32) {
	e.state = seed
	e.draws = 0
}

// Next advances the generator and returns the absolute value of the new
// state interpreted as int32. The most negative state stays negative.
func (e *Engine) Next() int32 {
	e.state = e.state*multiplier + increment
	e.draws++
	v := int32(e.state)
	if v < 0 {
		v = -v
	}
	return v
}

// Intn returns a value in [0, n). A non-positive n yields 0 without
// consuming a draw. The sign of the underlying draw is preserved, so the
// single most negative state produces a negative result.
func (e *Engine) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	v := e.Next()
	if n < shortRange {
		v >>= 16
	}
	return int(v % int32(n))
}

// PeekState returns the raw state without advancing it.
func (e *Engine) PeekState() uint32 {
	return e.state
}

// Draws returns how many values have been drawn since the last Seed.
func (e *Engine) Draws() uint64 {
	return e.draws
}
