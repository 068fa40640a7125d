package rng

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// minIntSeed advances to the state 0x80000000 on the next draw.
const minIntSeed = 1457187811

func TestNextSequence(t *testing.T) {
	e := New(0)

	assert.Equal(t, int32(1), e.Next())
	assert.Equal(t, int32(22695478), e.Next())
	assert.Equal(t, int32(2138921681), e.Next())
	assert.Equal(t, uint64(3), e.Draws())
}

func TestNextMostNegativeState(t *testing.T) {
	e := New(minIntSeed)

	v := e.Next()
	assert.Equal(t, int32(math.MinInt32), v)
	assert.Equal(t, uint32(0x80000000), e.PeekState())
}

func TestIntnNonPositiveDoesNotDraw(t *testing.T) {
	e := New(99)

	assert.Equal(t, 0, e.Intn(0))
	assert.Equal(t, 0, e.Intn(-5))
	assert.Equal(t, uint64(0), e.Draws())
	assert.Equal(t, uint32(99), e.PeekState())
}

func TestIntnShortAndLongRange(t *testing.T) {
	short := New(12345)
	assert.Equal(t, 1, short.Intn(100))

	long := New(12345)
	assert.Equal(t, 89326, long.Intn(100000))
}

func TestIntnKeepsNegativeDraw(t *testing.T) {
	short := New(minIntSeed)
	assert.Equal(t, -8, short.Intn(10))

	long := New(minIntSeed)
	assert.Equal(t, -83648, long.Intn(100000))
}

func TestIntnRange(t *testing.T) {
	e := New(42)
	for i := 0; i < 10000; i++ {
		v := e.Intn(7)
		require.GreaterOrEqual(t, v, 0)
		require.Less(t, v, 7)
	}
	assert.Equal(t, uint64(10000), e.Draws())
}

func TestSeedResetsCounter(t *testing.T) {
	e := New(1)
	e.Next()
	e.Next()

	e.Seed(1)
	assert.Equal(t, uint64(0), e.Draws())
	assert.Equal(t, uint32(1), e.PeekState())
}

func TestReproducible(t *testing.T) {
	a, b := New(777), New(777)
	for i := 0; i < 1000; i++ {
		require.Equal(t, a.Intn(40), b.Intn(40))
	}
}
