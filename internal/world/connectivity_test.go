package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func isFloor(t Tile) bool { return t == 1 }

func TestFloodReachableConnected(t *testing.T) {
	p := NewPlane(6, 6)
	for x := 1; x < 5; x++ {
		p.Set(x, 1, 1)
		p.Set(x, 4, 1)
	}
	for y := 1; y < 5; y++ {
		p.Set(1, y, 1)
	}

	assert.Equal(t, 10, OpenArea(p, isFloor))
	assert.True(t, FloodReachable(p, Point{X: 4, Y: 4}, isFloor))
}

func TestFloodReachableSplit(t *testing.T) {
	p := NewPlane(6, 6)
	p.Set(1, 1, 1)
	p.Set(2, 1, 1)
	p.Set(4, 4, 1)

	assert.False(t, FloodReachable(p, Point{X: 1, Y: 1}, isFloor))
	assert.Equal(t, 2, Reachable(p, Point{X: 1, Y: 1}, isFloor).Size())
}

func TestLastOpen(t *testing.T) {
	p := NewPlane(5, 5)
	p.Set(1, 1, 1)
	p.Set(3, 2, 1)
	p.Set(0, 2, 1)

	pt, ok := LastOpen(p, isFloor)
	assert.True(t, ok)
	assert.Equal(t, Point{X: 3, Y: 2}, pt)

	_, ok = LastOpen(NewPlane(2, 2), isFloor)
	assert.False(t, ok)
}

func TestRoomGeometry(t *testing.T) {
	r := RoomFromCorners(2, 3, 5, 9)
	assert.Equal(t, Room{X: 2, Y: 3, Width: 4, Height: 7}, r)

	x2, y2 := r.Max()
	assert.Equal(t, 5, x2)
	assert.Equal(t, 9, y2)
	assert.True(t, r.Contains(5, 9))
	assert.False(t, r.Contains(6, 9))
	assert.True(t, r.Intersects(Room{X: 5, Y: 9, Width: 1, Height: 1}))
}
