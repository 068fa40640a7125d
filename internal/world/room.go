package world

// Room is a rectangular region of the coarse grid.
type Room struct {
	X, Y          int // Top-left corner position
	Width, Height int // Dimensions of the room
}

// RoomFromCorners builds a room from inclusive corner coordinates.
func RoomFromCorners(x1, y1, x2, y2 int) Room {
	return Room{X: x1, Y: y1, Width: x2 - x1 + 1, Height: y2 - y1 + 1}
}

// Center returns the center coordinates of the room.
func (r Room) Center() (int, int) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// Max returns the inclusive bottom-right corner.
func (r Room) Max() (int, int) {
	return r.X + r.Width - 1, r.Y + r.Height - 1
}

// Empty reports whether the room covers no cells.
func (r Room) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains returns true if the given point is inside the room.
func (r Room) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Intersects returns true if this room overlaps with another room.
func (r Room) Intersects(other Room) bool {
	return r.X < other.X+other.Width &&
		r.X+r.Width > other.X &&
		r.Y < other.Y+other.Height &&
		r.Y+r.Height > other.Y
}
