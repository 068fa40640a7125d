package drlg

import "github.com/samdwyer/dungeonseed/internal/world"

// Category is the coarse role of a tile.
type Category int

const (
	CategoryWall Category = iota
	CategorySolid
	CategoryFloor
	CategoryDoor
	CategoryStairs
	CategorySpecial
)

var categoryNames = [...]string{"wall", "solid", "floor", "door", "stairs", "special"}

// String returns the category name.
func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return "unknown"
}

type categoryTable [256]Category

func (t *categoryTable) set(c Category, ids ...world.Tile) *categoryTable {
	for _, id := range ids {
		t[id] = c
	}
	return t
}

func (t *categoryTable) span(c Category, lo, hi world.Tile) *categoryTable {
	for id := lo; id <= hi; id++ {
		t[id] = c
	}
	return t
}

var categories = map[Family]*categoryTable{
	Cathedral: new(categoryTable).
		set(CategorySolid, 0, 22).
		span(CategorySolid, 199, 205).
		set(CategoryFloor, 13, 162, 163).
		span(CategoryFloor, 139, 154).
		set(CategoryDoor, 25, 26, 28, 30, 31).
		span(CategoryDoor, 40, 43).
		span(CategoryStairs, 57, 68).
		set(CategorySpecial, 15, 128, 129, 130),
	Catacombs: new(categoryTable).
		set(CategorySolid, 0, 12, 25).
		span(CategorySolid, 143, 148).
		set(CategoryFloor, 3, 21, 22, 23, 46, 47, 49, 51, 52, 108, 110, 134, 135).
		span(CategoryFloor, 112, 115).
		span(CategoryFloor, 120, 123).
		span(CategoryFloor, 128, 131).
		set(CategoryDoor, 4, 5, 7, 9, 44, 45).
		set(CategoryStairs, 48, 50, 71, 72, 76, 77, 78, 158, 159, 160).
		set(CategorySpecial, 83),
	Caves: new(categoryTable).
		set(CategorySolid, 0, 8).
		set(CategoryFloor, 7).
		span(CategorySpecial, 25, 41).
		set(CategorySpecial, 52, 53, 54).
		span(CategorySpecial, 55, 105).
		span(CategoryFloor, 106, 108).
		span(CategoryStairs, 46, 51).
		set(CategoryStairs, 125).
		span(CategoryStairs, 153, 156),
	Hell: new(categoryTable).
		set(CategorySolid, 0, 30, 128).
		set(CategoryFloor, 6, 47, 48, 95, 96, 97).
		span(CategoryDoor, 52, 60).
		span(CategoryStairs, 31, 46).
		span(CategoryStairs, 129, 136),
}

// Classify returns the category of tile t in family f.
func Classify(f Family, t world.Tile) Category {
	tbl, ok := categories[f]
	if !ok || int(t) >= len(tbl) {
		return CategorySolid
	}
	return tbl[t]
}

// Walkable returns the predicate of tiles a player can stand on in family f.
func Walkable(f Family) world.OpenFunc {
	return func(t world.Tile) bool {
		switch Classify(f, t) {
		case CategoryFloor, CategoryDoor, CategoryStairs:
			return true
		}
		return false
	}
}
