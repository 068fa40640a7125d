package gamedata

import (
	"errors"
	"fmt"
	"sync"
)

// PaletteDef lists the display colors of a family as hex strings.
type PaletteDef struct {
	Floor   string `json:"floor"`
	Wall    string `json:"wall"`
	Door    string `json:"door"`
	Stairs  string `json:"stairs"`
	Solid   string `json:"solid"`
	Special string `json:"special"`
}

// FamilyDef describes a level family.
type FamilyDef struct {
	ID        string     `json:"id"`        // Family id (e.g., "cathedral")
	Name      string     `json:"name"`      // Display name
	SolidTile int        `json:"solidTile"` // Tile filling the piece grid border
	Palette   PaletteDef `json:"palette"`
}

// LevelDef holds the generation parameters of one depth.
type LevelDef struct {
	Depth     int    `json:"depth"`
	Family    string `json:"family"`
	MinArea   int    `json:"minArea,omitempty"`   // Smallest accepted open area
	MaxVoid   int    `json:"maxVoid,omitempty"`   // Largest accepted unfilled area
	TownWarp  bool   `json:"townWarp,omitempty"`  // Level has a town portal entrance
	FirstRoom int    `json:"firstRoom,omitempty"` // Fixed size of the first room
	Bottom    bool   `json:"bottom,omitempty"`    // Deepest level, no stairs down
}

// LevelsFile represents the structure of levels.json.
type LevelsFile struct {
	Families []FamilyDef `json:"families"`
	Levels   []LevelDef  `json:"levels"`
}

// LevelRegistry indexes level and family definitions.
type LevelRegistry struct {
	levels   map[int]*LevelDef
	families map[string]*FamilyDef
	all      []LevelDef
}

// NewLevelRegistry validates and indexes the definitions.
func NewLevelRegistry(file LevelsFile) (*LevelRegistry, error) {
	if len(file.Levels) == 0 {
		return nil, errors.New("no levels defined")
	}
	r := &LevelRegistry{
		levels:   make(map[int]*LevelDef, len(file.Levels)),
		families: make(map[string]*FamilyDef, len(file.Families)),
		all:      file.Levels,
	}
	for i := range file.Families {
		r.families[file.Families[i].ID] = &file.Families[i]
	}
	for i := range file.Levels {
		l := &file.Levels[i]
		if _, ok := r.families[l.Family]; !ok {
			return nil, fmt.Errorf("depth %d: unknown family %q", l.Depth, l.Family)
		}
		if _, dup := r.levels[l.Depth]; dup {
			return nil, fmt.Errorf("depth %d defined twice", l.Depth)
		}
		r.levels[l.Depth] = l
	}
	return r, nil
}

// LoadLevelRegistry loads the registry from the embedded levels.json.
func LoadLevelRegistry() (*LevelRegistry, error) {
	file, err := Load[LevelsFile]("levels.json")
	if err != nil {
		return nil, err
	}
	return NewLevelRegistry(file)
}

// MustLoadLevelRegistry loads a registry, panicking on error.
func MustLoadLevelRegistry() *LevelRegistry {
	r, err := LoadLevelRegistry()
	if err != nil {
		panic(err)
	}
	return r
}

var (
	levelsOnce sync.Once
	levels     *LevelRegistry
)

// Levels returns the shared registry loaded from the embedded data.
func Levels() *LevelRegistry {
	levelsOnce.Do(func() {
		levels = MustLoadLevelRegistry()
	})
	return levels
}

// ByDepth returns the definition of depth, or nil if there is none.
func (r *LevelRegistry) ByDepth(depth int) *LevelDef {
	return r.levels[depth]
}

// Family returns the family with the given id, or nil if not found.
func (r *LevelRegistry) Family(id string) *FamilyDef {
	return r.families[id]
}

// All returns all level definitions in file order.
func (r *LevelRegistry) All() []LevelDef {
	return r.all
}

// Count returns the number of levels.
func (r *LevelRegistry) Count() int {
	return len(r.all)
}
