package drlg

import (
	"fmt"
	"strings"
)

// Mode selects how much of the pipeline runs and when it gives up.
type Mode int

const (
	// Full builds everything and returns the grid.
	Full Mode = iota
	// NoContent builds the grid but skips decoration.
	NoContent
	// BreakOnSuccess returns the level seed as soon as the structure and
	// stairs are in place, before any fixup runs.
	BreakOnSuccess
	// BreakOnFailure gives up instead of retrying an attempt.
	BreakOnFailure
	// BreakOnFailureOrNoContent gives up instead of retrying and skips
	// decoration.
	BreakOnFailureOrNoContent
)

var modeNames = map[Mode]string{
	Full:                      "full",
	NoContent:                 "no-content",
	BreakOnSuccess:            "break-on-success",
	BreakOnFailure:            "break-on-failure",
	BreakOnFailureOrNoContent: "break-on-failure-or-no-content",
}

// String returns a human-readable mode name.
func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return "unknown"
}

// ParseMode maps a name produced by String back to a Mode.
func ParseMode(s string) (Mode, error) {
	for m, name := range modeNames {
		if strings.EqualFold(s, name) {
			return m, nil
		}
	}
	return Full, fmt.Errorf("unknown generation mode %q", s)
}

func (m Mode) breaksOnFailure() bool {
	return m == BreakOnFailure || m == BreakOnFailureOrNoContent
}

func (m Mode) skipsContent() bool {
	return m == NoContent || m == BreakOnFailureOrNoContent
}

// keepsGrid reports whether the finished grid is returned to the caller.
func (m Mode) keepsGrid() bool {
	return m == Full || m == NoContent
}

// Entry is how the player arrives on the level.
type Entry int

const (
	// EntryMain arrives from the level above.
	EntryMain Entry = iota
	// EntryPrev arrives from the level below.
	EntryPrev
	// EntryTownWarp arrives through the town portal of a family's first level.
	EntryTownWarp
)

// String returns a human-readable entry name.
func (e Entry) String() string {
	switch e {
	case EntryMain:
		return "main"
	case EntryPrev:
		return "prev"
	case EntryTownWarp:
		return "town-warp"
	default:
		return "unknown"
	}
}

// ParseEntry maps a name produced by String back to an Entry.
func ParseEntry(s string) (Entry, error) {
	for _, e := range []Entry{EntryMain, EntryPrev, EntryTownWarp} {
		if strings.EqualFold(s, e.String()) {
			return e, nil
		}
	}
	return EntryMain, fmt.Errorf("unknown entry %q", s)
}

// Family identifies one of the four level generators.
type Family int

const (
	Cathedral Family = iota + 1
	Catacombs
	Caves
	Hell
)

var familyIDs = map[Family]string{
	Cathedral: "cathedral",
	Catacombs: "catacombs",
	Caves:     "caves",
	Hell:      "hell",
}

// String returns the family id used in level data.
func (f Family) String() string {
	if id, ok := familyIDs[f]; ok {
		return id
	}
	return "unknown"
}

// ParseFamily maps a family id to a Family.
func ParseFamily(s string) (Family, error) {
	for f, id := range familyIDs {
		if strings.EqualFold(s, id) {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown level family %q", s)
}
