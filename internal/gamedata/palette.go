package gamedata

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// Palette holds parsed family colors.
type Palette struct {
	Floor, Wall, Door, Stairs, Solid, Special tcell.Color
}

// ParseHexColor converts "#RRGGBB" or "RRGGBB" to a tcell.Color.
func ParseHexColor(hex string) (tcell.Color, error) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return tcell.ColorDefault, fmt.Errorf("invalid hex color length: %s", hex)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return tcell.ColorDefault, fmt.Errorf("invalid hex color %s: %w", hex, err)
	}
	return tcell.NewRGBColor(int32(v>>16&0xFF), int32(v>>8&0xFF), int32(v&0xFF)), nil
}

// Parse converts every entry of the palette.
func (p PaletteDef) Parse() (Palette, error) {
	var out Palette
	fields := []struct {
		hex string
		dst *tcell.Color
	}{
		{p.Floor, &out.Floor},
		{p.Wall, &out.Wall},
		{p.Door, &out.Door},
		{p.Stairs, &out.Stairs},
		{p.Solid, &out.Solid},
		{p.Special, &out.Special},
	}
	for _, f := range fields {
		c, err := ParseHexColor(f.hex)
		if err != nil {
			return Palette{}, err
		}
		*f.dst = c
	}
	return out, nil
}
