// Package gamedata provides the embedded level tables and the helpers that
// load them.
package gamedata

import (
	"embed"
	"encoding/json"
	"fmt"
)

// dataFS embeds all JSON files from this directory at build time.
//
//go:embed *.json
var dataFS embed.FS

// Load reads and unmarshals a JSON file from the embedded filesystem.
func Load[T any](filename string) (T, error) {
	var result T

	content, err := dataFS.ReadFile(filename)
	if err != nil {
		return result, fmt.Errorf("read embedded %s: %w", filename, err)
	}
	if err := json.Unmarshal(content, &result); err != nil {
		return result, fmt.Errorf("parse %s: %w", filename, err)
	}
	return result, nil
}
