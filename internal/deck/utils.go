package deck

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ivlev/slides2video/internal/system"
)

// DefaultDir is where decks are looked up when no path is given.
var DefaultDir = filepath.Join("input", "decks")

var deckExts = []string{".json", ".yaml", ".yml"}

// FindLatest returns the most recently modified deck file in dir.
func FindLatest(dir string) (string, error) {
	path, err := system.FindLatest(dir, deckExts...)
	if err != nil {
		return "", fmt.Errorf("no deck found: %w", err)
	}
	return path, nil
}

// OutputName derives a clean base name for the video from the deck path.
func OutputName(deckPath string) string {
	base := filepath.Base(deckPath)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return strings.ReplaceAll(name, " ", "_")
}
