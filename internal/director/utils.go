package director

import (
	"fmt"
	"path/filepath"
	"time"
)

// DeckPath creates a timestamped deck filename in dir.
func DeckPath(dir, name string) string {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join(dir, fmt.Sprintf("%s_%s.yaml", name, timestamp))
}
