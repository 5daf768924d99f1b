package data

import (
	"embed"
	"fmt"
	"os"
)

//go:embed defaults/*.yaml
var defaultFS embed.FS

// readTable returns the contents of path, or of the built-in default table
// when path is empty.
func readTable(path, builtin string) ([]byte, error) {
	if path == "" {
		return defaultFS.ReadFile("defaults/" + builtin)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return raw, nil
}
