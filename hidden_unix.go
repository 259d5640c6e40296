//go:build !windows

package glyphmatch

import (
	"path/filepath"
	"strings"
)

// isHidden reports whether path names a dot file.
func isHidden(path string) (bool, error) {
	return strings.HasPrefix(filepath.Base(path), "."), nil
}
