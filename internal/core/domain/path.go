package domain

import (
	"path/filepath"
	"strings"
)

// ResolvePath joins rel onto root and rejects results that escape root.
// Absolute paths are accepted only when they lie inside root.
func ResolvePath(root, rel string) (string, error) {
	var p string
	if filepath.IsAbs(rel) {
		p = filepath.Clean(rel)
	} else {
		p = filepath.Join(root, rel)
	}

	r, err := filepath.Rel(root, p)
	if err != nil || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
		return "", tag(ErrPathOutsideRoot, "path", rel)
	}
	return p, nil
}
