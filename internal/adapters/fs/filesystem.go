// Package fs provides the filesystem adapter.
package fs

import (
	"os"

	"go.trai.ch/grit/internal/core/domain"
	"go.trai.ch/zerr"
)

// Filesystem implements ports.Filesystem on the local disk.
type Filesystem struct{}

// NewFilesystem creates a new Filesystem.
func NewFilesystem() *Filesystem {
	return &Filesystem{}
}

// Exists reports whether path exists. Broken symlinks count as existing.
func (f *Filesystem) Exists(path string) (bool, error) {
	if _, err := os.Lstat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, zerr.With(zerr.Wrap(err, domain.ErrPathStatFailed.Error()), "path", path)
	}
	return true, nil
}

// RemoveAll removes path and everything it contains.
// A missing path is not an error.
func (f *Filesystem) RemoveAll(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrRemoveFailed.Error()), "path", path)
	}
	return nil
}
