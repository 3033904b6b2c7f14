// Package fs answers filesystem questions for the build engine.
package fs

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"go.trai.ch/vrog/internal/core/domain"
)

// Oracle reports existence and modification times straight from the filesystem.
// Nothing is cached: every call stats the path again.
type Oracle struct{}

// NewOracle creates a new Oracle.
func NewOracle() *Oracle {
	return &Oracle{}
}

// Exists reports whether path exists. A missing file is not an error.
func (o *Oracle) Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, domain.Because(domain.ErrStatFailed, err, "path", path)
}

// ModTime returns the last modification time of path.
func (o *Oracle) ModTime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, domain.Because(domain.ErrStatFailed, err, "path", path)
	}
	return info.ModTime(), nil
}
