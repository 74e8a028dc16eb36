package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// display renders paths relative to the working directory when the measured
// tree lies inside it, and absolute otherwise.
type display struct {
	cwd     string
	outside bool
}

func newDisplay(root string) (display, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return display{}, errors.Wrap(err, "getting current directory")
	}

	relToTarget, err := filepath.Rel(cwd, root)
	outside := err != nil || strings.HasPrefix(relToTarget, "..")

	return display{cwd: cwd, outside: outside}, nil
}

// path returns the display form of an absolute path, in slash format.
func (d display) path(path string) string {
	if !d.outside {
		if rel, err := filepath.Rel(d.cwd, path); err == nil {
			path = rel
		}
	}

	return filepath.ToSlash(path)
}
