//go:build !windows

package output

import (
	"errors"
	"io/fs"
)

// isLocked reports whether err means the destination is held by another process.
func isLocked(err error) bool {
	return err != nil && errors.Is(err, fs.ErrPermission)
}
