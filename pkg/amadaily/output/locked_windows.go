//go:build windows

package output

import (
	"errors"
	"io/fs"

	"golang.org/x/sys/windows"
)

// isLocked reports whether err means the destination is held by another
// process. A workbook open in Excel fails with a sharing violation rather
// than access denied.
func isLocked(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, fs.ErrPermission) ||
		errors.Is(err, windows.ERROR_SHARING_VIOLATION) ||
		errors.Is(err, windows.ERROR_LOCK_VIOLATION)
}
