//go:build windows

package output

import (
	"io"
	"io/fs"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/windows"
)

func TestIsLockedWindowsErrors(t *testing.T) {
	for _, errno := range []error{windows.ERROR_SHARING_VIOLATION, windows.ERROR_LOCK_VIOLATION} {
		err := &fs.PathError{Op: "open", Path: "daily.xlsx", Err: errno}
		assert.True(t, isLocked(err), "%v", errno)
	}
	assert.False(t, isLocked(&fs.PathError{Op: "open", Path: "daily.xlsx", Err: windows.ERROR_PATH_NOT_FOUND}))
}

func TestWriteReportSharingViolation(t *testing.T) {
	dir := t.TempDir()
	orig := createFile
	t.Cleanup(func() { createFile = orig })
	createFile = func(path string) (io.WriteCloser, error) {
		if filepath.Base(path) == "daily.xlsx" {
			return nil, &fs.PathError{Op: "open", Path: path, Err: windows.ERROR_SHARING_VIOLATION}
		}
		return orig(path)
	}

	path, err := WriteReport(sampleReport(), WriteOptions{
		Dir:  dir,
		Base: "daily",
		Now:  func() time.Time { return time.Date(2025, 9, 8, 10, 15, 0, 0, time.UTC) },
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "daily_20250908_101500.xlsx"), path)
}
