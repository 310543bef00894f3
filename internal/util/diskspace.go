// Package util provides small formatting and filesystem helpers shared
// across gitflix's commands.
package util

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// MinRepoSpaceMB is the minimum free space recommended before starting
// an encode: a 1080p RGB keyframe alone is over 6 MB uncompressed, and
// a chain of any length keeps appending blobs for as long as the
// source has frames.
const MinRepoSpaceMB = 100

// EnsureDirectoryWritable checks that path exists, is a directory, and
// accepts a test file write. objectstore.Open creates the repository
// directory itself, so this only matters for a repo's parent: a
// caller pointing <repo-path> at a read-only mount should fail before
// the first frame is encoded, not partway through the chain.
func EnsureDirectoryWritable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("directory does not exist: %s", path)
		}
		return fmt.Errorf("cannot access directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", path)
	}

	testPath := filepath.Join(path, ".gitflix_write_test")
	f, err := os.Create(testPath)
	if err != nil {
		return fmt.Errorf("directory is not writable: %s", path)
	}
	_ = f.Close()
	_ = os.Remove(testPath)
	return nil
}

// GetAvailableSpace returns the available disk space in bytes for the
// filesystem holding path, or 0 if it cannot be determined.
func GetAvailableSpace(path string) uint64 {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return 0
	}
	return stat.Bavail * uint64(stat.Bsize)
}

// CheckDiskSpace reports whether the filesystem holding path has at
// least MinRepoSpaceMB free, invoking warn (if non-nil) when it does
// not. A space check that can't be resolved is treated as sufficient
// rather than blocking the encode.
func CheckDiskSpace(path string, warn func(format string, args ...any)) bool {
	available := GetAvailableSpace(path)
	if available == 0 {
		return true
	}

	availableMB := available / (1024 * 1024)
	if availableMB < MinRepoSpaceMB {
		if warn != nil {
			warn("Low disk space near %s: %d MB available (recommended minimum %d MB)",
				path, availableMB, MinRepoSpaceMB)
		}
		return false
	}
	return true
}
