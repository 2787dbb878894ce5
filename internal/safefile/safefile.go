// Package safefile opens input files that are guaranteed to be regular
// files of bounded size.
package safefile

import (
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	// ErrNotRegularFile is returned for symlinks, FIFOs, devices, sockets and directories.
	ErrNotRegularFile = errors.New("not a regular file")

	// ErrTooLarge is returned when a file exceeds the caller's size limit.
	ErrTooLarge = errors.New("file too large")
)

// OpenRegular opens path for reading after checking, both before and after
// the open, that it is a regular file. The path itself must not be a
// symlink.
//
// The caller must close the returned file.
func OpenRegular(path string) (*os.File, os.FileInfo, error) {
	before, err := os.Lstat(path)
	if err != nil {
		return nil, nil, err
	}
	if !before.Mode().IsRegular() {
		return nil, nil, ErrNotRegularFile
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}

	after, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	// The path may have been swapped between Lstat and Open.
	if !after.Mode().IsRegular() || !os.SameFile(before, after) {
		f.Close()
		return nil, nil, ErrNotRegularFile
	}
	return f, after, nil
}

// ReadFile reads a regular file of at most maxBytes bytes.
// maxBytes <= 0 means no limit.
func ReadFile(path string, maxBytes int64) ([]byte, error) {
	f, info, err := OpenRegular(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if maxBytes > 0 && info.Size() > maxBytes {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrTooLarge, info.Size(), maxBytes)
	}

	var r io.Reader = f
	if maxBytes > 0 {
		// The file may grow after Stat.
		r = io.LimitReader(f, maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, maxBytes)
	}
	return data, nil
}
