// Package logfinder locates the IL-2 dedicated server event log.
package logfinder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// EnvLogFile is the environment variable naming the event log file or the
// directory that holds it.
const EnvLogFile = "IL2LOG_FILE"

// DefaultFileName is the event log name the server writes by default.
const DefaultFileName = "eventlog.lst"

// ErrLogNotFound is returned when no event log can be located.
var ErrLogNotFound = errors.New("event log not found")

// Find returns the path of the event log.
//
// Priority:
//  1. explicit (if non-empty)
//  2. IL2LOG_FILE environment variable
//  3. eventlog.lst in the working directory
//
// A directory resolves to its most recently modified *.lst file. The
// returned path has symlinks resolved.
func Find(explicit string) (string, error) {
	if explicit != "" {
		p, err := resolve(explicit)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrLogNotFound, err)
		}
		return p, nil
	}

	if env := os.Getenv(EnvLogFile); env != "" {
		p, err := resolve(env)
		if err != nil {
			return "", fmt.Errorf("%w: %s: %v", ErrLogNotFound, EnvLogFile, err)
		}
		return p, nil
	}

	p, err := resolve(DefaultFileName)
	if err != nil {
		return "", ErrLogNotFound
	}
	return p, nil
}

func resolve(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return LatestInDir(resolved)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%s is not a regular file", path)
	}
	return resolved, nil
}

// logCandidate caches a stat result so files removed mid-scan don't
// disturb the sort.
type logCandidate struct {
	path    string
	modTime int64
}

// LatestInDir returns the most recently modified regular *.lst file in dir.
func LatestInDir(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.lst"))
	if err != nil {
		return "", fmt.Errorf("globbing log files: %w", err)
	}

	candidates := make([]logCandidate, 0, len(matches))
	for _, m := range matches {
		info, err := os.Lstat(m)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		candidates = append(candidates, logCandidate{path: m, modTime: info.ModTime().UnixNano()})
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("%w: no *.lst files in %s", ErrLogNotFound, dir)
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].modTime > candidates[j].modTime
	})
	return candidates[0].path, nil
}
