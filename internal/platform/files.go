package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// File extensions left behind by unfinished downloads
var (
	SkippedExtensions = []string{".part", ".ytdl", ".tmp"}
)

// ErrNotFound is returned when no file in the directory matches the prefix
var ErrNotFound = errors.New("file not found")

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}

// FindFileByPrefix scans dir and returns the path of the first regular file
// whose name starts with prefix. Partial download files are ignored.
func FindFileByPrefix(dir, prefix string) (string, error) {
	if prefix == "" {
		return "", fmt.Errorf("prefix is empty")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var candidates []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if !strings.HasPrefix(name, prefix) || isPartialFile(name) {
			continue
		}
		candidates = append(candidates, name)
	}

	if len(candidates) == 0 {
		return "", fmt.Errorf("%w: %s*", ErrNotFound, filepath.Join(dir, prefix))
	}

	// ReadDir already sorts by name; keep it explicit for callers relying on order
	sort.Strings(candidates)
	return filepath.Join(dir, candidates[0]), nil
}

// ResolveOutputFile checks a path reported by a fetcher. It is accepted only if
// it is a regular file inside dir whose name starts with prefix.
func ResolveOutputFile(dir, prefix, reported string) (string, bool) {
	if reported == "" {
		return "", false
	}

	if !IsWithinDir(dir, reported) {
		return "", false
	}

	name := filepath.Base(reported)
	if !strings.HasPrefix(name, prefix) || isPartialFile(name) {
		return "", false
	}

	info, err := os.Stat(reported)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	return reported, true
}

// IsWithinDir reports whether path is located directly or indirectly inside dir
func IsWithinDir(dir, path string) bool {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}

	rel, err := filepath.Rel(absDir, absPath)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// FileSize returns the size of the file at path, or 0 if it cannot be read
func FileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}

// isPartialFile checks if a filename belongs to an unfinished download
func isPartialFile(filename string) bool {
	for _, ext := range SkippedExtensions {
		if strings.HasSuffix(filename, ext) {
			return true
		}
	}
	return false
}
