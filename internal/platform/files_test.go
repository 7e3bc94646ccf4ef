package platform

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("data"), 0644); err != nil {
		t.Fatalf("Failed to create file %s: %v", path, err)
	}
}

func TestCreateDirectoryIfNotExists(t *testing.T) {
	// Create temporary directory for testing
	tempDir := t.TempDir()
	testDir := filepath.Join(tempDir, "static", "downloads")

	// Directory should not exist initially
	if _, err := os.Stat(testDir); !os.IsNotExist(err) {
		t.Fatalf("Test directory already exists: %s", testDir)
	}

	// Create directory
	err := CreateDirectoryIfNotExists(testDir)
	if err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}

	// Directory should now exist
	if _, err := os.Stat(testDir); os.IsNotExist(err) {
		t.Fatalf("Directory was not created: %s", testDir)
	}

	// Second call should not fail
	err = CreateDirectoryIfNotExists(testDir)
	if err != nil {
		t.Fatalf("Failed to handle existing directory: %v", err)
	}
}

func TestFindFileByPrefix(t *testing.T) {
	tempDir := t.TempDir()
	touch(t, filepath.Join(tempDir, "other.mp4"))
	touch(t, filepath.Join(tempDir, "token-1.mp4.part"))
	touch(t, filepath.Join(tempDir, "token-1.webm"))
	touch(t, filepath.Join(tempDir, "token-2.mp4"))
	if err := os.Mkdir(filepath.Join(tempDir, "token-1.dir"), 0755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}

	tests := []struct {
		name     string
		prefix   string
		expected string
		notFound bool
	}{
		{"should find matching file", "token-1", filepath.Join(tempDir, "token-1.webm"), false},
		{"should find second token", "token-2", filepath.Join(tempDir, "token-2.mp4"), false},
		{"should report missing prefix", "token-3", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := FindFileByPrefix(tempDir, tt.prefix)
			if tt.notFound {
				if !errors.Is(err, ErrNotFound) {
					t.Fatalf("Expected ErrNotFound, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if path != tt.expected {
				t.Errorf("Expected path %s, got %s", tt.expected, path)
			}
		})
	}
}

func TestFindFileByPrefix_EmptyPrefix(t *testing.T) {
	if _, err := FindFileByPrefix(t.TempDir(), ""); err == nil {
		t.Error("Expected error for empty prefix, got nil")
	}
}

func TestFindFileByPrefix_MissingDir(t *testing.T) {
	_, err := FindFileByPrefix(filepath.Join(t.TempDir(), "missing"), "x")
	if err == nil {
		t.Fatal("Expected error for missing directory, got nil")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("Missing directory should not be reported as ErrNotFound")
	}
}

func TestResolveOutputFile(t *testing.T) {
	tempDir := t.TempDir()
	outside := t.TempDir()

	good := filepath.Join(tempDir, "tok.mp4")
	partial := filepath.Join(tempDir, "tok.mp4.part")
	foreign := filepath.Join(outside, "tok.mp4")
	otherToken := filepath.Join(tempDir, "zzz.mp4")
	touch(t, good)
	touch(t, partial)
	touch(t, foreign)
	touch(t, otherToken)

	tests := []struct {
		name     string
		reported string
		ok       bool
	}{
		{"accepts file inside dir", good, true},
		{"rejects empty path", "", false},
		{"rejects partial file", partial, false},
		{"rejects file outside dir", foreign, false},
		{"rejects other token", otherToken, false},
		{"rejects missing file", filepath.Join(tempDir, "tok.mkv"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, ok := ResolveOutputFile(tempDir, "tok", tt.reported)
			if ok != tt.ok {
				t.Fatalf("ResolveOutputFile(%q) ok = %v, expected %v", tt.reported, ok, tt.ok)
			}
			if ok && path != tt.reported {
				t.Errorf("Expected path %s, got %s", tt.reported, path)
			}
		})
	}
}

func TestIsWithinDir(t *testing.T) {
	tests := []struct {
		dir, path string
		expected  bool
	}{
		{"/data/downloads", "/data/downloads/a.mp4", true},
		{"/data/downloads", "/data/downloads/sub/a.mp4", true},
		{"/data/downloads", "/data/downloads", false},
		{"/data/downloads", "/data/a.mp4", false},
		{"/data/downloads", "/data/downloads/../a.mp4", false},
		{"/data/downloads", "/data/downloads..x/a.mp4", false},
		{"/data/downloads", "/data/downloads/..a.mp4", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := IsWithinDir(tt.dir, tt.path); got != tt.expected {
				t.Errorf("IsWithinDir(%q, %q) = %v, expected %v", tt.dir, tt.path, got, tt.expected)
			}
		})
	}
}

func TestIsPartialFile(t *testing.T) {
	tests := []struct {
		filename string
		expected bool
	}{
		{"a.mp4", false},
		{"a.mp4.part", true},
		{"a.ytdl", true},
		{"a.mp4.tmp", true},
		{"a.partial.mp4", false},
	}

	for _, tt := range tests {
		if got := isPartialFile(tt.filename); got != tt.expected {
			t.Errorf("isPartialFile(%q) = %v, expected %v", tt.filename, got, tt.expected)
		}
	}
}

func TestFileSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.bin")
	touch(t, path)

	if got := FileSize(path); got != 4 {
		t.Errorf("Expected size 4, got %d", got)
	}
	if got := FileSize(path + ".missing"); got != 0 {
		t.Errorf("Expected size 0 for missing file, got %d", got)
	}
}
