// Package testutil provides test helpers and fixtures for dedup tests.
// All file operations use t.TempDir() for safe, isolated testing.
package testutil

import (
	"crypto/sha256"
	"encoding/hex"
	"io/fs"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// Fixture holds a temporary directory tree for duplicate-detection tests
type Fixture struct {
	T    *testing.T
	Root string
}

// NewFixture creates a fixture rooted in a fresh temp directory
func NewFixture(t *testing.T) *Fixture {
	t.Helper()
	return &Fixture{T: t, Root: t.TempDir()}
}

// Path returns the absolute path for a fixture-relative path
func (f *Fixture) Path(rel string) string {
	return filepath.Join(f.Root, rel)
}

// WriteFile creates a file with the given content, creating parent
// directories as needed, and returns its absolute path
func (f *Fixture) WriteFile(rel string, content []byte) string {
	f.T.Helper()

	full := f.Path(rel)
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		f.T.Fatalf("failed to create directory for %s: %v", rel, err)
	}
	if err := os.WriteFile(full, content, 0644); err != nil {
		f.T.Fatalf("failed to write %s: %v", rel, err)
	}
	return full
}

// WriteRandom creates a file of the given size filled with deterministic
// pseudo-random bytes derived from seed
func (f *Fixture) WriteRandom(rel string, size int, seed int64) string {
	f.T.Helper()

	content := make([]byte, size)
	rand.New(rand.NewSource(seed)).Read(content)
	return f.WriteFile(rel, content)
}

// Mkdir creates a directory (and parents) under the fixture root
func (f *Fixture) Mkdir(rel string) string {
	f.T.Helper()

	full := f.Path(rel)
	if err := os.MkdirAll(full, 0755); err != nil {
		f.T.Fatalf("failed to create directory %s: %v", rel, err)
	}
	return full
}

// Symlink creates a symbolic link at rel pointing to target
func (f *Fixture) Symlink(target, rel string) string {
	f.T.Helper()

	full := f.Path(rel)
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		f.T.Fatalf("failed to create directory for %s: %v", rel, err)
	}
	if err := os.Symlink(target, full); err != nil {
		f.T.Skipf("symlinks not supported on this platform: %v", err)
	}
	return full
}

// Exists reports whether a fixture-relative path exists
func (f *Fixture) Exists(rel string) bool {
	_, err := os.Lstat(f.Path(rel))
	return err == nil
}

// Snapshot returns a map of every regular file under the fixture root to
// the SHA-256 of its content. Two snapshots are equal iff the tree's file
// set and contents are byte-for-byte unchanged.
func (f *Fixture) Snapshot() map[string]string {
	f.T.Helper()

	snap := make(map[string]string)
	err := filepath.WalkDir(f.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.Type().IsRegular() {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		sum := sha256.Sum256(data)
		snap[path] = hex.EncodeToString(sum[:])
		return nil
	})
	if err != nil {
		f.T.Fatalf("failed to snapshot fixture: %v", err)
	}
	return snap
}

// SortedKeys returns the sorted keys of a snapshot, for readable diffs
func SortedKeys(snap map[string]string) []string {
	keys := make([]string, 0, len(snap))
	for k := range snap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// RequireNotRoot skips tests that rely on permission-denied behavior,
// which root bypasses
func RequireNotRoot(t *testing.T) {
	t.Helper()
	if os.Geteuid() == 0 {
		t.Skip("running as root; permission checks are bypassed")
	}
}
