package testutil

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/Kush-Singh-26/folio/builder/store"
)

// CreateTestStore opens an admin store in a temp directory.
// Returns the store manager and a cleanup function
func CreateTestStore(t *testing.T) (*store.Manager, func()) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "admin.db")
	m, err := store.Open(path, time.Second, 1024)
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	return m, func() {
		_ = m.Close()
	}
}

// CreateTestStoreWithPosts opens a store and writes posts into it
func CreateTestStoreWithPosts(t *testing.T, posts ...*store.AdminPost) (*store.Manager, func()) {
	t.Helper()
	m, cleanup := CreateTestStore(t)
	for _, p := range posts {
		if err := m.PutPost(p); err != nil {
			cleanup()
			t.Fatalf("Failed to put post %s: %v", p.ID, err)
		}
	}
	return m, cleanup
}

// CreateTestFilesystemWithContent creates an in-memory filesystem with initial content
func CreateTestFilesystemWithContent(files map[string]string) afero.Fs {
	fs := afero.NewMemMapFs()
	for path, content := range files {
		dir := filepath.Dir(path)
		if err := fs.MkdirAll(dir, 0755); err != nil {
			panic(err)
		}
		if err := afero.WriteFile(fs, path, []byte(content), 0644); err != nil {
			panic(err)
		}
	}
	return fs
}

// DiscardLogger returns a logger that drops everything
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// AssertFileExists checks if a file exists in the filesystem
func AssertFileExists(t *testing.T, fs afero.Fs, path string) {
	t.Helper()
	exists, err := afero.Exists(fs, path)
	if err != nil {
		t.Fatalf("Error checking file existence: %v", err)
	}
	if !exists {
		t.Errorf("Expected file to exist: %s", path)
	}
}

// AssertFileNotExists checks if a file does not exist
func AssertFileNotExists(t *testing.T, fs afero.Fs, path string) {
	t.Helper()
	exists, err := afero.Exists(fs, path)
	if err != nil {
		t.Fatalf("Error checking file existence: %v", err)
	}
	if exists {
		t.Errorf("Expected file to not exist: %s", path)
	}
}
