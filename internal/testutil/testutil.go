// Package testutil provides shared test helpers for building temporary
// document trees.
package testutil

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/raido/internal/storage"
)

// TestProject creates a temporary project directory with a storage.FS
// rooted at it.
func TestProject(t *testing.T) (string, *storage.FS) {
	t.Helper()
	root := t.TempDir()
	store, err := storage.NewFS(root)
	if err != nil {
		t.Fatal(err)
	}
	return root, store
}

// DiscardLogger returns a logger that swallows all output.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.Level(99)}))
}

// WriteFile writes a file under root, creating parent directories.
func WriteFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// WriteDocConfig writes a document configuration file into dir.
func WriteDocConfig(t *testing.T, root, dir, prefix string, parents ...string) {
	t.Helper()
	content := "settings:\n  prefix: " + prefix + "\n  digits: 3\n  sep: \"\"\n"
	if len(parents) > 0 {
		content += "  parents:\n"
		for _, p := range parents {
			content += "    - " + p + "\n"
		}
	}
	WriteFile(t, root, filepath.Join(dir, ".raido.yml"), content)
}

// WriteItem writes a minimal item file into dir.
func WriteItem(t *testing.T, root, dir, uid, body string) {
	t.Helper()
	WriteFile(t, root, filepath.Join(dir, uid+".yml"), body)
}
