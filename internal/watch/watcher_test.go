package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/starford/raido/internal/testutil"
)

func TestRun_DebouncedCallback(t *testing.T) {
	root := t.TempDir()

	var calls atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, root, testutil.DiscardLogger(), func() { calls.Add(1) })
	}()

	// Give the watcher time to register before writing.
	time.Sleep(200 * time.Millisecond)

	// A burst of writes should collapse into one callback.
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(filepath.Join(root, "SRS001.yml"), []byte("text: x\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	deadline := time.After(3 * time.Second)
	for calls.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("callback never fired")
		case <-time.After(50 * time.Millisecond):
		}
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestRun_IgnoresTempFiles(t *testing.T) {
	root := t.TempDir()

	var calls atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, root, testutil.DiscardLogger(), func() { calls.Add(1) })
	}()

	time.Sleep(200 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(root, ".raido-tmp-123"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	time.Sleep(2 * debounce)
	if n := calls.Load(); n != 0 {
		t.Errorf("callback fired %d times for irrelevant files", n)
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}
}
