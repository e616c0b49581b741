package internal

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/starford/fminject/internal/testutil"
)

func TestWatch_InitialPassThenWatches(t *testing.T) {
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{"existing.md": "old\n"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, testOptions(root, NewDefaultConfig(), &bytes.Buffer{})...)
	}()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) && !strings.HasPrefix(readOrEmpty(filepath.Join(root, "existing.md")), "---\n") {
		time.Sleep(20 * time.Millisecond)
	}
	if !strings.HasPrefix(readOrEmpty(filepath.Join(root, "existing.md")), "---\n") {
		t.Fatal("initial pass did not inject existing file")
	}

	time.Sleep(150 * time.Millisecond)
	fresh := filepath.Join(root, "fresh.md")
	_ = os.WriteFile(fresh, []byte("fresh\n"), 0o644)

	deadline = time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) && !strings.HasPrefix(readOrEmpty(fresh), "---\n") {
		time.Sleep(50 * time.Millisecond)
	}
	if got := readOrEmpty(fresh); !strings.HasPrefix(got, "---\n") || !strings.HasSuffix(got, "fresh\n") {
		t.Errorf("fresh.md = %q", got)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func readOrEmpty(path string) string {
	data, _ := os.ReadFile(path)
	return string(data)
}
