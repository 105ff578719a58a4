package agent

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultResolverPicksNewestAfterSpawn(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "claude")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}

	spawnedAt := time.Now()
	write := func(name string, at time.Time) {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := os.Chtimes(path, at, at); err != nil {
			t.Fatal(err)
		}
	}

	write("too-old.json", spawnedAt.Add(-time.Hour))
	write("older.json", spawnedAt.Add(time.Minute))
	write("newest.json", spawnedAt.Add(2*time.Minute))

	r := &DefaultResolver{LogsRoot: func() string { return root }}
	id, ok := r.ResolveLatestSessionID("claude", "/workdir", spawnedAt, nil)
	if !ok {
		t.Fatalf("expected a resolved session id")
	}
	if id != "newest" {
		t.Fatalf("expected newest, got %s", id)
	}
}

func TestDefaultResolverHonorsExclusions(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "codex")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	spawnedAt := time.Now()
	for _, name := range []string{"a.json", "b.json"} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := os.Chtimes(path, spawnedAt.Add(time.Minute), spawnedAt.Add(time.Minute)); err != nil {
			t.Fatal(err)
		}
	}
	// b is newer by a hair.
	if err := os.Chtimes(filepath.Join(dir, "b.json"), spawnedAt.Add(2*time.Minute), spawnedAt.Add(2*time.Minute)); err != nil {
		t.Fatal(err)
	}

	r := &DefaultResolver{LogsRoot: func() string { return root }}
	id, ok := r.ResolveLatestSessionID("codex", "", spawnedAt, map[string]bool{"b": true})
	if !ok {
		t.Fatalf("expected a.json to be picked once b is excluded")
	}
	if id != "a" {
		t.Fatalf("expected a, got %s", id)
	}
}

func TestDefaultResolverMissingLogsRootMisses(t *testing.T) {
	r := &DefaultResolver{LogsRoot: func() string { return "" }}
	if _, ok := r.ResolveLatestSessionID("claude", "", time.Now(), nil); ok {
		t.Fatalf("expected a miss when BRAID_AGENT_LOGS is unset")
	}
}
