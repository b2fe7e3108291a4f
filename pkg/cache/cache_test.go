package cache

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// exerciseCache runs the behaviour every backend must share.
func exerciseCache(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()

	if _, hit, err := c.Get(ctx, "missing"); err != nil || hit {
		t.Fatalf("Get(missing) = hit %v, err %v", hit, err)
	}

	if err := c.Set(ctx, "key", []byte("<svg/>"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || !hit {
		t.Fatalf("Get(key) = hit %v, err %v", hit, err)
	}
	if string(data) != "<svg/>" {
		t.Errorf("Get(key) = %q, want %q", data, "<svg/>")
	}

	if err := c.Set(ctx, "key", []byte("v2"), 0); err != nil {
		t.Fatalf("Set overwrite error: %v", err)
	}
	if data, _, _ := c.Get(ctx, "key"); string(data) != "v2" {
		t.Errorf("overwrite not visible: %q", data)
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("Get after Delete should miss")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete of missing key should not fail: %v", err)
	}
}

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()
	exerciseCache(t, c)
}

func TestFileCache_Expired(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "key", []byte("x"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(time.Millisecond)
	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("expired entry should miss")
	}
	if _, err := os.Stat(c.path("key")); !os.IsNotExist(err) {
		t.Error("expired entry file should be removed")
	}
}

func TestFileCache_CorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	path := c.path("key")
	_ = os.MkdirAll(filepath.Dir(path), 0755)
	_ = os.WriteFile(path, []byte("{not json"), 0644)

	if _, hit, err := c.Get(ctx, "key"); hit || err != nil {
		t.Errorf("corrupt entry = hit %v, err %v; want clean miss", hit, err)
	}
}

func TestFileCache_Usage(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if n, size, err := c.Usage(); err != nil || n != 0 || size != 0 {
		t.Errorf("empty Usage() = %d, %d, %v", n, size, err)
	}
	_ = c.Set(ctx, "svg", []byte("<svg/>"), time.Hour)
	_ = c.Set(ctx, "png", []byte("PNG"), 0)

	n, size, err := c.Usage()
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 || size == 0 {
		t.Errorf("Usage() = %d entries, %d bytes; want 2 entries", n, size)
	}
}

func TestFileCache_Clear(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, _ := NewFileCache(dir)

	for _, k := range []string{"a", "b", "c"} {
		_ = c.Set(ctx, k, []byte(k), 0)
	}

	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear() = %d, want 3", n)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("Clear() left %d entries in %s", len(entries), dir)
	}
	if c.Dir() != dir {
		t.Errorf("Dir() = %q, want %q", c.Dir(), dir)
	}
}

func TestHash(t *testing.T) {
	a, b := Hash([]byte("digraph G {}")), Hash([]byte("digraph H {}"))
	if a != Hash([]byte("digraph G {}")) || a == b {
		t.Error("Hash should be deterministic and input dependent")
	}
	if len(a) != 64 {
		t.Errorf("len(Hash) = %d, want 64 hex chars", len(a))
	}
}

func TestDocumentHash(t *testing.T) {
	if DocumentHash("digraph G {}", "a{}") != DocumentHash("digraph G {}", "a{}") {
		t.Error("DocumentHash should be deterministic")
	}
	// The boundary between the two texts must matter
	if DocumentHash("ab", "c") == DocumentHash("a", "bc") {
		t.Error("DocumentHash should not depend on concatenation only")
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	ak1 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "svg", Layout: "dot"})
	ak2 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "png", Layout: "dot"})
	ak3 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "svg", Layout: "neato"})
	ak4 := k.ArtifactKey("hash456", ArtifactKeyOpts{Format: "svg", Layout: "dot"})

	seen := map[string]bool{}
	for _, key := range []string{ak1, ak2, ak3, ak4} {
		if seen[key] {
			t.Errorf("duplicate artifact key %s", key)
		}
		seen[key] = true
		if !strings.HasPrefix(key, "artifact:") {
			t.Errorf("ArtifactKey should be prefixed: %s", key)
		}
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "server:")

	opts := ArtifactKeyOpts{Format: "svg"}
	key := scoped.ArtifactKey("hash123", opts)
	if key != "server:"+inner.ArtifactKey("hash123", opts) {
		t.Errorf("ScopedKeyer ArtifactKey unexpected: %s", key)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.ArtifactKey("h", ArtifactKeyOpts{})
	if !strings.HasPrefix(key, "prefix:artifact:") {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}
