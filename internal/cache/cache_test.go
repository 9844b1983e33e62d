package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ppiankov/mucprep/internal/model"
)

func TestKey(t *testing.T) {
	a := Key("punkt", "ab", "c")
	b := Key("punkt", "a", "bc")
	if a == b {
		t.Error("length-prefixed parts must not collide")
	}
	if a != Key("punkt", "ab", "c") {
		t.Error("Key must be deterministic")
	}
	if len(a) != len("mucprep:v1:")+64 {
		t.Errorf("unexpected key %q", a)
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if err := c.Set("k", []byte("v"), 0); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if got, ok := c.Get("k"); !ok || string(got) != "v" {
		t.Errorf("Get() = %q, %v", got, ok)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}

	_ = c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Error("expected miss after Delete")
	}
}

func TestDiskCache(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)
	key := Key("segment", "text")

	if _, ok := c.Get(key); ok {
		t.Fatal("expected miss on empty cache")
	}
	if err := c.Set(key, []byte(`["a"]`), 0); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if got, ok := c.Get(key); !ok || string(got) != `["a"]` {
		t.Errorf("Get() = %q, %v", got, ok)
	}

	matches, _ := filepath.Glob(filepath.Join(dir, "*", "*.cache"))
	if len(matches) != 1 {
		t.Errorf("expected one sharded entry, got %v", matches)
	}

	if err := c.Delete(key); err != nil {
		t.Errorf("Delete() error: %v", err)
	}
	if err := c.Delete(key); err != nil {
		t.Errorf("Delete() of missing key should be a no-op, got %v", err)
	}
}

func TestDiskCacheExpiry(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Hour)
	key := Key("expired")

	if err := c.Set(key, []byte("v"), -time.Minute); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if _, ok := c.Get(key); ok {
		t.Error("expected expired entry to miss")
	}
	if _, err := os.Stat(c.path(key)); !os.IsNotExist(err) {
		t.Error("expired entry should be removed")
	}
}

func TestLayeredCachePromotes(t *testing.T) {
	dir := t.TempDir()
	key := Key("promote")

	disk := NewDiskCache(dir, time.Hour)
	if err := disk.Set(key, []byte("v"), 0); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	c := NewLayeredCache(time.Minute, dir, time.Hour)
	if got, ok := c.Get(key); !ok || string(got) != "v" {
		t.Fatalf("Get() = %q, %v", got, ok)
	}
	if _, ok := c.memory.Get(key); !ok {
		t.Error("disk hit should be promoted to memory")
	}

	c.Get(Key("absent"))
	if hits, misses := c.Stats(); hits != 1 || misses != 1 {
		t.Errorf("Stats() = (%d, %d), want (1, 1)", hits, misses)
	}
}

func TestNew(t *testing.T) {
	if _, ok := New(model.CacheConfig{Enabled: false}).(NopCache); !ok {
		t.Error("disabled cache should be a NopCache")
	}
	if _, ok := New(model.CacheConfig{Enabled: true}).(*MemoryCache); !ok {
		t.Error("cache without dir should be memory only")
	}
	if _, ok := New(model.CacheConfig{Enabled: true, Dir: t.TempDir()}).(*LayeredCache); !ok {
		t.Error("cache with dir should be layered")
	}
}
