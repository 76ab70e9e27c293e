package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit || data != nil {
		t.Error("NullCache must never store data")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if err := c.Set(ctx, "figure:abc", []byte("payload"), time.Hour); err != nil {
		t.Fatal(err)
	}
	data, hit, err := c.Get(ctx, "figure:abc")
	if err != nil {
		t.Fatal(err)
	}
	if !hit || string(data) != "payload" {
		t.Errorf("Get = (%q, %v), want (payload, true)", data, hit)
	}

	if err := c.Delete(ctx, "figure:abc"); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "figure:abc"); hit {
		t.Error("deleted key should miss")
	}

	// Deleting an absent key is fine.
	if err := c.Delete(ctx, "never-set"); err != nil {
		t.Errorf("deleting absent key: %v", err)
	}
}

func TestFileCacheExpiration(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if err := c.Set(ctx, "short", []byte("x"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(10 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("expired entry should miss")
	}

	// Zero TTL means no expiration.
	if err := c.Set(ctx, "forever", []byte("y"), 0); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("zero-TTL entry should still be present")
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash must be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("different inputs should hash differently")
	}
	if len(h1) != 64 {
		t.Errorf("hash length = %d, want 64", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	d1 := k.DatasetKey(DatasetKeyOpts{Source: "synthetic", Count: 100})
	d2 := k.DatasetKey(DatasetKeyOpts{Source: "synthetic", Count: 200})
	if d1 == d2 {
		t.Error("different counts must produce different dataset keys")
	}

	p1 := k.PointSetKey("hash", PointSetKeyOpts{Engine: "spiral"})
	p2 := k.PointSetKey("hash", PointSetKeyOpts{Engine: "tunnel"})
	if p1 == p2 {
		t.Error("different engines must produce different point set keys")
	}

	a1 := k.ArtifactKey("hash", ArtifactKeyOpts{Format: "json"})
	a2 := k.ArtifactKey("hash", ArtifactKeyOpts{Format: "html"})
	if a1 == a2 {
		t.Error("different formats must produce different artifact keys")
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should stay nil")
	}
	err := Retryable(ErrNetwork)
	if !IsRetryable(err) {
		t.Error("wrapped error should be retryable")
	}
	if !errors.Is(err, ErrNetwork) {
		t.Error("wrapping must preserve the sentinel")
	}
	if IsRetryable(ErrNotFound) {
		t.Error("unwrapped error should not be retryable")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return nil
	})
	if err != nil || calls != 1 {
		t.Errorf("success should not retry: err=%v calls=%d", err, calls)
	}

	calls = 0
	permanent := errors.New("permanent")
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return permanent
	})
	if !errors.Is(err, permanent) || calls != 1 {
		t.Errorf("non-retryable error should fail fast: err=%v calls=%d", err, calls)
	}
}
