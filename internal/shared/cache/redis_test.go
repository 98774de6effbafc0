package cache

import (
	"context"
	stdErrors "errors"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func testRedis(t *testing.T) *Redis {
	t.Helper()
	rawURL := os.Getenv("STREAMFEED_TEST_REDIS_URL")
	if rawURL == "" {
		t.Skip("STREAMFEED_TEST_REDIS_URL not set")
	}
	client, err := New(rawURL)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := client.Ping(context.Background()); err != nil {
		t.Skipf("redis unreachable: %v", err)
	}
	t.Cleanup(func() { _ = client.Shutdown() })
	return client
}

func TestNew_InvalidURL(t *testing.T) {
	if _, err := New("not-a-redis-url"); err == nil {
		t.Fatalf("New() should reject an invalid url")
	}
}

func TestKey(t *testing.T) {
	if got := Key("streams"); got != "streamfeed:streams" {
		t.Fatalf("Key() = %q", got)
	}
}

func TestGetSet(t *testing.T) {
	r := testRedis(t)
	ctx := context.Background()
	key := Key("test:getset")

	type payload struct {
		Name string `json:"name"`
	}
	if err := Set(ctx, r, key, payload{Name: "alpha"}, time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := Get[payload](ctx, r, key)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Name != "alpha" {
		t.Fatalf("Get() = %+v", got)
	}

	if _, err := Get[payload](ctx, r, Key("test:missing")); !stdErrors.Is(err, redis.Nil) {
		t.Fatalf("Get(missing) error = %v, want redis.Nil", err)
	}
}

func TestTryLock(t *testing.T) {
	r := testRedis(t)
	ctx := context.Background()
	key := Key("test:lock")

	unlock, err := r.TryLock(ctx, key, time.Minute)
	if err != nil {
		t.Fatalf("TryLock() error = %v", err)
	}
	if _, err := r.TryLock(ctx, key, time.Minute); !stdErrors.Is(err, ErrLocked) {
		t.Fatalf("second TryLock() error = %v, want ErrLocked", err)
	}

	unlock()
	again, err := r.TryLock(ctx, key, time.Minute)
	if err != nil {
		t.Fatalf("TryLock() after unlock error = %v", err)
	}
	again()
}
