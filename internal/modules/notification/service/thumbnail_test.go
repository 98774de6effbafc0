package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"
)

func noSleep(context.Context, time.Duration) bool { return true }

func thumbnailServer(t *testing.T, sizes ...int) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("method = %s, want HEAD", r.Method)
		}
		idx := int(calls.Add(1)) - 1
		if idx >= len(sizes) {
			idx = len(sizes) - 1
		}
		w.Header().Set("Content-Length", strconv.Itoa(sizes[idx]))
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

func TestThumbnailChecker_Ready(t *testing.T) {
	checker := NewThumbnailChecker(1, time.Millisecond)

	big, _ := thumbnailServer(t, 15000)
	if !checker.Ready(context.Background(), big.URL) {
		t.Fatalf("Ready() = false for a full-size image")
	}

	placeholder, _ := thumbnailServer(t, 1097)
	if checker.Ready(context.Background(), placeholder.URL) {
		t.Fatalf("Ready() = true for a placeholder")
	}

	if !checker.Ready(context.Background(), "") {
		t.Fatalf("Ready() = false for an empty url")
	}
}

func TestThumbnailChecker_WaitReadyRetries(t *testing.T) {
	server, calls := thumbnailServer(t, 1097, 1097, 20000)
	checker := NewThumbnailChecker(6, time.Hour)
	checker.sleep = noSleep

	if !checker.WaitReady(context.Background(), server.URL) {
		t.Fatalf("WaitReady() = false, want true on third attempt")
	}
	if got := calls.Load(); got != 3 {
		t.Fatalf("HEAD calls = %d, want 3", got)
	}
}

func TestThumbnailChecker_WaitReadyGivesUp(t *testing.T) {
	server, calls := thumbnailServer(t, 1097)
	checker := NewThumbnailChecker(6, time.Hour)
	sleeps := 0
	checker.sleep = func(context.Context, time.Duration) bool {
		sleeps++
		return true
	}

	if checker.WaitReady(context.Background(), server.URL) {
		t.Fatalf("WaitReady() = true for a permanent placeholder")
	}
	if got := calls.Load(); got != 6 {
		t.Fatalf("HEAD calls = %d, want 6", got)
	}
	if sleeps != 5 {
		t.Fatalf("sleeps = %d, want 5", sleeps)
	}
}
