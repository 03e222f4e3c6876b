package middleware

import (
	"testing"
	"time"
)

func TestRateLimiter_WindowSlides(t *testing.T) {
	rl := newRateLimiter(1)
	now := time.Now()

	if !rl.allow("a", now) {
		t.Fatal("first request should pass")
	}
	if rl.allow("a", now.Add(time.Second)) {
		t.Fatal("second request in the window should be rejected")
	}
	if !rl.allow("b", now.Add(time.Second)) {
		t.Fatal("keys are limited independently")
	}
	if !rl.allow("a", now.Add(61*time.Second)) {
		t.Fatal("request after the window should pass")
	}
}

func TestRateLimiter_PrunesIdleKeys(t *testing.T) {
	rl := newRateLimiter(5)
	now := time.Now()
	rl.allow("idle", now)

	rl.allow("active", now.Add(pruneInterval+time.Second))

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if _, ok := rl.requests["idle"]; ok {
		t.Error("expected idle key to be pruned")
	}
}
