package rate_limiter

import (
	"testing"
	"time"
)

func TestVisitors_BurstThenDeny(t *testing.T) {
	v := NewVisitors(1, 3)

	for i := 0; i < 3; i++ {
		if !v.Allow("10.0.0.1") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if v.Allow("10.0.0.1") {
		t.Error("fourth request should be denied")
	}
	if !v.Allow("10.0.0.2") {
		t.Error("other clients have their own bucket")
	}
}

func TestVisitors_SameLimiterPerClient(t *testing.T) {
	v := NewVisitors(1, 1)
	if v.Get("a") != v.Get("a") {
		t.Error("expected the same limiter for the same client")
	}
	if v.Len() != 1 {
		t.Errorf("expected 1 visitor, got %d", v.Len())
	}
}

func TestVisitors_Cleanup(t *testing.T) {
	v := NewVisitors(1, 1)
	v.Get("a")
	v.Get("b")

	if removed := v.Cleanup(time.Hour); removed != 0 {
		t.Errorf("fresh visitors must stay, removed %d", removed)
	}

	time.Sleep(5 * time.Millisecond)
	if removed := v.Cleanup(time.Millisecond); removed != 2 {
		t.Errorf("expected 2 idle visitors removed, got %d", removed)
	}
	if v.Len() != 0 {
		t.Errorf("expected no visitors left, got %d", v.Len())
	}
}
