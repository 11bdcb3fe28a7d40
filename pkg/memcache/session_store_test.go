package mem

import (
	"testing"
	"time"
)

func TestSessionsConsumeIsSingleUse(t *testing.T) {
	s := NewSessions[string]()
	s.Set("k", "v", time.Minute)

	if v, ok := s.Peek("k"); !ok || v != "v" {
		t.Fatalf("Peek: want=v got=%q ok=%v", v, ok)
	}
	if v, ok := s.Consume("k"); !ok || v != "v" {
		t.Fatalf("Consume: want=v got=%q ok=%v", v, ok)
	}
	if _, ok := s.Consume("k"); ok {
		t.Fatalf("second Consume: want miss")
	}
}

func TestSessionsExpiry(t *testing.T) {
	now := time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC)
	s := NewSessions[int]()
	s.now = func() time.Time { return now }

	s.Set("a", 1, time.Minute)
	now = now.Add(2 * time.Minute)

	if _, ok := s.Peek("a"); ok {
		t.Fatalf("Peek after expiry: want miss")
	}
	if _, ok := s.Consume("a"); ok {
		t.Fatalf("Consume after expiry: want miss")
	}

	s.Set("b", 2, time.Minute)
	s.Set("c", 3, -time.Second)
	if _, ok := s.Peek("c"); ok {
		t.Fatalf("negative ttl: want miss")
	}
	// The next write sweeps c.
	s.Set("d", 4, time.Minute)
	if s.Len() != 2 {
		t.Fatalf("Len: want=2 got=%d", s.Len())
	}
}
