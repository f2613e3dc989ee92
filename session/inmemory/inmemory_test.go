package inmemory

import (
	"fmt"
	"testing"
	"time"
)

func TestEnsureSessionReuse(t *testing.T) {
	t.Parallel()
	store := NewInMemorySessionStore(10)

	first, err := store.EnsureSession("user1", time.Minute)
	if err != nil {
		t.Fatalf("EnsureSession() error = %v", err)
	}
	again, err := store.EnsureSession("user1", time.Minute)
	if err != nil {
		t.Fatalf("EnsureSession() error = %v", err)
	}
	if first != again {
		t.Fatalf("expected the same session for the same id")
	}
}

func TestEnsureSessionGeneratesID(t *testing.T) {
	t.Parallel()
	store := NewInMemorySessionStore(10)
	sess, err := store.EnsureSession("", time.Minute)
	if err != nil {
		t.Fatalf("EnsureSession() error = %v", err)
	}
	if sess.ID() == "" {
		t.Fatalf("expected generated session id")
	}
}

func TestGetSessionExpiry(t *testing.T) {
	t.Parallel()
	store := NewInMemorySessionStore(10)
	if _, err := store.EnsureSession("short", 10*time.Millisecond); err != nil {
		t.Fatalf("EnsureSession() error = %v", err)
	}

	time.Sleep(30 * time.Millisecond)

	sess, err := store.GetSession("short")
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if sess != nil {
		t.Fatalf("expected expired session to be gone")
	}
	if store.Len() != 0 {
		t.Fatalf("expired session still counted: %d", store.Len())
	}
}

func TestEnsureSessionRefreshesTTL(t *testing.T) {
	t.Parallel()
	store := NewInMemorySessionStore(10)
	sess, err := store.EnsureSession("u", 50*time.Millisecond)
	if err != nil {
		t.Fatalf("EnsureSession() error = %v", err)
	}
	before := sess.ExpiresAt()

	if _, err := store.EnsureSession("u", time.Hour); err != nil {
		t.Fatalf("EnsureSession() error = %v", err)
	}
	if !sess.ExpiresAt().After(before) {
		t.Fatalf("expected TTL refresh on reuse")
	}
}

func TestCapacityEviction(t *testing.T) {
	t.Parallel()
	store := NewInMemorySessionStore(3)

	// "victim" expires soonest.
	if _, err := store.EnsureSession("victim", time.Minute); err != nil {
		t.Fatalf("EnsureSession() error = %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := store.EnsureSession(fmt.Sprintf("user%d", i), time.Hour); err != nil {
			t.Fatalf("EnsureSession() error = %v", err)
		}
	}

	if _, err := store.EnsureSession("overflow", time.Hour); err != nil {
		t.Fatalf("EnsureSession() error = %v", err)
	}

	if store.Len() != 3 {
		t.Fatalf("len = %d, want 3", store.Len())
	}
	gone, err := store.GetSession("victim")
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if gone != nil {
		t.Fatalf("soonest-expiring session should have been evicted")
	}
}

func TestDeleteSession(t *testing.T) {
	t.Parallel()
	store := NewInMemorySessionStore(10)
	if _, err := store.EnsureSession("gone", time.Minute); err != nil {
		t.Fatalf("EnsureSession() error = %v", err)
	}
	if err := store.DeleteSession("gone"); err != nil {
		t.Fatalf("DeleteSession() error = %v", err)
	}
	sess, err := store.GetSession("gone")
	if err != nil || sess != nil {
		t.Fatalf("expected deleted session to be gone, got %v, %v", sess, err)
	}
}
