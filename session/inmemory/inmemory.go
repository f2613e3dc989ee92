package inmemory

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fawad57/psyplex/session/session_object"
)

// Store keeps sessions in a process-local map, bounded by both a TTL and a
// capacity: expired sessions are purged on access, and when the map is full
// the session closest to expiry is evicted.
type Store struct {
	sessions map[string]*session_object.Session
	capacity int
	mu       sync.Mutex
}

func NewInMemorySessionStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = 1000
	}
	return &Store{
		sessions: make(map[string]*session_object.Session),
		capacity: capacity,
	}
}

func (store *Store) EnsureSession(id string, ttl time.Duration) (*session_object.Session, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.purgeExpiredLocked()

	if id != "" {
		if sess, ok := store.sessions[id]; ok {
			sess.Expire(ttl)
			return sess, nil
		}
	} else {
		id = uuid.NewString()
	}

	if len(store.sessions) >= store.capacity {
		store.evictSoonestLocked()
	}

	sess, err := session_object.NewSession(id, ttl)
	if err != nil {
		return nil, err
	}
	store.sessions[id] = sess
	return sess, nil
}

func (store *Store) GetSession(id string) (*session_object.Session, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	sess, ok := store.sessions[id]
	if !ok || sess.Expired() {
		return nil, nil
	}
	return sess, nil
}

func (store *Store) DeleteSession(id string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	delete(store.sessions, id)
	return nil
}

// Len reports the live session count after purging.
func (store *Store) Len() int {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.purgeExpiredLocked()
	return len(store.sessions)
}

func (store *Store) purgeExpiredLocked() {
	for id, sess := range store.sessions {
		if sess.Expired() {
			delete(store.sessions, id)
		}
	}
}

func (store *Store) evictSoonestLocked() {
	var victim string
	var soonest time.Time
	for id, sess := range store.sessions {
		if victim == "" || sess.ExpiresAt().Before(soonest) {
			victim = id
			soonest = sess.ExpiresAt()
		}
	}
	if victim != "" {
		delete(store.sessions, victim)
	}
}
