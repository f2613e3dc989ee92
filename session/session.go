package session

import (
	"fmt"
	"time"

	"github.com/fawad57/psyplex/config"
	"github.com/fawad57/psyplex/session/inmemory"
	redis_session "github.com/fawad57/psyplex/session/redis"
	"github.com/fawad57/psyplex/session/session_models"
)

// Store interface for chat session management
type Store interface {
	EnsureSession(id string, ttl time.Duration) (Session, error)
	GetSession(id string) (Session, error)
	DeleteSession(id string) error
}

// Session interface for per-user chat state: the conversation history plus
// the retrieval index built over the user's data.
type Session interface {
	ID() string
	Expire(ttl time.Duration)
	AppendExchange(user, reply string) error
	History() ([]session_models.Exchange, error)
	ResetHistory() error
	AddChunk(chunk session_models.DocChunk) error
	SetVector(docID string, v []float32)
	HasVectors() bool
	ClearData() error
	Bm25Search(q string, k int) ([]session_models.SearchHit, error)
	VectorSearch(q []float32, k int) []session_models.SearchHit
	FuseRRF(a, b []session_models.SearchHit, k int) []session_models.SearchHit
}

type StoreType string

const (
	InMemoryStore StoreType = "inmemory"
	RedisStore    StoreType = "redis"
)

func NewStore(cfg config.SessionConfig) Store {
	switch StoreType(cfg.Store) {
	case InMemoryStore, "":
		return inmemoryStore{store: inmemory.NewInMemorySessionStore(cfg.Capacity)}
	case RedisStore:
		return redisStore{store: redis_session.NewRedisSessionStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)}
	default:
		panic(fmt.Sprintf("unsupported store type: %s", cfg.Store))
	}
}

// The concrete stores return their own session types; these wrappers lift
// them to the Session interface and keep a nil concrete pointer from
// becoming a non-nil interface.

type inmemoryStore struct {
	store *inmemory.Store
}

func (w inmemoryStore) EnsureSession(id string, ttl time.Duration) (Session, error) {
	sess, err := w.store.EnsureSession(id, ttl)
	if err != nil || sess == nil {
		return nil, err
	}
	return sess, nil
}

func (w inmemoryStore) GetSession(id string) (Session, error) {
	sess, err := w.store.GetSession(id)
	if err != nil || sess == nil {
		return nil, err
	}
	return sess, nil
}

func (w inmemoryStore) DeleteSession(id string) error { return w.store.DeleteSession(id) }

type redisStore struct {
	store *redis_session.Store
}

func (w redisStore) EnsureSession(id string, ttl time.Duration) (Session, error) {
	sess, err := w.store.EnsureSession(id, ttl)
	if err != nil || sess == nil {
		return nil, err
	}
	return sess, nil
}

func (w redisStore) GetSession(id string) (Session, error) {
	sess, err := w.store.GetSession(id)
	if err != nil || sess == nil {
		return nil, err
	}
	return sess, nil
}

func (w redisStore) DeleteSession(id string) error { return w.store.DeleteSession(id) }
