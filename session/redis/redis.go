package redis_session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/fawad57/psyplex/session/session_models"
	"github.com/fawad57/psyplex/session/session_object"
)

// Store persists chat history in redis so it survives restarts. The
// retrieval index (bleve + vectors) stays process-local and is rebuilt from
// fresh user data on every chat message anyway.
type Store struct {
	client  *redis.Client
	objects map[string]*session_object.Session
	mu      sync.Mutex
}

func NewRedisSessionStore(addr, password string, db int) *Store {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &Store{client: rdb, objects: make(map[string]*session_object.Session)}
}

func metaKey(id string) string    { return fmt.Sprintf("session:%s:meta", id) }
func historyKey(id string) string { return fmt.Sprintf("session:%s:history", id) }

func (store *Store) EnsureSession(id string, ttl time.Duration) (*Session, error) {
	ctx := context.Background()
	if id != "" {
		exists, err := store.client.Exists(ctx, metaKey(id)).Result()
		if err == nil && exists == 1 {
			_ = store.client.Expire(ctx, metaKey(id), ttl).Err()
			_ = store.client.Expire(ctx, historyKey(id), ttl).Err()
			obj, err := store.object(id, ttl)
			if err != nil {
				return nil, err
			}
			return &Session{client: store.client, id: id, ttl: ttl, obj: obj}, nil
		}
	}
	if id == "" {
		id = uuid.NewString()
	}
	if err := store.client.Set(ctx, metaKey(id), time.Now().Format(time.RFC3339), ttl).Err(); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	obj, err := store.object(id, ttl)
	if err != nil {
		return nil, err
	}
	return &Session{client: store.client, id: id, ttl: ttl, obj: obj}, nil
}

func (store *Store) GetSession(id string) (*Session, error) {
	ctx := context.Background()
	exists, err := store.client.Exists(ctx, metaKey(id)).Result()
	if err != nil {
		return nil, err
	}
	if exists != 1 {
		return nil, nil
	}
	store.mu.Lock()
	obj := store.objects[id]
	store.mu.Unlock()
	if obj == nil {
		return nil, nil
	}
	return &Session{client: store.client, id: id, obj: obj}, nil
}

func (store *Store) DeleteSession(id string) error {
	ctx := context.Background()
	store.mu.Lock()
	delete(store.objects, id)
	store.mu.Unlock()
	return store.client.Del(ctx, metaKey(id), historyKey(id)).Err()
}

func (store *Store) object(id string, ttl time.Duration) (*session_object.Session, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if obj, ok := store.objects[id]; ok {
		obj.Expire(ttl)
		return obj, nil
	}
	obj, err := session_object.NewSession(id, ttl)
	if err != nil {
		return nil, err
	}
	store.objects[id] = obj
	return obj, nil
}

// Session proxies history to redis and retrieval to the in-process object.
type Session struct {
	client *redis.Client
	id     string
	ttl    time.Duration
	obj    *session_object.Session
}

func (s *Session) ID() string { return s.id }

func (s *Session) Expire(ttl time.Duration) {
	ctx := context.Background()
	s.ttl = ttl
	_ = s.client.Expire(ctx, metaKey(s.id), ttl).Err()
	_ = s.client.Expire(ctx, historyKey(s.id), ttl).Err()
	s.obj.Expire(ttl)
}

func (s *Session) AppendExchange(user, reply string) error {
	ctx := context.Background()
	data, err := json.Marshal(session_models.Exchange{User: user, Reply: reply})
	if err != nil {
		return err
	}
	if err := s.client.RPush(ctx, historyKey(s.id), data).Err(); err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	// Keep the stored history bounded like the in-memory twin.
	_ = s.client.LTrim(ctx, historyKey(s.id), -20, -1).Err()
	if s.ttl > 0 {
		_ = s.client.Expire(ctx, historyKey(s.id), s.ttl).Err()
	}
	return nil
}

func (s *Session) History() ([]session_models.Exchange, error) {
	ctx := context.Background()
	raw, err := s.client.LRange(ctx, historyKey(s.id), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	out := make([]session_models.Exchange, 0, len(raw))
	for _, item := range raw {
		var ex session_models.Exchange
		if err := json.Unmarshal([]byte(item), &ex); err != nil {
			continue
		}
		out = append(out, ex)
	}
	return out, nil
}

func (s *Session) ResetHistory() error {
	ctx := context.Background()
	return s.client.Del(ctx, historyKey(s.id)).Err()
}

func (s *Session) AddChunk(chunk session_models.DocChunk) error { return s.obj.AddChunk(chunk) }
func (s *Session) SetVector(docID string, v []float32)          { s.obj.SetVector(docID, v) }
func (s *Session) HasVectors() bool                             { return s.obj.HasVectors() }
func (s *Session) ClearData() error                             { return s.obj.ClearData() }

func (s *Session) Bm25Search(q string, k int) ([]session_models.SearchHit, error) {
	return s.obj.Bm25Search(q, k)
}

func (s *Session) VectorSearch(q []float32, k int) []session_models.SearchHit {
	return s.obj.VectorSearch(q, k)
}

func (s *Session) FuseRRF(a, b []session_models.SearchHit, k int) []session_models.SearchHit {
	return s.obj.FuseRRF(a, b, k)
}
