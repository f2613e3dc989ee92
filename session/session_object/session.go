package session_object

import (
	"math"
	"sort"
	"sync"
	"time"

	"github.com/blevesearch/bleve"
	"github.com/fawad57/psyplex/session/session_models"
)

// maxExchanges bounds the stored conversation history.
const maxExchanges = 20

const rrfK = 60 // reciprocal-rank-fusion constant

// Session holds one user's chat history plus the retrieval state (BM25
// index and embedding vectors) built over their data.
type Session struct {
	id        string
	expiresAt time.Time
	history   []session_models.Exchange
	bleve     bleve.Index
	meta      map[string]session_models.DocChunk
	vectors   []embedVec
	mu        sync.RWMutex
}

type embedVec struct {
	docID string
	vec   []float32
}

func NewSession(id string, ttl time.Duration) (*Session, error) {
	index, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, err
	}
	return &Session{
		id:        id,
		expiresAt: time.Now().Add(ttl),
		bleve:     index,
		meta:      make(map[string]session_models.DocChunk),
	}, nil
}

func (s *Session) ID() string               { return s.id }
func (s *Session) Expire(ttl time.Duration) { s.expiresAt = time.Now().Add(ttl) }
func (s *Session) ExpiresAt() time.Time     { return s.expiresAt }
func (s *Session) Expired() bool            { return time.Now().After(s.expiresAt) }

func (s *Session) AppendExchange(user, reply string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, session_models.Exchange{User: user, Reply: reply})
	if len(s.history) > maxExchanges {
		s.history = s.history[len(s.history)-maxExchanges:]
	}
	return nil
}

func (s *Session) History() ([]session_models.Exchange, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]session_models.Exchange, len(s.history))
	copy(out, s.history)
	return out, nil
}

func (s *Session) ResetHistory() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
	return nil
}

func (s *Session) AddChunk(chunk session_models.DocChunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meta[chunk.DocID] = chunk
	return s.bleve.Index(chunk.DocID, chunk)
}

func (s *Session) SetVector(docID string, v []float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vectors = append(s.vectors, embedVec{docID: docID, vec: v})
}

func (s *Session) HasVectors() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vectors) > 0
}

// ClearData drops the retrieval state but keeps the conversation history.
func (s *Session) ClearData() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meta = make(map[string]session_models.DocChunk)
	s.vectors = nil
	index, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return err
	}
	s.bleve = index
	return nil
}

func (s *Session) Bm25Search(q string, k int) ([]session_models.SearchHit, error) {
	// ClearData swaps the index under the write lock; search a snapshot so a
	// concurrent reset cannot race the read.
	s.mu.RLock()
	index := s.bleve
	s.mu.RUnlock()
	query := bleve.NewQueryStringQuery(q)
	searchReq := bleve.NewSearchRequestOptions(query, k*3, 0, false)
	res, err := index.Search(searchReq)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []session_models.SearchHit
	for i, hit := range res.Hits {
		doc := s.meta[hit.ID]
		out = append(out, session_models.SearchHit{
			DocID: hit.ID, Kind: doc.Kind, Title: doc.Title,
			Snippet: snippet(doc.Text),
			Score:   hit.Score, Rank: i + 1,
		})
		if len(out) >= k {
			break
		}
	}
	return out, nil
}

func (s *Session) VectorSearch(q []float32, k int) []session_models.SearchHit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	type scored struct {
		id    string
		score float64
	}
	var scoreds []scored
	for _, v := range s.vectors {
		scoreds = append(scoreds, scored{id: v.docID, score: cosine(q, v.vec)})
	}
	sort.Slice(scoreds, func(i, j int) bool { return scoreds[i].score > scoreds[j].score })
	var out []session_models.SearchHit
	for i, sc := range scoreds {
		doc := s.meta[sc.id]
		out = append(out, session_models.SearchHit{
			DocID: sc.id, Kind: doc.Kind, Title: doc.Title,
			Snippet: snippet(doc.Text), Score: sc.score, Rank: i + 1,
		})
		if len(out) >= k {
			break
		}
	}
	return out
}

func (s *Session) FuseRRF(a, b []session_models.SearchHit, k int) []session_models.SearchHit {
	type agg struct {
		item  session_models.SearchHit
		score float64
	}
	m := map[string]*agg{}
	add := func(list []session_models.SearchHit) {
		for _, h := range list {
			x, ok := m[h.DocID]
			if !ok {
				m[h.DocID] = &agg{item: h}
				x = m[h.DocID]
			}
			x.score += 1.0 / float64(rrfK+h.Rank)
		}
	}
	add(a)
	add(b)
	items := make([]*agg, 0, len(m))
	for _, v := range m {
		items = append(items, v)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].score > items[j].score })
	if k > len(items) {
		k = len(items)
	}
	out := make([]session_models.SearchHit, 0, k)
	for i := 0; i < k; i++ {
		hit := items[i].item
		hit.Score = items[i].score
		hit.Rank = i + 1
		out = append(out, hit)
	}
	return out
}

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		ai := float64(a[i])
		bi := float64(b[i])
		dot += ai * bi
		na += ai * ai
		nb += bi * bi
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func snippet(s string) string {
	if len(s) <= 300 {
		return s
	}
	return s[:300] + "…"
}
