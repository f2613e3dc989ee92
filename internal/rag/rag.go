// Package rag turns fetched user data into retrievable context for the
// chatbot: documents are indexed for BM25 and, when an embedding provider is
// configured, embedded for vector search. Retrieval fuses both result lists;
// without embeddings it degrades to keyword search alone.
package rag

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fawad57/psyplex/internal/fetcher"
	"github.com/fawad57/psyplex/provider"
	"github.com/fawad57/psyplex/session"
	"github.com/fawad57/psyplex/session/session_models"
)

const (
	maxHistoryDocs = 50
	maxMoodDocs    = 30
)

// Manager indexes user data into a session and retrieves context from it.
type Manager struct {
	provider provider.Provider // nil when no LLM provider is configured
	logger   *log.Logger
}

func NewManager(p provider.Provider) *Manager {
	return &Manager{
		provider: p,
		logger:   log.New(log.Writer(), "[RAG] ", log.LstdFlags),
	}
}

// BuildDocuments converts the fetched user data into document chunks.
func BuildDocuments(data fetcher.UserData) []session_models.DocChunk {
	now := time.Now()
	var docs []session_models.DocChunk

	if len(data.Profile) > 0 {
		var b strings.Builder
		b.WriteString("User Profile:\n")
		writeField(&b, "Name", data.Profile["name"])
		writeField(&b, "Age", data.Profile["age"])
		writeField(&b, "Gender", data.Profile["gender"])
		writeField(&b, "Bio", data.Profile["bio"])
		writeField(&b, "Interests", data.Profile["interests"])
		writeField(&b, "Mental Health Goals", data.Profile["goals"])
		docs = append(docs, session_models.DocChunk{
			DocID:      uuid.NewString(),
			Kind:       "profile",
			Title:      "User profile",
			Text:       strings.TrimSpace(b.String()),
			IngestedAt: now,
		})
	}

	history := data.BrowsingHistory
	if len(history) > maxHistoryDocs {
		history = history[:maxHistoryDocs]
	}
	for _, item := range history {
		var b strings.Builder
		b.WriteString("Browsing Activity:\n")
		writeField(&b, "URL", item["url"])
		writeField(&b, "Title", item["title"])
		writeField(&b, "Domain", item["url_domain"])
		writeField(&b, "Visit Time", item["time"])
		writeField(&b, "Category", item["predicted_category"])
		docs = append(docs, session_models.DocChunk{
			DocID:      uuid.NewString(),
			Kind:       "browsing_history",
			Title:      stringOf(item["title"]),
			Text:       strings.TrimSpace(b.String()),
			IngestedAt: now,
		})
	}

	moods := data.MoodTracks
	if len(moods) > maxMoodDocs {
		moods = moods[len(moods)-maxMoodDocs:]
	}
	for _, mood := range moods {
		var b strings.Builder
		b.WriteString("Mood Entry:\n")
		writeField(&b, "Mood", mood["mood"])
		writeField(&b, "Intensity", mood["intensity"])
		writeField(&b, "Notes", mood["notes"])
		writeField(&b, "Date", mood["date"])
		docs = append(docs, session_models.DocChunk{
			DocID:      uuid.NewString(),
			Kind:       "mood_track",
			Title:      "Mood entry " + stringOf(mood["date"]),
			Text:       strings.TrimSpace(b.String()),
			IngestedAt: now,
		})
	}

	for _, row := range data.EmotionData {
		var b strings.Builder
		b.WriteString("Classified Visit:\n")
		writeField(&b, "Title", row["title"])
		writeField(&b, "Domain", row["url_domain"])
		writeField(&b, "Category", row["predicted_category"])
		writeField(&b, "Emotion", row["predicted_emotion"])
		writeField(&b, "Emotion Score", row["emotion_score"])
		docs = append(docs, session_models.DocChunk{
			DocID:      uuid.NewString(),
			Kind:       "emotion",
			Title:      stringOf(row["title"]),
			Text:       strings.TrimSpace(b.String()),
			IngestedAt: now,
		})
	}

	return docs
}

// IndexUserData replaces the session's retrieval state with documents built
// from the given user data. Embedding failures degrade to BM25-only
// retrieval instead of failing the chat turn.
func (m *Manager) IndexUserData(ctx context.Context, sess session.Session, data fetcher.UserData) error {
	if err := sess.ClearData(); err != nil {
		return fmt.Errorf("clear session data: %w", err)
	}
	docs := BuildDocuments(data)
	if len(docs) == 0 {
		return nil
	}
	texts := make([]string, 0, len(docs))
	for _, doc := range docs {
		if err := sess.AddChunk(doc); err != nil {
			return fmt.Errorf("index chunk: %w", err)
		}
		texts = append(texts, doc.Text)
	}

	if m.provider == nil {
		return nil
	}
	vecs, err := m.provider.CreateEmbedding(ctx, texts)
	if err != nil {
		m.logger.Printf("embedding unavailable, falling back to keyword retrieval: %v", err)
		return nil
	}
	for i, v := range vecs {
		if i < len(docs) {
			sess.SetVector(docs[i].DocID, v)
		}
	}
	return nil
}

// Retrieve returns up to k context snippets relevant to the query.
func (m *Manager) Retrieve(ctx context.Context, sess session.Session, query string, k int) []session_models.SearchHit {
	keyword, err := sess.Bm25Search(query, k)
	if err != nil {
		m.logger.Printf("keyword search: %v", err)
	}

	if m.provider == nil || !sess.HasVectors() {
		return keyword
	}
	qVecs, err := m.provider.CreateEmbedding(ctx, []string{query})
	if err != nil || len(qVecs) == 0 {
		m.logger.Printf("query embedding unavailable: %v", err)
		return keyword
	}
	vector := sess.VectorSearch(qVecs[0], k)
	return sess.FuseRRF(keyword, vector, k)
}

// ContextText joins retrieval hits into the prompt context block.
func ContextText(hits []session_models.SearchHit) string {
	parts := make([]string, 0, len(hits))
	for _, h := range hits {
		parts = append(parts, h.Snippet)
	}
	return strings.Join(parts, "\n")
}

func writeField(b *strings.Builder, name string, v interface{}) {
	if v == nil {
		return
	}
	b.WriteString(name)
	b.WriteString(": ")
	b.WriteString(stringOf(v))
	b.WriteString("\n")
}

func stringOf(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []interface{}:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			parts = append(parts, stringOf(item))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(t)
	}
}
