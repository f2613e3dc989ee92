package chatbot

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fawad57/psyplex/config"
	"github.com/fawad57/psyplex/internal/fetcher"
	"github.com/fawad57/psyplex/session"
)

type scriptedProvider struct {
	reply      string
	err        error
	lastSystem string
	lastUser   string
}

func (p *scriptedProvider) ChatCompletion(ctx context.Context, system, user string) (string, error) {
	p.lastSystem = system
	p.lastUser = user
	if p.err != nil {
		return "", p.err
	}
	return p.reply, nil
}

func (p *scriptedProvider) CreateEmbedding(ctx context.Context, texts []string) ([][]float32, error) {
	return nil, errors.New("no embeddings in test")
}

func newTestStore() session.Store {
	return session.NewStore(config.SessionConfig{Store: "inmemory", TTL: time.Minute, Capacity: 10})
}

func newTestFetcher(base string) *fetcher.Client {
	return fetcher.NewClient(base, base, time.Second)
}

func signedToken(t *testing.T, sub string) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": sub}).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return tok
}

func TestMessageAnonymous(t *testing.T) {
	t.Parallel()
	p := &scriptedProvider{reply: "That sounds like a lot. How are you holding up?"}
	bot := New(p, newTestStore(), newTestFetcher("http://127.0.0.1:1"), time.Minute)

	resp, err := bot.Message(context.Background(), Request{Message: "rough day at work"})
	if err != nil {
		t.Fatalf("Message() error = %v", err)
	}
	if resp.Reply != p.reply {
		t.Fatalf("reply = %q", resp.Reply)
	}
	if len(resp.History) != 1 || resp.History[0].User != "rough day at work" {
		t.Fatalf("history = %+v", resp.History)
	}
	if p.lastSystem != personaPrompt {
		t.Fatalf("system prompt not applied")
	}
	if strings.Contains(p.lastUser, "context about the user") {
		t.Fatalf("anonymous turn must not carry user context")
	}
}

func TestMessageHistoryAccumulates(t *testing.T) {
	t.Parallel()
	p := &scriptedProvider{reply: "ok"}
	bot := New(p, newTestStore(), newTestFetcher("http://127.0.0.1:1"), time.Minute)

	ctx := context.Background()
	if _, err := bot.Message(ctx, Request{Message: "first"}); err != nil {
		t.Fatalf("Message() error = %v", err)
	}
	resp, err := bot.Message(ctx, Request{Message: "second"})
	if err != nil {
		t.Fatalf("Message() error = %v", err)
	}
	if len(resp.History) != 2 {
		t.Fatalf("history length = %d, want 2", len(resp.History))
	}
	if !strings.Contains(p.lastUser, "User: first") {
		t.Fatalf("prompt missing prior exchange:\n%s", p.lastUser)
	}
}

func TestMessageProviderFailureFallsBack(t *testing.T) {
	t.Parallel()
	p := &scriptedProvider{err: errors.New("rate limited")}
	bot := New(p, newTestStore(), newTestFetcher("http://127.0.0.1:1"), time.Minute)

	resp, err := bot.Message(context.Background(), Request{Message: "hello"})
	if err != nil {
		t.Fatalf("Message() error = %v", err)
	}
	if resp.Reply != FallbackReply {
		t.Fatalf("reply = %q, want fallback", resp.Reply)
	}
	// The failed turn still lands in history.
	if len(resp.History) != 1 || resp.History[0].Reply != FallbackReply {
		t.Fatalf("history = %+v", resp.History)
	}
}

func TestMessageNoProvider(t *testing.T) {
	t.Parallel()
	bot := New(nil, newTestStore(), newTestFetcher("http://127.0.0.1:1"), time.Minute)
	resp, err := bot.Message(context.Background(), Request{Message: "hi"})
	if err != nil {
		t.Fatalf("Message() error = %v", err)
	}
	if resp.Reply != FallbackReply {
		t.Fatalf("reply = %q, want fallback", resp.Reply)
	}
}

func TestMessageResetHistory(t *testing.T) {
	t.Parallel()
	p := &scriptedProvider{reply: "ok"}
	bot := New(p, newTestStore(), newTestFetcher("http://127.0.0.1:1"), time.Minute)

	ctx := context.Background()
	if _, err := bot.Message(ctx, Request{Message: "remember this"}); err != nil {
		t.Fatalf("Message() error = %v", err)
	}
	resp, err := bot.Message(ctx, Request{Message: "fresh start", ResetHistory: true})
	if err != nil {
		t.Fatalf("Message() error = %v", err)
	}
	if len(resp.History) != 1 || resp.History[0].User != "fresh start" {
		t.Fatalf("history after reset = %+v", resp.History)
	}
}

func TestMessageAuthenticatedFetchesContext(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/user/profile":
			w.Write([]byte(`{"name": "Fawad"}`))
		case "/mood/tracks":
			w.Write([]byte(`[{"mood": "stressed", "date": "2025-07-01"}]`))
		default:
			w.Write([]byte(`[]`))
		}
	}))
	defer srv.Close()

	p := &scriptedProvider{reply: "I hear you."}
	bot := New(p, newTestStore(), newTestFetcher(srv.URL), time.Minute)

	resp, err := bot.Message(context.Background(), Request{
		Message:   "why am I so stressed",
		UserToken: signedToken(t, "user42"),
	})
	if err != nil {
		t.Fatalf("Message() error = %v", err)
	}
	if resp.Reply != "I hear you." {
		t.Fatalf("reply = %q", resp.Reply)
	}
	if !strings.Contains(p.lastUser, "context about the user") {
		t.Fatalf("prompt missing retrieved context:\n%s", p.lastUser)
	}
}

func TestUserIDFromToken(t *testing.T) {
	t.Parallel()
	if got := userIDFromToken(""); got != anonymousUser {
		t.Fatalf("empty token = %q", got)
	}
	if got := userIDFromToken("garbage"); got != "authenticated_user" {
		t.Fatalf("malformed token = %q", got)
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "user7"}).SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	if got := userIDFromToken(tok); got != "user7" {
		t.Fatalf("subject = %q, want user7", got)
	}
}
