package chatbot

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fawad57/psyplex/internal/fetcher"
	"github.com/fawad57/psyplex/internal/rag"
	"github.com/fawad57/psyplex/provider"
	"github.com/fawad57/psyplex/session"
	"github.com/fawad57/psyplex/session/session_models"
)

// FallbackReply is returned whenever the LLM provider is unavailable or
// errors; the chat endpoint never fails outright on provider faults.
const FallbackReply = "I'm here to listen. How are you feeling right now?"

const anonymousUser = "anonymous"

const personaPrompt = `You are PsyPlex — a compassionate, empathetic AI mental health companion.

Guidelines:
- You are NOT a general purpose assistant. Do NOT answer questions about facts, history, geography, math, or coding.
- If asked a factual question, gently deflect it and bring the focus back to the user.
- Be warm, understanding, and non-judgmental.
- Validate the user's feelings and experiences.
- Keep responses conversational (3-5 sentences) but meaningful.
- Always try to connect the conversation to the user's mood, their day, or their well-being.
- If the user says "hello", ask them how their day was or how they are feeling.`

const promptExchanges = 5 // history exchanges included in the prompt

// Request is one inbound chat message.
type Request struct {
	Message      string `json:"message"`
	ResetHistory bool   `json:"reset_history"`
	UserToken    string `json:"user_token"`
}

// Response carries the reply plus the session's conversation history.
type Response struct {
	Reply   string                    `json:"reply"`
	History []session_models.Exchange `json:"history"`
}

// Chatbot glues the session store, the user-data fetcher, the retrieval
// manager and the LLM provider into the chat endpoint's behaviour.
type Chatbot struct {
	provider provider.Provider // nil when unconfigured
	sessions session.Store
	fetcher  *fetcher.Client
	rag      *rag.Manager
	ttl      time.Duration
	logger   *log.Logger
}

func New(p provider.Provider, sessions session.Store, f *fetcher.Client, ttl time.Duration) *Chatbot {
	return &Chatbot{
		provider: p,
		sessions: sessions,
		fetcher:  f,
		rag:      rag.NewManager(p),
		ttl:      ttl,
		logger:   log.New(log.Writer(), "[CHAT] ", log.LstdFlags),
	}
}

// Message handles one chat turn. Provider faults degrade to the fallback
// reply; only session-store failures surface as errors.
func (b *Chatbot) Message(ctx context.Context, req Request) (Response, error) {
	userID := userIDFromToken(req.UserToken)

	if req.ResetHistory {
		if err := b.sessions.DeleteSession(userID); err != nil {
			b.logger.Printf("reset session %s: %v", userID, err)
		}
	}

	sess, err := b.sessions.EnsureSession(userID, b.ttl)
	if err != nil {
		return Response{}, fmt.Errorf("ensure session: %w", err)
	}

	contextText := ""
	if userID != anonymousUser {
		data := b.fetcher.FetchAll(ctx, req.UserToken)
		b.logger.Printf("user %s data: profile=%t history=%d moods=%d",
			userID, len(data.Profile) > 0, len(data.BrowsingHistory), len(data.MoodTracks))
		if err := b.rag.IndexUserData(ctx, sess, data); err != nil {
			b.logger.Printf("index user data: %v", err)
		} else {
			hits := b.rag.Retrieve(ctx, sess, req.Message, 3)
			contextText = rag.ContextText(hits)
		}
	}

	history, err := sess.History()
	if err != nil {
		b.logger.Printf("read history: %v", err)
	}

	reply := FallbackReply
	if b.provider != nil {
		text, err := b.provider.ChatCompletion(ctx, personaPrompt, buildPrompt(history, contextText, req.Message))
		if err != nil {
			b.logger.Printf("chat completion: %v", err)
		} else if text != "" {
			reply = text
		}
	}

	if err := sess.AppendExchange(req.Message, reply); err != nil {
		b.logger.Printf("append exchange: %v", err)
	}
	history = append(history, session_models.Exchange{User: req.Message, Reply: reply})

	return Response{Reply: reply, History: history}, nil
}

func buildPrompt(history []session_models.Exchange, contextText, message string) string {
	var b strings.Builder
	if contextText != "" {
		b.WriteString("Here is some context about the user (use this to personalize your response and show you care):\n")
		b.WriteString(contextText)
		b.WriteString("\n\n")
	}
	b.WriteString("Chat History:\n")
	start := 0
	if len(history) > promptExchanges {
		start = len(history) - promptExchanges
	}
	for _, ex := range history[start:] {
		b.WriteString("User: ")
		b.WriteString(ex.User)
		b.WriteString("\nPsyPlex: ")
		b.WriteString(ex.Reply)
		b.WriteString("\n")
	}
	b.WriteString("\nUser: ")
	b.WriteString(message)
	b.WriteString("\nPsyPlex:")
	return b.String()
}

// userIDFromToken derives the session key from the caller's bearer token.
// The token is parsed without verification: the user-data service owns
// signature checks, we only need a stable key.
func userIDFromToken(token string) string {
	if token == "" {
		return anonymousUser
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "authenticated_user"
	}
	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		return sub
	}
	return "authenticated_user"
}
