package session_models

import "time"

// DocChunk is one embedded/indexed piece of user context.
type DocChunk struct {
	DocID      string
	Kind       string // profile, browsing_history, mood_track, emotion
	Title      string
	Text       string
	IngestedAt time.Time
}

// SearchHit is one retrieval result.
type SearchHit struct {
	DocID   string
	Kind    string
	Title   string
	Snippet string
	Score   float64
	Rank    int
}

// Exchange is one user/assistant turn pair of the chat history.
type Exchange struct {
	User  string `json:"user"`
	Reply string `json:"reply"`
}
