package fetcher

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFetchAll(t *testing.T) {
	t.Parallel()

	var gotAuth string
	userSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/user/profile":
			gotAuth = r.Header.Get("Authorization")
			json.NewEncoder(w).Encode(map[string]interface{}{"name": "Fawad", "age": 24})
		case "/chrome-history/fetch":
			json.NewEncoder(w).Encode([]map[string]interface{}{{"url": "https://a.com"}})
		case "/mood/tracks":
			if r.URL.Query().Get("range") != "weekly" {
				t.Errorf("range = %q, want weekly", r.URL.Query().Get("range"))
			}
			json.NewEncoder(w).Encode([]map[string]interface{}{{"mood": "happy"}, {"mood": "tired"}})
		default:
			http.NotFound(w, r)
		}
	}))
	defer userSrv.Close()

	domainSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/emotions/data" {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{{"predicted_emotion": "Joy"}},
		})
	}))
	defer domainSrv.Close()

	c := NewClient(userSrv.URL, domainSrv.URL, time.Second)
	data := c.FetchAll(context.Background(), "tok123")

	if gotAuth != "Bearer tok123" {
		t.Fatalf("authorization header = %q", gotAuth)
	}
	if data.Profile["name"] != "Fawad" {
		t.Fatalf("profile = %v", data.Profile)
	}
	if len(data.BrowsingHistory) != 1 || len(data.MoodTracks) != 2 || len(data.EmotionData) != 1 {
		t.Fatalf("unexpected sizes: %d/%d/%d",
			len(data.BrowsingHistory), len(data.MoodTracks), len(data.EmotionData))
	}
	if data.EmotionData[0]["predicted_emotion"] != "Joy" {
		t.Fatalf("emotion data = %v", data.EmotionData)
	}
}

func TestFetchAllToleratesFailures(t *testing.T) {
	t.Parallel()

	// Profile 500s, everything else 404s.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/user/profile" {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.URL, time.Second)
	data := c.FetchAll(context.Background(), "")

	if data.Profile == nil || len(data.Profile) != 0 {
		t.Fatalf("profile should be empty map, got %v", data.Profile)
	}
	if data.BrowsingHistory != nil || data.MoodTracks != nil || data.EmotionData != nil {
		t.Fatalf("failed fetches should yield nil slices")
	}
}

func TestFetchAllUnreachableServices(t *testing.T) {
	t.Parallel()
	c := NewClient("http://127.0.0.1:1", "http://127.0.0.1:1", 200*time.Millisecond)
	data := c.FetchAll(context.Background(), "")
	if len(data.Profile) != 0 || data.BrowsingHistory != nil {
		t.Fatalf("unreachable services must degrade to empty data")
	}
}
