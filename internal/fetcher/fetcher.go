// Package fetcher pulls user data (profile, browsing history, mood entries,
// emotion rows) from the external psyplex services for RAG context. Each
// fetch is independently fault-tolerant: a failing service logs and yields
// empty data instead of aborting the rest.
package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

// UserData bundles everything the chatbot can ground a reply on.
type UserData struct {
	Profile         map[string]interface{}
	BrowsingHistory []map[string]interface{}
	MoodTracks      []map[string]interface{}
	EmotionData     []map[string]interface{}
}

type Client struct {
	apiBase       string
	domainAPIBase string
	httpClient    *http.Client
	logger        *log.Logger
}

func NewClient(apiBase, domainAPIBase string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		apiBase:       apiBase,
		domainAPIBase: domainAPIBase,
		httpClient:    &http.Client{Timeout: timeout},
		logger:        log.New(log.Writer(), "[FETCHER] ", log.LstdFlags),
	}
}

func (c *Client) getJSON(ctx context.Context, url, token string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// FetchProfile returns the user profile, or an empty map on any failure.
func (c *Client) FetchProfile(ctx context.Context, token string) map[string]interface{} {
	var profile map[string]interface{}
	if err := c.getJSON(ctx, c.apiBase+"/user/profile", token, &profile); err != nil {
		c.logger.Printf("fetch profile: %v", err)
		return map[string]interface{}{}
	}
	return profile
}

// FetchBrowsingHistory returns the visit rows, or nil on any failure.
func (c *Client) FetchBrowsingHistory(ctx context.Context, token string) []map[string]interface{} {
	var history []map[string]interface{}
	if err := c.getJSON(ctx, c.apiBase+"/chrome-history/fetch", token, &history); err != nil {
		c.logger.Printf("fetch browsing history: %v", err)
		return nil
	}
	return history
}

// FetchMoodTracks returns mood entries for the given range, or nil on any
// failure.
func (c *Client) FetchMoodTracks(ctx context.Context, token, rng string) []map[string]interface{} {
	if rng == "" {
		rng = "weekly"
	}
	var moods []map[string]interface{}
	if err := c.getJSON(ctx, c.apiBase+"/mood/tracks?range="+rng, token, &moods); err != nil {
		c.logger.Printf("fetch mood tracks: %v", err)
		return nil
	}
	return moods
}

// FetchEmotionData returns the annotated visit rows from the domain
// classification service, or nil on any failure.
func (c *Client) FetchEmotionData(ctx context.Context) []map[string]interface{} {
	var payload struct {
		Data []map[string]interface{} `json:"data"`
	}
	if err := c.getJSON(ctx, c.domainAPIBase+"/api/emotions/data", "", &payload); err != nil {
		c.logger.Printf("fetch emotion data: %v", err)
		return nil
	}
	return payload.Data
}

// FetchAll gathers every data source; partial failures leave their slot
// empty.
func (c *Client) FetchAll(ctx context.Context, token string) UserData {
	return UserData{
		Profile:         c.FetchProfile(ctx, token),
		BrowsingHistory: c.FetchBrowsingHistory(ctx, token),
		MoodTracks:      c.FetchMoodTracks(ctx, token, "weekly"),
		EmotionData:     c.FetchEmotionData(ctx),
	}
}
