package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/reviewpulse/reviewpulse/internal/feedback"
)

// Client talks to a running reviewpulse HTTP server.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 120 * time.Second},
	}
}

// Submit posts one feedback record and returns the AI-generated reply.
func (c *Client) Submit(userName string, rating int, reviewText string) (string, error) {
	payload, _ := json.Marshal(map[string]interface{}{
		"user_name":   userName,
		"rating":      rating,
		"review_text": reviewText,
	})

	resp, err := c.http.Post(c.baseURL+"/api/feedback", "application/json", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to reach server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	var result struct {
		UserLLMResponse string `json:"user_llm_response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	return result.UserLLMResponse, nil
}

// Stats fetches the dashboard aggregates.
func (c *Client) Stats() (feedback.Stats, error) {
	var stats feedback.Stats

	resp, err := c.http.Get(c.baseURL + "/api/stats")
	if err != nil {
		return stats, fmt.Errorf("failed to reach server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return stats, fmt.Errorf("server returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return stats, fmt.Errorf("failed to decode response: %w", err)
	}
	return stats, nil
}

// GenerateInsight asks the server for a fresh summary or actions insight and
// returns its text.
func (c *Client) GenerateInsight(kind string) (string, error) {
	resp, err := c.http.Post(c.baseURL+"/api/insights/"+kind, "application/json", nil)
	if err != nil {
		return "", fmt.Errorf("failed to reach server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	var result struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	return result.Content, nil
}
