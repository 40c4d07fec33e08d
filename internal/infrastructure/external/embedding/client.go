package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Client talks to the embedding microservice that indexes hub messages
// for semantic search
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewClient creates a new embedding service client
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// SearchResult is a single semantic search hit
type SearchResult struct {
	MessageID string  `json:"message_id"`
	Score     float64 `json:"score"`
	Snippet   string  `json:"snippet"`
}

type searchRequest struct {
	HubID string `json:"hub_id"`
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

type searchResponse struct {
	Results []SearchResult `json:"results"`
}

type indexRequest struct {
	HubID     string `json:"hub_id"`
	MessageID string `json:"message_id"`
	Text      string `json:"text"`
}

// Search runs a semantic search over a hub's indexed messages
func (c *Client) Search(ctx context.Context, hubID, query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 10
	}

	body, err := json.Marshal(searchRequest{HubID: hubID, Query: query, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search request: %w", err)
	}

	var results []SearchResult
	operation := func() error {
		raw, err := c.post(ctx, "/v1/search", body)
		if err != nil {
			return err
		}
		var resp searchResponse
		if err := json.Unmarshal(raw, &resp); err != nil {
			return backoff.Permanent(fmt.Errorf("failed to decode search response: %w", err))
		}
		results = resp.Results
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return results, nil
}

// IndexMessage submits message text for indexing. The service embeds and
// stores it asynchronously.
func (c *Client) IndexMessage(ctx context.Context, hubID, messageID, text string) error {
	body, err := json.Marshal(indexRequest{HubID: hubID, MessageID: messageID, Text: text})
	if err != nil {
		return fmt.Errorf("failed to marshal index request: %w", err)
	}

	operation := func() error {
		_, err := c.post(ctx, "/v1/index", body)
		return err
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	return backoff.Retry(operation, policy)
}

// post sends an authenticated request, flagging client errors as permanent
func (c *Client) post(ctx context.Context, endpoint string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		err := fmt.Errorf("embedding API error (status: %d): %s", resp.StatusCode, string(raw))
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}

	return raw, nil
}
