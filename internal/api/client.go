// Package api talks to the remote progress endpoint. The remote copy is
// strictly best-effort: sync failures are swallowed and local
// persistence stays authoritative.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mpetrov/folio/pkg/models"
)

// Client is the HTTP client for the progress sync API
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a new API client
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// request makes an HTTP request to the API
func (c *Client) request(method, path string, body interface{}) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	return c.httpClient.Do(req)
}

// parseResponse reads and unmarshals the response body
func parseResponse[T any](resp *http.Response) (T, error) {
	var result T
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return result, err
	}

	if resp.StatusCode >= 400 {
		return result, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, &result); err != nil {
		return result, err
	}

	return result, nil
}

// SavePosition uploads a reading position for a book
func (c *Client) SavePosition(pos models.ReadingPosition) error {
	resp, err := c.request("POST", "/api/books/"+pos.BookID+"/progress", pos)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return nil
}

// GetPosition fetches the remote reading position for a book
func (c *Client) GetPosition(bookID string) (*models.ReadingPosition, error) {
	resp, err := c.request("GET", "/api/books/"+bookID+"/progress", nil)
	if err != nil {
		return nil, err
	}
	return parseResponse[*models.ReadingPosition](resp)
}

// SyncPosition fires a position upload and forgets it. Network or
// server errors are discarded; the local store already holds the
// authoritative copy.
func (c *Client) SyncPosition(pos models.ReadingPosition) {
	go func() {
		_ = c.SavePosition(pos)
	}()
}
