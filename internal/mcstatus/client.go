package mcstatus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	// DefaultBaseURL is the public mcstatus.io API
	DefaultBaseURL = "https://api.mcstatus.io/v2"
)

// Status is the subset of the mcstatus.io java status response the bot uses
type Status struct {
	Online  bool    `json:"online"`
	Host    string  `json:"host"`
	Port    int     `json:"port"`
	Version Version `json:"version"`
	Players Players `json:"players"`
}

// Version describes the server software version
type Version struct {
	NameClean string `json:"name_clean"`
}

// Players holds the live player counts
type Players struct {
	Online int `json:"online"`
	Max    int `json:"max"`
}

// Info is a reduced status for sub-server lines on the board
type Info struct {
	Online  bool
	Players int
}

// Client is a thin mcstatus.io API client
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new status API client
func NewClient() *Client {
	return NewClientWithBaseURL(DefaultBaseURL)
}

// NewClientWithBaseURL creates a client against a non-default API endpoint
func NewClientWithBaseURL(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Status fetches the java-edition status for a server address
func (c *Client) Status(ctx context.Context, address string) (*Status, error) {
	endpoint := fmt.Sprintf("%s/status/java/%s", c.baseURL, url.PathEscape(address))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var status Status
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &status, nil
}

// Info fetches a server's status reduced to online flag and player count.
// Fetch failures are reported as offline, matching the board's sub-server
// lines which must render regardless.
func (c *Client) Info(ctx context.Context, address string) Info {
	status, err := c.Status(ctx, address)
	if err != nil || !status.Online {
		return Info{}
	}
	return Info{Online: true, Players: status.Players.Online}
}
