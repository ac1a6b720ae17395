package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultEndpoint is the public Overpass interpreter.
const DefaultEndpoint = "https://overpass-api.de/api/interpreter"

const userAgent = "Florist-Locator/1.0 (https://github.com/UnknownOlympus/florist)"

// HTTPClient defines the interface for making HTTP requests.
// This allows for easy mocking in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client submits Overpass QL queries to an interpreter endpoint.
type Client struct {
	client   HTTPClient   // HTTP client for making requests
	endpoint string       // Interpreter URL
	log      *slog.Logger // Logger for logging operations
}

// NewClient creates an Overpass client with its own HTTP client. An empty
// endpoint selects DefaultEndpoint.
func NewClient(endpoint string, timeout time.Duration, log *slog.Logger) *Client {
	return NewClientWithHTTP(&http.Client{Timeout: timeout}, endpoint, log)
}

// NewClientWithHTTP creates an Overpass client with a custom HTTP client.
// Useful for testing with mocked HTTP clients.
func NewClientWithHTTP(client HTTPClient, endpoint string, log *slog.Logger) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	return &Client{client: client, endpoint: endpoint, log: log}
}

// Endpoint returns the interpreter URL in use.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Interpret posts the query and decodes the JSON answer. Any non-2xx status
// is returned as an error; there is no retry.
func (c *Client) Interpret(ctx context.Context, query string) (*Response, error) {
	form := url.Values{}
	form.Set("data", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	c.log.DebugContext(ctx, "Overpass request", "endpoint", c.endpoint, "query", query)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute overpass request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.log.ErrorContext(ctx, "Overpass API error", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("overpass API returned status %d", resp.StatusCode)
	}

	var result Response
	if err = json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode overpass response: %w", err)
	}

	c.log.DebugContext(ctx, "Overpass response", "elements", len(result.Elements), "remark", result.Remark)

	return &result, nil
}
