// Package notion talks to the Notion REST API: database queries, block appends
// and page property updates.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://api.notion.com/v1"
	DefaultVersion = "2022-06-28"
)

// Doer is the subset of *http.Client used by this package
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Options configures a Client
type Options struct {
	BaseURL    string
	Token      string
	Version    string
	DatabaseID string
	Timeout    time.Duration
	HTTPClient Doer
	Logger     *slog.Logger
}

// Client is a thin Notion API client bound to one database
type Client struct {
	baseURL    string
	token      string
	version    string
	databaseID string
	http       Doer
	logger     *slog.Logger
}

// New creates a Client, filling defaults for empty options
func New(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Version == "" {
		opts.Version = DefaultVersion
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		token:      opts.Token,
		version:    opts.Version,
		databaseID: opts.DatabaseID,
		http:       opts.HTTPClient,
		logger:     opts.Logger,
	}
}

// Header returns the auth and content headers sent with every request
func (c *Client) Header() http.Header {
	h := http.Header{}
	h.Set("Authorization", "Bearer "+c.token)
	h.Set("Content-Type", "application/json")
	h.Set("Accept", "application/json")
	h.Set("Notion-Version", c.version)
	return h
}

// QueryURL is the database query endpoint of the bound database
func (c *Client) QueryURL() string {
	return fmt.Sprintf("%s/databases/%s/query", c.baseURL, c.databaseID)
}

// QueryAll fetches every page of the bound database
func (c *Client) QueryAll(ctx context.Context) ([]json.RawMessage, error) {
	pages, err := FetchAll(ctx, c.http, c.QueryURL(), c.Header())
	if err != nil {
		return nil, err
	}
	c.logger.Debug("database fetched", "database_id", c.databaseID, "entries", len(pages))
	return pages, nil
}

// doJSON sends in as a JSON body and decodes the response into out (if non-nil).
// Non-2xx statuses are returned as *RemoteStoreError.
func doJSON(ctx context.Context, client Doer, method, url string, header http.Header, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode %s body: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	for k, v := range header {
		req.Header[k] = append([]string(nil), v...)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &RemoteStoreError{
			Method:     method,
			URL:        url,
			StatusCode: resp.StatusCode,
			Body:       body,
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("json parse error: %w body=%s", err, snippet(body, 500))
	}
	return nil
}
