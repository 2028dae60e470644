package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultBaseURL = "https://api.notion.com"
	apiVersion     = "2022-06-28"

	blocksPageSize = 100
)

// Client talks to the document store REST API.
type Client struct {
	httpClient *http.Client
	token      string
	baseURL    string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API origin. Tests point this at a local server.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithHTTPClient overrides the transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// New creates a Client authenticated with the given integration token.
func New(token string, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		token:      token,
		baseURL:    defaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// GetPage retrieves a mailout page with its property values.
func (c *Client) GetPage(ctx context.Context, pageID string) (*Page, error) {
	var page Page
	if err := c.do(ctx, http.MethodGet, "/v1/pages/"+url.PathEscape(pageID), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetPageContent lists all content blocks of a page, following pagination.
func (c *Client) GetPageContent(ctx context.Context, pageID string) ([]Block, error) {
	var (
		blocks []Block
		cursor string
	)

	for {
		path := fmt.Sprintf("/v1/blocks/%s/children?page_size=%d", url.PathEscape(pageID), blocksPageSize)
		if cursor != "" {
			path += "&start_cursor=" + url.QueryEscape(cursor)
		}

		var resp struct {
			Results    []Block `json:"results"`
			HasMore    bool    `json:"has_more"`
			NextCursor string  `json:"next_cursor"`
		}
		if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
			return nil, err
		}

		blocks = append(blocks, resp.Results...)
		if !resp.HasMore || resp.NextCursor == "" {
			break
		}
		cursor = resp.NextCursor
	}

	return blocks, nil
}

// UpdateProperties patches page properties with pre-built wire values.
func (c *Client) UpdateProperties(ctx context.Context, pageID string, properties map[string]any) error {
	if len(properties) == 0 {
		return nil
	}
	body := map[string]any{"properties": properties}
	return c.do(ctx, http.MethodPatch, "/v1/pages/"+url.PathEscape(pageID), body, nil)
}

// CreateRow appends a row to a database. Used for the operator error log.
func (c *Client) CreateRow(ctx context.Context, databaseID string, properties map[string]any) error {
	body := map[string]any{
		"parent":     map[string]any{"database_id": databaseID},
		"properties": properties,
	}
	return c.do(ctx, http.MethodPost, "/v1/pages", body, nil)
}

// QueryByStatus returns up to limit pages of a database whose status
// property equals value, oldest edits first. The poller uses this to find
// trigger rows.
func (c *Client) QueryByStatus(ctx context.Context, databaseID, statusProp, value string, limit int) ([]Page, error) {
	if limit <= 0 {
		limit = 10
	}

	body := map[string]any{
		"filter": map[string]any{
			"property": statusProp,
			"status":   map[string]any{"equals": value},
		},
		"sorts": []map[string]any{
			{"timestamp": "last_edited_time", "direction": "ascending"},
		},
		"page_size": limit,
	}

	var resp struct {
		Results []Page `json:"results"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/databases/"+url.PathEscape(databaseID)+"/query", body, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// Healthcheck returns a probe suitable for the health endpoint.
func (c *Client) Healthcheck() func(context.Context) error {
	return func(ctx context.Context) error {
		return c.do(ctx, http.MethodGet, "/v1/users/me", nil, nil)
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Join(ErrRequestFailed, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errors.Join(ErrRequestFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", apiVersion)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Join(ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.apiError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return errors.Join(ErrDecodeResponse, err)
		}
	}

	return nil
}

func (c *Client) apiError(resp *http.Response) error {
	var sentinel error
	switch resp.StatusCode {
	case http.StatusNotFound:
		sentinel = ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		sentinel = ErrUnauthorized
	case http.StatusTooManyRequests:
		sentinel = ErrRateLimited
	default:
		sentinel = ErrRequestFailed
	}

	var apiErr struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	if json.Unmarshal(data, &apiErr) == nil && apiErr.Code != "" {
		return fmt.Errorf("%w: %s (%s)", sentinel, apiErr.Message, apiErr.Code)
	}
	return fmt.Errorf("%w: status %d", sentinel, resp.StatusCode)
}
