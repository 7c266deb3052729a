package embeddings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const DefaultBaseURL = "http://localhost:8000"

// maxErrorBody bounds how much of a failed response is read for its detail.
const maxErrorBody = 4096

var _ Service = (*Client)(nil)

// Client talks JSON over HTTP to the embedding service.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// NewClient creates a client for the service at baseURL. Requests carry no
// timeout of their own; callers bound them through ctx.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the service root the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type similarityRequest struct {
	Word1 string `json:"word1"`
	Word2 string `json:"word2"`
}

type wordListRequest struct {
	Words []string `json:"words"`
}

func (c *Client) Similarity(ctx context.Context, word1, word2 string) (Similarity, error) {
	var out Similarity
	err := c.do(ctx, http.MethodPost, "/similarity", similarityRequest{Word1: word1, Word2: word2}, &out)
	return out, err
}

func (c *Client) NearestNeighbors(ctx context.Context, word string, n int) ([]WordScore, error) {
	q := url.Values{}
	q.Set("word", word)
	if n > 0 {
		q.Set("n", strconv.Itoa(n))
	}
	var out []WordScore
	if err := c.do(ctx, http.MethodGet, "/nearest_neighbors?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) WordArithmetic(ctx context.Context, positive, negative string) ([]WordScore, error) {
	var out []WordScore
	if err := c.do(ctx, http.MethodPost, "/word_arithmetic", wordListRequest{Words: []string{positive, negative}}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Visualize(ctx context.Context, words []string) (Visualization, error) {
	var out Visualization
	err := c.do(ctx, http.MethodPost, "/visualize_embeddings", wordListRequest{Words: words}, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{StatusCode: resp.StatusCode, Detail: readDetail(resp.Body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %w", ErrRequestFailed, err)
	}
	return nil
}

// readDetail extracts a FastAPI-style {"detail": "..."} message, falling back
// to the trimmed raw body.
func readDetail(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var body struct {
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Detail != nil {
		if s, ok := body.Detail.(string); ok {
			return s
		}
		if b, err := json.Marshal(body.Detail); err == nil {
			return string(b)
		}
	}
	return strings.TrimSpace(string(raw))
}
