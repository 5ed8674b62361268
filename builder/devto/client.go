// Package devto is a minimal Forem (dev.to) API client for the author's own
// published articles.
package devto

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	DefaultBaseURL = "https://dev.to/api"
	perPage        = 1000
	maxPages       = 10
)

var (
	ErrNoAPIKey        = errors.New("devto: no API key configured")
	ErrArticleNotFound = errors.New("devto: article not found")
)

// Client talks to the Forem REST API. Every call is bounded by timeout on
// top of the caller's context.
type Client struct {
	baseURL    string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new API client. If baseURL is empty, it defaults to
// https://dev.to/api. A zero timeout leaves calls bounded only by the
// caller's context; a nil logger discards.
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		timeout: timeout,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// HasCredential reports whether calls will be attempted at all.
func (c *Client) HasCredential() bool {
	return c.apiKey != ""
}

// ListArticles returns every published article of the key's owner.
func (c *Client) ListArticles(ctx context.Context) ([]Article, error) {
	if !c.HasCredential() {
		return nil, ErrNoAPIKey
	}

	var all []Article
	for page := 1; page <= maxPages; page++ {
		q := url.Values{}
		q.Set("per_page", strconv.Itoa(perPage))
		q.Set("page", strconv.Itoa(page))

		var batch []Article
		if err := c.get(ctx, "/articles/me/published?"+q.Encode(), &batch); err != nil {
			return nil, fmt.Errorf("list articles page %d: %w", page, err)
		}
		all = append(all, batch...)
		if len(batch) < perPage {
			return all, nil
		}
	}
	c.logger.Debug("Article listing stopped at the page limit", "pages", maxPages, "articles", len(all))
	return all, nil
}

// GetArticle fetches one article including its markdown body.
func (c *Client) GetArticle(ctx context.Context, id int64) (*Article, error) {
	if !c.HasCredential() {
		return nil, ErrNoAPIKey
	}

	var article Article
	if err := c.get(ctx, "/articles/"+strconv.FormatInt(id, 10), &article); err != nil {
		return nil, fmt.Errorf("get article %d: %w", id, err)
	}
	return &article, nil
}

func (c *Client) get(ctx context.Context, path string, result any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.forem.api-v1+json")
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return ErrArticleNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, truncate(string(body), 200))
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
