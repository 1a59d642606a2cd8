// Package posts fetches the home page's post list and holds the static
// content of the home and about pages.
package posts

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/grovetools/tabdeck/errors"
)

// DefaultBaseURL serves the posts endpoint.
const DefaultBaseURL = "https://jsonplaceholder.typicode.com"

// DefaultLimit is how many posts the home page shows.
const DefaultLimit = 5

// Post is one entry returned by GET /posts.
type Post struct {
	ID     int    `json:"id"`
	UserID int    `json:"userId"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

// Client calls the posts API.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient returns a client for baseURL. An empty baseURL uses
// DefaultBaseURL and a zero timeout means no timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string { return c.baseURL }

// List fetches up to limit posts. A limit of zero or less uses DefaultLimit.
func (c *Client) List(ctx context.Context, limit int) ([]Post, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	url := fmt.Sprintf("%s/posts?_limit=%d", c.baseURL, limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Wrap(err, errors.ErrCodeTimeout, "posts request cancelled").WithDetail("url", url)
		}
		return nil, errors.Upstream(url, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Upstream(url, resp.StatusCode, nil)
	}

	var posts []Post
	if err := json.NewDecoder(resp.Body).Decode(&posts); err != nil {
		return nil, errors.Upstream(url, resp.StatusCode, fmt.Errorf("failed to decode posts: %w", err))
	}
	return posts, nil
}
