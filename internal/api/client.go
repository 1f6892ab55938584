// Package api fetches users, posts and comments from a JSONPlaceholder-style
// REST API.
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/leapstack-labs/leapdash/pkg/core"
)

// DefaultBaseURL is the public API the dashboard reads from.
const DefaultBaseURL = "https://jsonplaceholder.typicode.com"

// DefaultTimeout bounds a single request.
const DefaultTimeout = 10 * time.Second

// ErrNotFound is returned when the API answers 404.
var ErrNotFound = errors.New("not found")

// StatusError reports a non-2xx response.
type StatusError struct {
	Code int
	Path string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: HTTP %d %s", e.Path, e.Code, http.StatusText(e.Code))
}

// Is makes errors.Is(err, ErrNotFound) true for 404 responses.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.Code == http.StatusNotFound
}

// Config holds client settings.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client performs GET requests against the API.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// New creates a client. An empty base URL selects DefaultBaseURL.
func New(cfg Config) (*Client, error) {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", base, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", base)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Client{
		baseURL: strings.TrimRight(base, "/"),
		http:    httpClient,
		logger:  logger,
	}, nil
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Users fetches every user.
func (c *Client) Users(ctx context.Context) ([]core.User, error) {
	return Fetch[core.User](ctx, c, core.UsersKey())
}

// User fetches one user.
func (c *Client) User(ctx context.Context, id int) (core.User, error) {
	var u core.User
	err := c.get(ctx, core.EntityPath(core.EntityUsers, id), &u)
	return u, err
}

// Posts fetches every post.
func (c *Client) Posts(ctx context.Context) ([]core.Post, error) {
	return Fetch[core.Post](ctx, c, core.PostsKey())
}

// Post fetches one post.
func (c *Client) Post(ctx context.Context, id int) (core.Post, error) {
	var p core.Post
	err := c.get(ctx, core.EntityPath(core.EntityPosts, id), &p)
	return p, err
}

// UserPosts fetches the posts written by one user.
func (c *Client) UserPosts(ctx context.Context, userID int) ([]core.Post, error) {
	return Fetch[core.Post](ctx, c, core.UserPostsKey(userID))
}

// PostComments fetches the comments of one post.
func (c *Client) PostComments(ctx context.Context, postID int) ([]core.Comment, error) {
	return Fetch[core.Comment](ctx, c, core.PostCommentsKey(postID))
}

// Fetch retrieves the collection identified by key and decodes it as []R.
func Fetch[R any](ctx context.Context, c *Client, key core.QueryKey) ([]R, error) {
	var out []R
	if err := c.get(ctx, key.Path(), &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []R{}
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, dst any) error {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request for %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "leapdash/1.0 (+https://github.com/leapstack-labs/leapdash)")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("api request",
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &StatusError{Code: resp.StatusCode, Path: path}
	}

	if err := json.NewDecoder(resp.Body).DecodeContext(ctx, dst); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
