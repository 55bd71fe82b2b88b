// Package story is a typed client for the Story Spoiler REST API.
package story

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"

	"github.com/Octrafic/spoilercheck/internal/core/auth"
	"github.com/Octrafic/spoilercheck/internal/core/tester"
	"github.com/Octrafic/spoilercheck/internal/infra/logger"
)

const (
	AuthenticationPath = "/api/User/Authentication"
	CreatePath         = "/api/Story/Create"
	EditPath           = "/api/Story/Edit/"
	AllPath            = "/api/Story/All"
	DeletePath         = "/api/Story/Delete/"
)

// Result is a raw response with its envelope already parsed
type Result struct {
	*tester.Response
	Envelope APIResponse
}

func newResult(resp *tester.Response) *Result {
	return &Result{Response: resp, Envelope: ParseResponse(resp.Body)}
}

// Client issues Story Spoiler calls through an executor
type Client struct {
	exec *tester.Executor
}

// NewClient creates an unauthenticated client
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{exec: tester.NewExecutor(baseURL, timeout, &auth.NoAuth{})}
}

// NewClientWithExecutor wraps an existing executor
func NewClientWithExecutor(exec *tester.Executor) *Client {
	return &Client{exec: exec}
}

// BaseURL returns the API root
func (c *Client) BaseURL() string {
	return c.exec.BaseURL()
}

// Authenticate logs in and returns the session. Any status other than 200
// and any response without an access token is an error.
func (c *Client) Authenticate(ctx context.Context, creds Credentials) (*auth.Session, error) {
	resp, err := c.exec.Do(ctx, tester.Request{
		Method: http.MethodPost,
		Path:   AuthenticationPath,
		Body:   creds,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", auth.ErrAuthenticationFailed, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", auth.ErrAuthenticationFailed, resp.StatusCode, excerpt(resp.Body))
	}

	token, err := auth.ParseAccessToken(resp.Body)
	if err != nil {
		return nil, err
	}

	session := auth.NewSession(token)
	logger.Info("Authenticated",
		logger.String("user", creds.Username),
		logger.String("token", auth.RedactString(token)),
		logger.String("subject", session.Subject))
	if session.Expired(time.Now()) {
		logger.Warn("Session token is already expired", logger.String("expires_at", session.ExpiresAt.String()))
	}
	return session, nil
}

// WithSession returns a client that sends the session token on every request
func (c *Client) WithSession(session auth.AuthProvider) *Client {
	return &Client{exec: c.exec.WithAuth(session)}
}

// CreateStory posts a new story. payload is usually a StoryRequest but any
// JSON-encodable value is accepted so malformed bodies can be sent.
func (c *Client) CreateStory(ctx context.Context, payload any) (*Result, error) {
	resp, err := c.exec.Do(ctx, tester.Request{
		Method: http.MethodPost,
		Path:   CreatePath,
		Body:   payload,
	})
	if err != nil {
		return nil, err
	}
	return newResult(resp), nil
}

// EditStory replaces the story with the given id
func (c *Client) EditStory(ctx context.Context, id string, payload StoryRequest) (*Result, error) {
	resp, err := c.exec.Do(ctx, tester.Request{
		Method: http.MethodPut,
		Path:   EditPath + url.PathEscape(id),
		Query:  url.Values{"storyId": {id}},
		Body:   payload,
	})
	if err != nil {
		return nil, err
	}
	return newResult(resp), nil
}

// ListStories fetches all stories
func (c *Client) ListStories(ctx context.Context) (*Result, error) {
	resp, err := c.exec.Do(ctx, tester.Request{
		Method: http.MethodGet,
		Path:   AllPath,
	})
	if err != nil {
		return nil, err
	}
	return newResult(resp), nil
}

// DeleteStory removes the story with the given id
func (c *Client) DeleteStory(ctx context.Context, id string) (*Result, error) {
	resp, err := c.exec.Do(ctx, tester.Request{
		Method: http.MethodDelete,
		Path:   DeletePath + url.PathEscape(id),
		Query:  url.Values{"storyId": {id}},
	})
	if err != nil {
		return nil, err
	}
	return newResult(resp), nil
}

// Stories returns the records of a list response, or nil if the body is not a JSON array
func Stories(body []byte) []gjson.Result {
	if !gjson.ValidBytes(body) {
		return nil
	}
	res := gjson.ParseBytes(body)
	if !res.IsArray() {
		return nil
	}
	return res.Array()
}

func excerpt(body []byte) string {
	const limit = 200
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}
