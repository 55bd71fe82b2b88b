package tester

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Octrafic/spoilercheck/internal/core/auth"
	"github.com/Octrafic/spoilercheck/internal/infra/logger"
)

// Response is a fully read HTTP response
type Response struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte
	Duration   time.Duration
}

// BodyString returns the body as text
func (r *Response) BodyString() string {
	return string(r.Body)
}

// Request describes one call against the API
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
}

type Executor struct {
	baseURL      string
	client       *http.Client
	authProvider auth.AuthProvider
}

func NewExecutor(baseURL string, timeout time.Duration, authProvider auth.AuthProvider) *Executor {
	if authProvider == nil {
		authProvider = &auth.NoAuth{}
	}
	return &Executor{
		baseURL:      strings.TrimRight(baseURL, "/"),
		authProvider: authProvider,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// WithAuth returns an executor sharing the same client with a different auth provider
func (e *Executor) WithAuth(authProvider auth.AuthProvider) *Executor {
	return &Executor{
		baseURL:      e.baseURL,
		client:       e.client,
		authProvider: authProvider,
	}
}

// BaseURL returns the API root the executor talks to
func (e *Executor) BaseURL() string {
	return e.baseURL
}

// Do sends the request and reads the whole response. Non-2xx statuses are
// not errors; only transport and encoding failures are.
func (e *Executor) Do(ctx context.Context, r Request) (*Response, error) {
	fullURL := e.baseURL + r.Path
	if !strings.HasPrefix(fullURL, "http://") && !strings.HasPrefix(fullURL, "https://") {
		fullURL = "http://" + fullURL
	}
	if len(r.Query) > 0 {
		fullURL += "?" + r.Query.Encode()
	}

	var reqBody io.Reader
	if r.Body != nil {
		jsonBody, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal body: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, fullURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if r.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if err := e.authProvider.Apply(req); err != nil {
		return nil, fmt.Errorf("failed to apply auth: %w", err)
	}

	startTime := time.Now()
	resp, err := e.client.Do(req)
	duration := time.Since(startTime)
	if err != nil {
		logger.Warn("Request failed",
			logger.String("method", r.Method),
			logger.String("url", fullURL),
			logger.Err(err))
		return nil, fmt.Errorf("%s %s: request failed: %w", r.Method, r.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: failed to read response: %w", r.Method, r.Path, err)
	}

	logger.Debug("Request completed",
		logger.String("method", r.Method),
		logger.String("url", fullURL),
		logger.Int("status", resp.StatusCode),
		logger.Duration("duration", duration))

	return &Response{
		Method:     r.Method,
		URL:        fullURL,
		StatusCode: resp.StatusCode,
		Body:       respBody,
		Duration:   duration,
	}, nil
}
