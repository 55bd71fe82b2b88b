package tester

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Octrafic/spoilercheck/internal/core/auth"
)

func TestExecutorDo(t *testing.T) {
	var gotMethod, gotPath, gotQuery, gotAuth, gotContentType string
	var gotBody map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("storyId")
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"msg":"ok"}`))
	}))
	defer server.Close()

	exec := NewExecutor(server.URL+"/", 5*time.Second, auth.NewSession("tkn"))
	resp, err := exec.Do(context.Background(), Request{
		Method: http.MethodPut,
		Path:   "/api/Story/Edit/42",
		Query:  url.Values{"storyId": {"42"}},
		Body:   map[string]string{"title": "t"},
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, `{"msg":"ok"}`, resp.BodyString())
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/api/Story/Edit/42", gotPath)
	assert.Equal(t, "42", gotQuery)
	assert.Equal(t, "Bearer tkn", gotAuth)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "t", gotBody["title"])
}

func TestExecutorNonSuccessIsNotError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer server.Close()

	resp, err := NewExecutor(server.URL, time.Second, nil).Do(context.Background(), Request{
		Method: http.MethodGet,
		Path:   "/missing",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestExecutorWithAuthSharesClient(t *testing.T) {
	base := NewExecutor("http://example.com", time.Second, nil)
	authed := base.WithAuth(auth.NewSession("x"))

	assert.Same(t, base.client, authed.client)
	assert.Equal(t, base.BaseURL(), authed.BaseURL())
	assert.IsType(t, &auth.NoAuth{}, base.authProvider)
}

func TestExecutorTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	_, err := NewExecutor(server.URL, time.Second, nil).Do(context.Background(), Request{
		Method: http.MethodGet,
		Path:   "/api/Story/All",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request failed")
}

func TestExecutorCancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewExecutor(server.URL, time.Second, nil).Do(ctx, Request{Method: http.MethodGet, Path: "/"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestExecutorRefusesEmptySession(t *testing.T) {
	exec := NewExecutor("http://example.com", time.Second, auth.NewSession(""))
	_, err := exec.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"})
	assert.ErrorContains(t, err, "failed to apply auth")
}
