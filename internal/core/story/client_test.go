package story

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Octrafic/spoilercheck/internal/core/auth"
	"github.com/Octrafic/spoilercheck/internal/fakeapi"
)

func newTestClient(t *testing.T) (*fakeapi.Server, *Client) {
	t.Helper()
	fake := fakeapi.New(fakeapi.DefaultOptions())
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)
	return fake, NewClient(server.URL, 5*time.Second)
}

func TestClientLifecycle(t *testing.T) {
	ctx := context.Background()
	fake, client := newTestClient(t)

	session, err := client.Authenticate(ctx, Credentials{Username: "Angel123", Password: "123456"})
	require.NoError(t, err)
	require.NotEmpty(t, session.Token)
	client = client.WithSession(session)

	created, err := client.CreateStory(ctx, StoryRequest{Title: "Test Story", Description: "desc"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, created.StatusCode)
	assert.Equal(t, "Successfully created!", created.Envelope.MsgOr(""))
	id := created.Envelope.ID()
	require.NotEmpty(t, id)

	edited, err := client.EditStory(ctx, id, StoryRequest{Title: "Edited Story", Description: "desc 2"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, edited.StatusCode)
	stored, ok := fake.Get(id)
	require.True(t, ok)
	assert.Equal(t, "Edited Story", stored.Title)

	list, err := client.ListStories(ctx)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, list.StatusCode)
	stories := Stories(list.Body)
	require.Len(t, stories, 1)
	assert.Equal(t, id, stories[0].Get("storyId").String())

	deleted, err := client.DeleteStory(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, deleted.StatusCode)
	assert.Equal(t, "Deleted successfully!", deleted.Envelope.MsgOr(""))
	assert.Zero(t, fake.Len())
}

func TestClientWithoutSessionIsUnauthorized(t *testing.T) {
	_, client := newTestClient(t)

	res, err := client.ListStories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestAuthenticateErrors(t *testing.T) {
	_, client := newTestClient(t)

	_, err := client.Authenticate(context.Background(), Credentials{Username: "nobody", Password: "x"})
	assert.ErrorIs(t, err, auth.ErrAuthenticationFailed)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"username":"Angel123"}`))
	}))
	defer server.Close()

	_, err = NewClient(server.URL, time.Second).Authenticate(context.Background(), Credentials{Username: "Angel123", Password: "123456"})
	assert.ErrorIs(t, err, auth.ErrMissingAccessToken)

	server.Close()
	_, err = NewClient(server.URL, time.Second).Authenticate(context.Background(), Credentials{Username: "Angel123", Password: "123456"})
	assert.ErrorIs(t, err, auth.ErrAuthenticationFailed)
}

func TestEditSendsStoryIDQuery(t *testing.T) {
	var gotPath, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("storyId")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"msg":"No spoilers..."}`))
	}))
	defer server.Close()

	res, err := NewClient(server.URL, time.Second).EditStory(context.Background(), "123", StoryRequest{Title: "t", Description: "d"})
	require.NoError(t, err)
	assert.Equal(t, "/api/Story/Edit/123", gotPath)
	assert.Equal(t, "123", gotQuery)
	assert.Equal(t, "No spoilers...", res.Envelope.MsgOr(""))
}
