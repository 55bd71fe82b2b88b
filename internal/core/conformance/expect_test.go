package conformance

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Octrafic/spoilercheck/internal/core/story"
	"github.com/Octrafic/spoilercheck/internal/core/tester"
)

func result(status int, body string) *story.Result {
	resp := &tester.Response{StatusCode: status, Body: []byte(body)}
	return &story.Result{Response: resp, Envelope: story.ParseResponse(resp.Body)}
}

func TestExpectStatus(t *testing.T) {
	assert.NoError(t, ExpectStatus(result(201, `{}`), http.StatusCreated))

	err := ExpectStatus(result(400, `{"msg":"bad"}`), http.StatusCreated)
	var expErr *ExpectationError
	require.True(t, errors.As(err, &expErr))
	assert.Equal(t, "201 Created", expErr.Expected)
	assert.Contains(t, expErr.Actual, "400 Bad Request")
	assert.Contains(t, expErr.Actual, `{"msg":"bad"}`)
}

func TestExpectBodyContains(t *testing.T) {
	assert.NoError(t, ExpectBodyContains(result(404, `{"msg":"No spoilers..."}`), "No spoilers..."))
	assert.Error(t, ExpectBodyContains(result(404, ``), "No spoilers..."))

	long := strings.Repeat("x", 500)
	err := ExpectBodyContains(result(200, long), "y")
	require.Error(t, err)
	assert.Less(t, len(err.Error()), 300, "long bodies are truncated")
}

func TestExpectMsg(t *testing.T) {
	assert.NoError(t, ExpectMsg(result(200, `{"msg":"Deleted successfully!"}`), "Deleted successfully!"))

	err := ExpectMsg(result(200, `[]`), "Deleted successfully!")
	assert.ErrorContains(t, err, "<absent>")

	err = ExpectMsg(result(200, `{"msg":"Deleted"}`), "Deleted successfully!")
	assert.ErrorContains(t, err, `expected "Deleted successfully!", got Deleted`)
}

func TestExpectStoryID(t *testing.T) {
	id, err := ExpectStoryID(result(201, `{"msg":"Successfully created!","storyId":"abc"}`))
	require.NoError(t, err)
	assert.Equal(t, "abc", id)

	for _, body := range []string{`{"msg":"x"}`, `{"storyId":""}`, `{"storyId":"  "}`, `not json`} {
		_, err := ExpectStoryID(result(201, body))
		assert.Error(t, err, body)
	}

	assert.NoError(t, ExpectNoStoryID(result(400, `{"msg":"bad"}`)))
	assert.Error(t, ExpectNoStoryID(result(400, `{"storyId":"abc"}`)))
}

func TestExpectNonEmptyArray(t *testing.T) {
	assert.NoError(t, ExpectNonEmptyArray(result(200, `[{"storyId":"a"}]`)))
	assert.Error(t, ExpectNonEmptyArray(result(200, `[]`)))
	assert.Error(t, ExpectNonEmptyArray(result(200, `{"msg":"x"}`)))
}

func TestAllReturnsFirstFailure(t *testing.T) {
	first := errors.New("first")
	assert.NoError(t, all(nil, nil))
	assert.Same(t, first, all(nil, first, errors.New("second")))
}
