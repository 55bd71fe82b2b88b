package conformance

import (
	"context"
	"errors"
	"fmt"

	"github.com/Octrafic/spoilercheck/internal/core/auth"
	"github.com/Octrafic/spoilercheck/internal/core/story"
	"github.com/Octrafic/spoilercheck/internal/infra/logger"
)

// ErrNoStoryID is returned by scenarios that depend on an identifier the
// create scenario did not produce.
var ErrNoStoryID = errors.New("no story identifier: create scenario did not produce one")

// Fixture is the state shared by the scenarios of one run
type Fixture struct {
	Client  *story.Client
	Session *auth.Session

	// StoryID is written by the create scenario and read by edit and delete
	StoryID string

	last *story.Result
}

// Start authenticates and returns a fixture ready for a pipeline
func Start(ctx context.Context, client *story.Client, creds story.Credentials) (*Fixture, error) {
	session, err := client.Authenticate(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("authenticate %s: %w", creds.Username, err)
	}
	return &Fixture{
		Client:  client.WithSession(session),
		Session: session,
	}, nil
}

// RequireStoryID returns the stored identifier or ErrNoStoryID
func (f *Fixture) RequireStoryID() (string, error) {
	if f.StoryID == "" {
		return "", ErrNoStoryID
	}
	return f.StoryID, nil
}

// SetStoryID stores the identifier of a freshly created story
func (f *Fixture) SetStoryID(id string) {
	logger.Debug("Stored story identifier", logger.String("story_id", id))
	f.StoryID = id
}

// Observe records the response a scenario asserted on, for the report
func (f *Fixture) Observe(res *story.Result) *story.Result {
	f.last = res
	return res
}

func (f *Fixture) takeLast() *story.Result {
	res := f.last
	f.last = nil
	return res
}
