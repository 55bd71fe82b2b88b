package conformance

import (
	"context"
	"net/http"

	"github.com/Octrafic/spoilercheck/internal/core/story"
)

// NonExistingStoryID is an identifier the service never assigns
const NonExistingStoryID = "123"

const (
	msgCreated      = "Successfully created!"
	msgEdited       = "Successfully edited"
	msgDeleted      = "Deleted successfully!"
	msgNoSpoilers   = "No spoilers..."
	msgUnableDelete = "Unable to delete this story spoiler!"
)

var (
	createRequest = story.StoryRequest{
		Title:       "Test Story",
		Description: "This is a test story description.",
		URL:         "",
	}
	editRequest = story.StoryRequest{
		Title:       "Edited Story",
		Description: "This is an edited story description.",
		URL:         "",
	}
	editMissingRequest = story.StoryRequest{
		Title:       "Edited Non-Existing-Story",
		Description: "This is updated test story description for a non-existing story.",
		URL:         "",
	}
)

// DefaultSuite returns the scenarios in the order they must run. The
// first four share the identifier produced by the create scenario.
func DefaultSuite() []Scenario {
	return []Scenario{
		{
			Name:        "CreateStory_WithRequiredFields",
			Description: "create returns 201, a success message and a story id",
			Run:         createStory,
		},
		{
			Name:        "EditStory_ExistingStory",
			Description: "edit of the created story returns 200",
			Run:         editStory,
		},
		{
			Name:        "ListStories_ReturnsNonEmpty",
			Description: "list returns 200 and at least one story",
			Run:         listStories,
		},
		{
			Name:        "DeleteStory_ExistingStory",
			Description: "delete of the created story returns 200",
			Run:         deleteStory,
		},
		{
			Name:        "DeleteStory_AlreadyDeleted",
			Description: "a second delete of the same story returns 400",
			Run:         deleteStoryAgain,
		},
		{
			Name:        "CreateStory_WithoutRequiredFields",
			Description: "create with empty title and description returns 400",
			Run:         createStoryInvalid,
		},
		{
			Name:        "EditStory_NonExistingStory",
			Description: "edit of an unknown id returns 404",
			Run:         editMissingStory,
		},
		{
			Name:        "DeleteStory_NonExistingStory",
			Description: "delete of an unknown id returns 400",
			Run:         deleteMissingStory,
		},
	}
}

func createStory(ctx context.Context, f *Fixture) error {
	res, err := f.Client.CreateStory(ctx, createRequest)
	if err != nil {
		return err
	}
	f.Observe(res)

	if err := all(ExpectStatus(res, http.StatusCreated), ExpectMsg(res, msgCreated)); err != nil {
		return err
	}
	id, err := ExpectStoryID(res)
	if err != nil {
		return err
	}
	f.SetStoryID(id)
	return nil
}

func editStory(ctx context.Context, f *Fixture) error {
	id, err := f.RequireStoryID()
	if err != nil {
		return err
	}
	res, err := f.Client.EditStory(ctx, id, editRequest)
	if err != nil {
		return err
	}
	f.Observe(res)
	return all(ExpectStatus(res, http.StatusOK), ExpectBodyContains(res, msgEdited))
}

func listStories(ctx context.Context, f *Fixture) error {
	res, err := f.Client.ListStories(ctx)
	if err != nil {
		return err
	}
	f.Observe(res)
	return all(ExpectStatus(res, http.StatusOK), ExpectNonEmptyArray(res))
}

func deleteStory(ctx context.Context, f *Fixture) error {
	id, err := f.RequireStoryID()
	if err != nil {
		return err
	}
	res, err := f.Client.DeleteStory(ctx, id)
	if err != nil {
		return err
	}
	f.Observe(res)
	return all(ExpectStatus(res, http.StatusOK), ExpectMsg(res, msgDeleted))
}

func deleteStoryAgain(ctx context.Context, f *Fixture) error {
	id, err := f.RequireStoryID()
	if err != nil {
		return err
	}
	res, err := f.Client.DeleteStory(ctx, id)
	if err != nil {
		return err
	}
	f.Observe(res)
	return all(ExpectStatus(res, http.StatusBadRequest), ExpectBodyContains(res, msgUnableDelete))
}

func createStoryInvalid(ctx context.Context, f *Fixture) error {
	res, err := f.Client.CreateStory(ctx, map[string]string{"title": "", "description": ""})
	if err != nil {
		return err
	}
	f.Observe(res)
	return all(ExpectStatus(res, http.StatusBadRequest), ExpectNoStoryID(res))
}

func editMissingStory(ctx context.Context, f *Fixture) error {
	res, err := f.Client.EditStory(ctx, NonExistingStoryID, editMissingRequest)
	if err != nil {
		return err
	}
	f.Observe(res)
	return all(ExpectStatus(res, http.StatusNotFound), ExpectBodyContains(res, msgNoSpoilers))
}

func deleteMissingStory(ctx context.Context, f *Fixture) error {
	res, err := f.Client.DeleteStory(ctx, NonExistingStoryID)
	if err != nil {
		return err
	}
	f.Observe(res)
	return all(ExpectStatus(res, http.StatusBadRequest), ExpectBodyContains(res, msgUnableDelete))
}
