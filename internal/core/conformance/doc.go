// Package conformance runs ordered scenarios against the Story Spoiler API.
//
// A run authenticates once with Start, which returns a Fixture holding the
// authenticated client and the story identifier slot. A Pipeline then runs
// its scenarios strictly in declared order against that Fixture:
//
//	fixture, err := conformance.Start(ctx, client, creds)
//	if err != nil {
//	    return err // no scenario runs without a session
//	}
//	results := conformance.NewPipeline(conformance.DefaultSuite()...).Run(ctx, fixture)
//
// A failing scenario never stops the pipeline. Scenarios that need the
// identifier written by the create scenario fail with ErrNoStoryID when it
// is missing instead of being skipped.
package conformance
