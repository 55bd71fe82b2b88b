package conformance

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/Octrafic/spoilercheck/internal/core/story"
)

const excerptLimit = 200

// ExpectationError describes an observed response that diverges from the contract
type ExpectationError struct {
	Check    string
	Expected string
	Actual   string
}

func (e *ExpectationError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", e.Check, e.Expected, e.Actual)
}

// ExpectStatus checks the HTTP status code
func ExpectStatus(res *story.Result, want int) error {
	if res.StatusCode == want {
		return nil
	}
	return &ExpectationError{
		Check:    "status",
		Expected: statusText(want),
		Actual:   fmt.Sprintf("%s (body: %s)", statusText(res.StatusCode), excerpt(res.BodyString())),
	}
}

// ExpectBodyContains checks the raw body for a substring
func ExpectBodyContains(res *story.Result, substr string) error {
	body := res.BodyString()
	if strings.Contains(body, substr) {
		return nil
	}
	return &ExpectationError{
		Check:    "body",
		Expected: fmt.Sprintf("to contain %q", substr),
		Actual:   fmt.Sprintf("%q", excerpt(body)),
	}
}

// ExpectMsg checks the envelope's msg field for an exact value
func ExpectMsg(res *story.Result, want string) error {
	if res.Envelope.Msg != nil && *res.Envelope.Msg == want {
		return nil
	}
	return &ExpectationError{
		Check:    "msg",
		Expected: fmt.Sprintf("%q", want),
		Actual:   res.Envelope.MsgOr("<absent>"),
	}
}

// ExpectStoryID checks that the envelope carries a non-empty identifier
func ExpectStoryID(res *story.Result) (string, error) {
	id := strings.TrimSpace(res.Envelope.ID())
	if id != "" {
		return id, nil
	}
	return "", &ExpectationError{
		Check:    "storyId",
		Expected: "a non-empty identifier",
		Actual:   fmt.Sprintf("%q", excerpt(res.BodyString())),
	}
}

// ExpectNoStoryID checks that a rejected request yielded no usable identifier
func ExpectNoStoryID(res *story.Result) error {
	if id := res.Envelope.ID(); id != "" {
		return &ExpectationError{
			Check:    "storyId",
			Expected: "no identifier",
			Actual:   fmt.Sprintf("%q", id),
		}
	}
	return nil
}

// ExpectNonEmptyArray checks that the body is a JSON array with at least one element
func ExpectNonEmptyArray(res *story.Result) error {
	if len(story.Stories(res.Body)) > 0 {
		return nil
	}
	return &ExpectationError{
		Check:    "list",
		Expected: "a non-empty JSON array",
		Actual:   fmt.Sprintf("%q", excerpt(res.BodyString())),
	}
}

// all returns the first failing expectation
func all(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func statusText(code int) string {
	return fmt.Sprintf("%d %s", code, http.StatusText(code))
}

func excerpt(s string) string {
	if len(s) > excerptLimit {
		return s[:excerptLimit] + "..."
	}
	return s
}
