package story

import (
	"github.com/tidwall/gjson"
)

// Credentials are the fixed login values for a run
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// StoryRequest is the payload of the create and edit endpoints.
// Title and Description must be non-empty for the server to accept it.
type StoryRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// APIResponse is the loose envelope the API answers with. Either field may be absent.
type APIResponse struct {
	Msg     *string `json:"msg,omitempty" yaml:"msg,omitempty"`
	StoryID *string `json:"storyId,omitempty" yaml:"storyId,omitempty"`
}

// MsgOr returns the message or def when absent
func (r APIResponse) MsgOr(def string) string {
	if r.Msg == nil {
		return def
	}
	return *r.Msg
}

// ID returns the story identifier or "" when absent
func (r APIResponse) ID() string {
	if r.StoryID == nil {
		return ""
	}
	return *r.StoryID
}

// ParseResponse reads the envelope out of a body. Bodies that are not JSON
// objects and fields of the wrong type yield an empty envelope.
func ParseResponse(body []byte) APIResponse {
	var out APIResponse
	if !gjson.ValidBytes(body) {
		return out
	}
	res := gjson.ParseBytes(body)
	if !res.IsObject() {
		return out
	}
	if msg := res.Get("msg"); msg.Type == gjson.String {
		s := msg.String()
		out.Msg = &s
	}
	// storyId is a string on the wire but tolerate numbers
	if id := res.Get("storyId"); id.Type == gjson.String || id.Type == gjson.Number {
		s := id.String()
		out.StoryID = &s
	}
	return out
}
