package story

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
		wantID  string
	}{
		{"created", `{"msg":"Successfully created!","storyId":"a1"}`, "Successfully created!", "a1"},
		{"msg only", `{"msg":"Deleted successfully!"}`, "Deleted successfully!", ""},
		{"numeric id", `{"storyId":17}`, "<none>", "17"},
		{"null fields", `{"msg":null,"storyId":null}`, "<none>", ""},
		{"array", `[{"msg":"x"}]`, "<none>", ""},
		{"not json", `Bad Gateway`, "<none>", ""},
		{"empty", ``, "<none>", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseResponse([]byte(tt.body))
			assert.Equal(t, tt.wantMsg, got.MsgOr("<none>"))
			assert.Equal(t, tt.wantID, got.ID())
		})
	}
}

func TestStories(t *testing.T) {
	assert.Len(t, Stories([]byte(`[{"title":"a"},{"title":"b"}]`)), 2)
	assert.Empty(t, Stories([]byte(`[]`)))
	assert.Nil(t, Stories([]byte(`{"msg":"x"}`)))
	assert.Nil(t, Stories([]byte(`nope`)))
}
