package request

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSegments(t *testing.T) {
	tests := []struct {
		path     string
		resource string
		n        int
		first    string
		second   string
	}{
		{"/", "", 0, "", ""},
		{"", "", 0, "", ""},
		{"/post", "post", 0, "", ""},
		{"/post/3", "post", 1, "3", ""},
		{"/post/3/upvote", "post", 2, "3", "upvote"},
		{"//comment//9/edit/", "comment", 2, "9", "edit"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			r := New("get", tt.path, nil, nil)
			require.Equal(t, "GET", r.Method())
			require.Equal(t, tt.resource, r.Resource())
			require.Equal(t, tt.n, r.NumSegments())
			require.Equal(t, tt.first, r.Segment(0))
			require.Equal(t, tt.second, r.Segment(1))
		})
	}
}

func TestParamsAreCopied(t *testing.T) {
	params := map[string]string{"title": "hello"}
	cookies := map[string]string{"sessionId": "abc"}
	r := New("POST", "/post", params, cookies)

	params["title"] = "changed"
	cookies["sessionId"] = "changed"

	require.Equal(t, "hello", r.Param("title"))
	require.True(t, r.HasParam("title"))
	require.False(t, r.HasParam("content"))
	v, ok := r.Cookie("sessionId")
	require.True(t, ok)
	require.Equal(t, "abc", v)
}
