package controller

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"forum/internal/apperr"
	"forum/internal/request"
)

func TestResolveAction(t *testing.T) {
	cases := []struct {
		method, path string
		want         action
		err          bool
	}{
		{http.MethodGet, "/post", action{kind: actList}, false},
		{http.MethodPost, "/post", action{kind: actCreate}, false},
		{http.MethodGet, "/post/3", action{kind: actRetrieve, id: "3"}, false},
		{http.MethodPut, "/post/3", action{kind: actUpdate, id: "3"}, false},
		{http.MethodDelete, "/post/3", action{kind: actDelete, id: "3"}, false},
		{http.MethodGet, "/post/3/edit", action{kind: actEditForm, id: "3"}, false},
		{http.MethodGet, "/post/3/upvote", action{kind: actSub, id: "3", sub: "upvote"}, false},
		{http.MethodPut, "/post", action{}, true},
		{http.MethodPost, "/post/3", action{}, true},
		{http.MethodPut, "/post/3/edit", action{}, true},
		{http.MethodGet, "/post/3/upvote/again", action{}, true},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			got, err := resolveAction(request.New(tc.method, tc.path, nil, nil), voteSubs...)
			if tc.err {
				require.Equal(t, apperr.KindMethodNotAllowed, apperr.KindOf(err))
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestParamValidation(t *testing.T) {
	req := func(params map[string]string) *request.Request {
		return request.New(http.MethodPost, "/x", params, nil)
	}

	err := parseCreatePost(req(map[string]string{"title": "t", "type": "Video", "content": "c", "categoryId": "1"})).validate()
	require.EqualError(t, err, "Cannot create Post: Type must be Text or URL.")

	err = parseCreatePost(req(map[string]string{"title": "t", "type": "Text", "content": "c", "categoryId": "1"})).validate()
	require.NoError(t, err)

	err = parseUpdateUser(req(nil)).validate()
	require.EqualError(t, err, "Cannot update User: No update parameters were provided.")

	err = parseUpdateCategory(req(map[string]string{"title": "  "})).validate()
	require.EqualError(t, err, "Cannot update Category: Missing title.")

	err = parseUpdateContent(req(map[string]string{"content": ""})).validate("Comment")
	require.EqualError(t, err, "Cannot update Comment: Missing content.")

	err = parseLogin(req(map[string]string{"email": "a@b.c"})).validate()
	require.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
}

func TestRequireOwner(t *testing.T) {
	require.NoError(t, requireOwner(1, 1, "update", "Post"))
	err := requireOwner(1, 2, "update", "Post")
	require.EqualError(t, err, "Cannot update Post: You cannot update a post created by someone else.")
	require.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}

func TestParseID(t *testing.T) {
	for raw, want := range map[string]bool{"1": true, "42": true, "0": false, "-3": false, "x": false, "": false} {
		_, ok := parseID(raw)
		require.Equal(t, want, ok, raw)
	}
}
