package models

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"forum/internal/db"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func seedPost(t *testing.T, database *sql.DB) (*User, *Post) {
	t.Helper()
	ctx := context.Background()
	u, err := CreateUser(ctx, database, "alice", "alice@example.com", "hash")
	require.NoError(t, err)
	c, err := CreateCategory(ctx, database, u.ID, "Go", "gophers")
	require.NoError(t, err)
	p, err := CreatePost(ctx, database, u.ID, c.ID, "hello", PostText, "world")
	require.NoError(t, err)
	return u, p
}

func TestCreateUserDuplicates(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	_, err := CreateUser(ctx, database, "alice", "alice@example.com", "hash")
	require.NoError(t, err)

	_, err = CreateUser(ctx, database, "alice", "other@example.com", "hash")
	require.ErrorIs(t, err, ErrDuplicateUsername)

	_, err = CreateUser(ctx, database, "bob", "alice@example.com", "hash")
	require.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestGetUserNotFound(t *testing.T) {
	database := newTestDB(t)
	_, err := GetUser(context.Background(), database, 42)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateAndDeleteUser(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()
	u, err := CreateUser(ctx, database, "alice", "alice@example.com", "hash")
	require.NoError(t, err)

	avatar := "https://example.com/a.png"
	updated, err := UpdateUser(ctx, database, u.ID, UserUpdate{Avatar: &avatar})
	require.NoError(t, err)
	require.Equal(t, avatar, updated.Avatar)
	require.Equal(t, "alice", updated.Username)
	require.NotNil(t, updated.EditedAt)

	deleted, err := DeleteUser(ctx, database, u.ID)
	require.NoError(t, err)
	require.True(t, deleted.IsDeleted())
}

func TestCategoryTitleUnique(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()
	u, err := CreateUser(ctx, database, "alice", "alice@example.com", "hash")
	require.NoError(t, err)

	_, err = CreateCategory(ctx, database, u.ID, "Go", "")
	require.NoError(t, err)
	_, err = CreateCategory(ctx, database, u.ID, "Go", "again")
	require.ErrorIs(t, err, ErrDuplicateTitle)
}

func TestVoteRowsAndCounts(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()
	u, p := seedPost(t, database)

	d, err := GetVote(ctx, database, KindPost, p.ID, u.ID)
	require.NoError(t, err)
	require.Equal(t, None, d)

	require.NoError(t, InsertVote(ctx, database, KindPost, p.ID, u.ID, Up))
	require.ErrorIs(t, InsertVote(ctx, database, KindPost, p.ID, u.ID, Down), ErrDuplicateRow)

	up, down, err := CountVotes(ctx, database, KindPost, p.ID)
	require.NoError(t, err)
	require.Equal(t, 1, up)
	require.Equal(t, 0, down)

	require.NoError(t, UpdateVote(ctx, database, KindPost, p.ID, u.ID, Down))
	got, err := GetPost(ctx, database, p.ID)
	require.NoError(t, err)
	require.Equal(t, 0, got.Upvotes)
	require.Equal(t, 1, got.Downvotes)

	voted, err := ListUserPostVotes(ctx, database, u.ID)
	require.NoError(t, err)
	require.Len(t, voted, 1)
	require.Equal(t, Down, voted[0].Direction)

	require.NoError(t, DeleteVote(ctx, database, KindPost, p.ID, u.ID))
	require.ErrorIs(t, DeleteVote(ctx, database, KindPost, p.ID, u.ID), ErrNotFound)
}

func TestBookmarkRows(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()
	u, p := seedPost(t, database)

	c, err := CreateComment(ctx, database, p.ID, u.ID, nil, "first")
	require.NoError(t, err)

	require.NoError(t, InsertBookmark(ctx, database, KindComment, c.ID, u.ID))
	ok, err := HasBookmark(ctx, database, KindComment, c.ID, u.ID)
	require.NoError(t, err)
	require.True(t, ok)

	comments, err := ListUserCommentBookmarks(ctx, database, u.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	require.Equal(t, "first", comments[0].Content)

	posts, err := ListUserPostBookmarks(ctx, database, u.ID)
	require.NoError(t, err)
	require.Empty(t, posts)

	require.NoError(t, DeleteBookmark(ctx, database, KindComment, c.ID, u.ID))
	require.ErrorIs(t, DeleteBookmark(ctx, database, KindComment, c.ID, u.ID), ErrNotFound)
}

func TestCommentReplies(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()
	u, p := seedPost(t, database)

	parent, err := CreateComment(ctx, database, p.ID, u.ID, nil, "parent")
	require.NoError(t, err)
	reply, err := CreateComment(ctx, database, p.ID, u.ID, &parent.ID, "child")
	require.NoError(t, err)
	require.NotNil(t, reply.ReplyID)
	require.Equal(t, parent.ID, *reply.ReplyID)

	comments, err := ListPostComments(ctx, database, p.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
}
