package vote

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"forum/internal/apperr"
	"forum/internal/db"
	"forum/internal/models"
)

func TestNext(t *testing.T) {
	tests := []struct {
		name    string
		current models.Direction
		action  Action
		want    models.Direction
		wantErr error
	}{
		{"none to up", models.None, UpVote, models.Up, nil},
		{"none to down", models.None, DownVote, models.Down, nil},
		{"up to down", models.Up, DownVote, models.Down, nil},
		{"down to up", models.Down, UpVote, models.Up, nil},
		{"up to none", models.Up, Unvote, models.None, nil},
		{"down to none", models.Down, Unvote, models.None, nil},
		{"up twice", models.Up, UpVote, models.Up, ErrAlreadyUp},
		{"down twice", models.Down, DownVote, models.Down, ErrAlreadyDown},
		{"unvote without vote", models.None, Unvote, models.None, ErrNotVoted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Next(tt.current, tt.action)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestToggle(t *testing.T) {
	got, err := Toggle(false, Bookmark)
	require.NoError(t, err)
	require.True(t, got)

	_, err = Toggle(true, Bookmark)
	require.ErrorIs(t, err, ErrAlreadyBookmark)

	got, err = Toggle(true, Unbookmark)
	require.NoError(t, err)
	require.False(t, got)

	_, err = Toggle(false, Unbookmark)
	require.ErrorIs(t, err, ErrNotBookmarked)
}

func TestActionWording(t *testing.T) {
	require.Equal(t, "up vote", UpVote.Verb())
	require.Equal(t, "down voted", DownVote.Past())
	require.Equal(t, "unvoted", Unvote.Past())
	require.Equal(t, "bookmarked", Bookmark.Past())
	require.Equal(t, "unbookmarked", Unbookmark.Past())

	_, ok := ParseAction("edit")
	require.False(t, ok)
	a, ok := ParseAction("unbookmark")
	require.True(t, ok)
	require.Equal(t, Unbookmark, a)
}

type fixture struct {
	db     *sql.DB
	svc    *Service
	userID int
	postID int
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	database, err := db.Open(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	author, err := models.CreateUser(ctx, database, "alice", "alice@example.com", "hash")
	require.NoError(t, err)
	voter, err := models.CreateUser(ctx, database, "bob", "bob@example.com", "hash")
	require.NoError(t, err)
	cat, err := models.CreateCategory(ctx, database, author.ID, "Go", "")
	require.NoError(t, err)
	post, err := models.CreatePost(ctx, database, author.ID, cat.ID, "hello", models.PostText, "world")
	require.NoError(t, err)

	return fixture{db: database, svc: NewService(database), userID: voter.ID, postID: post.ID}
}

func (f fixture) counts(t *testing.T) (int, int) {
	t.Helper()
	up, down, err := models.CountVotes(context.Background(), f.db, models.KindPost, f.postID)
	require.NoError(t, err)
	return up, down
}

func TestServiceVoteFlip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Apply(ctx, models.KindPost, f.postID, f.userID, UpVote))
	up, down := f.counts(t)
	require.Equal(t, 1, up)
	require.Equal(t, 0, down)

	err := f.svc.Apply(ctx, models.KindPost, f.postID, f.userID, UpVote)
	require.Error(t, err)
	require.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
	require.Equal(t, "Cannot up vote Post: Post has already been up voted.", apperr.As(err).Message)

	require.NoError(t, f.svc.Apply(ctx, models.KindPost, f.postID, f.userID, DownVote))
	up, down = f.counts(t)
	require.Equal(t, 0, up)
	require.Equal(t, 1, down)

	require.NoError(t, f.svc.Apply(ctx, models.KindPost, f.postID, f.userID, Unvote))
	up, down = f.counts(t)
	require.Equal(t, 0, up)
	require.Equal(t, 0, down)
}

func TestServiceUnvoteWithoutVote(t *testing.T) {
	f := newFixture(t)
	err := f.svc.Apply(context.Background(), models.KindPost, f.postID, f.userID, Unvote)
	require.Equal(t, "Cannot unvote Post: Post must first be up or down voted.", apperr.As(err).Message)
}

func TestServiceBookmark(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Apply(ctx, models.KindPost, f.postID, f.userID, Bookmark))
	err := f.svc.Apply(ctx, models.KindPost, f.postID, f.userID, Bookmark)
	require.Equal(t, "Cannot bookmark Post: Post has already been bookmarked.", apperr.As(err).Message)

	require.NoError(t, f.svc.Apply(ctx, models.KindPost, f.postID, f.userID, Unbookmark))
	err = f.svc.Apply(ctx, models.KindPost, f.postID, f.userID, Unbookmark)
	require.Equal(t, "Cannot unbookmark Post: Post has not been bookmarked.", apperr.As(err).Message)
}

func TestServiceConcurrentDuplicateVotes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- f.svc.Apply(ctx, models.KindPost, f.postID, f.userID, UpVote)
		}()
	}
	wg.Wait()
	close(errs)

	var ok, rejected int
	for err := range errs {
		if err == nil {
			ok++
			continue
		}
		require.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
		rejected++
	}
	require.Equal(t, 1, ok)
	require.Equal(t, n-1, rejected)

	up, _ := f.counts(t)
	require.Equal(t, 1, up)
	require.Zero(t, f.svc.locks.len())
}
