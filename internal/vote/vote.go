// Package vote implements the per-(user, entity) vote state machine and the
// bookmark toggle for posts and comments.
//
// Direction moves None -> Up|Down, Up <-> Down and Up|Down -> None. Voting the
// current direction again, or unvoting with no vote, is rejected. Bookmarks are
// binary. Every transition reads and writes inside one transaction while holding
// a lock keyed by (kind, entity, user), so concurrent duplicate submissions from
// one process cannot both take the "first vote" path. The composite primary key
// on the votes and bookmarks tables rejects the same race across processes.
package vote

import (
	"errors"

	"forum/internal/models"
)

type Action string

const (
	UpVote     Action = "upvote"
	DownVote   Action = "downvote"
	Unvote     Action = "unvote"
	Bookmark   Action = "bookmark"
	Unbookmark Action = "unbookmark"
)

// ParseAction maps a path segment to an Action.
func ParseAction(s string) (Action, bool) {
	switch a := Action(s); a {
	case UpVote, DownVote, Unvote, Bookmark, Unbookmark:
		return a, true
	}
	return "", false
}

func (a Action) IsBookmark() bool { return a == Bookmark || a == Unbookmark }

// Verb is the action as used in "Cannot <verb> Post: ...".
func (a Action) Verb() string {
	switch a {
	case UpVote:
		return "up vote"
	case DownVote:
		return "down vote"
	default:
		return string(a)
	}
}

// Past is the action as used in "Post was <past> successfully!".
func (a Action) Past() string {
	switch a {
	case UpVote:
		return "up voted"
	case DownVote:
		return "down voted"
	default:
		return string(a) + "ed"
	}
}

var (
	ErrAlreadyUp       = errors.New("already up voted")
	ErrAlreadyDown     = errors.New("already down voted")
	ErrNotVoted        = errors.New("not voted")
	ErrAlreadyBookmark = errors.New("already bookmarked")
	ErrNotBookmarked   = errors.New("not bookmarked")
)

// Next returns the direction that results from applying a vote action to current.
func Next(current models.Direction, a Action) (models.Direction, error) {
	switch a {
	case UpVote:
		if current == models.Up {
			return current, ErrAlreadyUp
		}
		return models.Up, nil
	case DownVote:
		if current == models.Down {
			return current, ErrAlreadyDown
		}
		return models.Down, nil
	case Unvote:
		if current == models.None {
			return current, ErrNotVoted
		}
		return models.None, nil
	}
	return current, errors.New("vote: not a vote action: " + string(a))
}

// Toggle returns the bookmark state that results from applying a bookmark action.
func Toggle(bookmarked bool, a Action) (bool, error) {
	switch a {
	case Bookmark:
		if bookmarked {
			return true, ErrAlreadyBookmark
		}
		return true, nil
	case Unbookmark:
		if !bookmarked {
			return false, ErrNotBookmarked
		}
		return false, nil
	}
	return bookmarked, errors.New("vote: not a bookmark action: " + string(a))
}
