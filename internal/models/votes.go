package models

import (
	"context"
	"errors"
)

// GetVote returns the user's current vote direction on the entity, or None.
func GetVote(ctx context.Context, q Querier, kind EntityKind, entityID, userID int) (Direction, error) {
	var d Direction
	err := q.QueryRowContext(ctx, `SELECT direction FROM votes WHERE user_id = ? AND entity_kind = ? AND entity_id = ?`,
		userID, string(kind), entityID).Scan(&d)
	if err != nil {
		if err = mapError(err); errors.Is(err, ErrNotFound) {
			return None, nil
		}
		return None, err
	}
	return d, nil
}

func InsertVote(ctx context.Context, q Querier, kind EntityKind, entityID, userID int, d Direction) error {
	_, err := q.ExecContext(ctx, `INSERT INTO votes (user_id, entity_kind, entity_id, direction) VALUES (?, ?, ?, ?)`,
		userID, string(kind), entityID, string(d))
	return mapError(err)
}

func UpdateVote(ctx context.Context, q Querier, kind EntityKind, entityID, userID int, d Direction) error {
	res, err := q.ExecContext(ctx, `UPDATE votes SET direction = ? WHERE user_id = ? AND entity_kind = ? AND entity_id = ?`,
		string(d), userID, string(kind), entityID)
	if err != nil {
		return mapError(err)
	}
	return requireAffected(res.RowsAffected())
}

func DeleteVote(ctx context.Context, q Querier, kind EntityKind, entityID, userID int) error {
	res, err := q.ExecContext(ctx, `DELETE FROM votes WHERE user_id = ? AND entity_kind = ? AND entity_id = ?`,
		userID, string(kind), entityID)
	if err != nil {
		return mapError(err)
	}
	return requireAffected(res.RowsAffected())
}

// CountVotes returns the number of up and down votes on the entity.
func CountVotes(ctx context.Context, q Querier, kind EntityKind, entityID int) (up, down int, err error) {
	err = q.QueryRowContext(ctx, `SELECT
		COALESCE(SUM(CASE WHEN direction = 'Up' THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN direction = 'Down' THEN 1 ELSE 0 END), 0)
		FROM votes WHERE entity_kind = ? AND entity_id = ?`, string(kind), entityID).Scan(&up, &down)
	return up, down, mapError(err)
}

func HasBookmark(ctx context.Context, q Querier, kind EntityKind, entityID, userID int) (bool, error) {
	var exists bool
	err := q.QueryRowContext(ctx, `SELECT EXISTS (
		SELECT 1 FROM bookmarks WHERE user_id = ? AND entity_kind = ? AND entity_id = ?
	)`, userID, string(kind), entityID).Scan(&exists)
	return exists, mapError(err)
}

func InsertBookmark(ctx context.Context, q Querier, kind EntityKind, entityID, userID int) error {
	_, err := q.ExecContext(ctx, `INSERT INTO bookmarks (user_id, entity_kind, entity_id) VALUES (?, ?, ?)`,
		userID, string(kind), entityID)
	return mapError(err)
}

func DeleteBookmark(ctx context.Context, q Querier, kind EntityKind, entityID, userID int) error {
	res, err := q.ExecContext(ctx, `DELETE FROM bookmarks WHERE user_id = ? AND entity_kind = ? AND entity_id = ?`,
		userID, string(kind), entityID)
	if err != nil {
		return mapError(err)
	}
	return requireAffected(res.RowsAffected())
}

func requireAffected(n int64, err error) error {
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func ListUserPostVotes(ctx context.Context, q Querier, userID int) ([]VotedPost, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+postFields+`, uv.direction FROM posts p
		JOIN votes uv ON uv.entity_kind = 'post' AND uv.entity_id = p.id
		WHERE uv.user_id = ? ORDER BY p.id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	voted := []VotedPost{}
	for rows.Next() {
		var d Direction
		p, err := scanPost(rows, &d)
		if err != nil {
			return nil, err
		}
		voted = append(voted, VotedPost{Post: *p, Direction: d})
	}
	return voted, rows.Err()
}

func ListUserCommentVotes(ctx context.Context, q Querier, userID int) ([]VotedComment, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+commentFields+`, uv.direction FROM comments c
		JOIN votes uv ON uv.entity_kind = 'comment' AND uv.entity_id = c.id
		WHERE uv.user_id = ? ORDER BY c.id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	voted := []VotedComment{}
	for rows.Next() {
		var d Direction
		c, err := scanComment(rows, &d)
		if err != nil {
			return nil, err
		}
		voted = append(voted, VotedComment{Comment: *c, Direction: d})
	}
	return voted, rows.Err()
}

func ListUserPostBookmarks(ctx context.Context, q Querier, userID int) ([]Post, error) {
	return queryPosts(ctx, q, postSelect+`
		JOIN bookmarks b ON b.entity_kind = 'post' AND b.entity_id = p.id
		WHERE b.user_id = ? ORDER BY p.id`, userID)
}

func ListUserCommentBookmarks(ctx context.Context, q Querier, userID int) ([]Comment, error) {
	return queryComments(ctx, q, commentSelect+`
		JOIN bookmarks b ON b.entity_kind = 'comment' AND b.entity_id = c.id
		WHERE b.user_id = ? ORDER BY c.id`, userID)
}
