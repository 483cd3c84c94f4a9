package models

import (
	"context"
	"database/sql"
)

const commentFields = `c.id, c.post_id, c.user_id, c.reply_id, c.content, c.created_at, c.edited_at, c.deleted_at,
	(SELECT COUNT(*) FROM votes v WHERE v.entity_kind = 'comment' AND v.entity_id = c.id AND v.direction = 'Up'),
	(SELECT COUNT(*) FROM votes v WHERE v.entity_kind = 'comment' AND v.entity_id = c.id AND v.direction = 'Down')`

const commentSelect = `SELECT ` + commentFields + ` FROM comments c`

func scanComment(s scanner, extra ...any) (*Comment, error) {
	var c Comment
	var reply sql.NullInt64
	var edited, deleted sql.NullTime
	dest := []any{&c.ID, &c.PostID, &c.UserID, &reply, &c.Content, &c.CreatedAt, &edited, &deleted,
		&c.Upvotes, &c.Downvotes}
	if err := s.Scan(append(dest, extra...)...); err != nil {
		return nil, mapError(err)
	}
	if reply.Valid {
		id := int(reply.Int64)
		c.ReplyID = &id
	}
	c.EditedAt = nullTime(edited)
	c.DeletedAt = nullTime(deleted)
	return &c, nil
}

func queryComments(ctx context.Context, q Querier, query string, args ...any) ([]Comment, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	comments := []Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, *c)
	}
	return comments, rows.Err()
}

func CreateComment(ctx context.Context, q Querier, postID, userID int, replyID *int, content string) (*Comment, error) {
	res, err := q.ExecContext(ctx, `INSERT INTO comments (post_id, user_id, reply_id, content) VALUES (?, ?, ?, ?)`,
		postID, userID, replyID, content)
	if err != nil {
		return nil, mapError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return GetComment(ctx, q, int(id))
}

func GetComment(ctx context.Context, q Querier, id int) (*Comment, error) {
	return scanComment(q.QueryRowContext(ctx, commentSelect+` WHERE c.id = ?`, id))
}

func ListComments(ctx context.Context, q Querier) ([]Comment, error) {
	return queryComments(ctx, q, commentSelect+` ORDER BY c.id`)
}

func ListPostComments(ctx context.Context, q Querier, postID int) ([]Comment, error) {
	return queryComments(ctx, q, commentSelect+` WHERE c.post_id = ? ORDER BY c.id`, postID)
}

func UpdateCommentContent(ctx context.Context, q Querier, id int, content string) (*Comment, error) {
	if _, err := q.ExecContext(ctx, `UPDATE comments SET content = ?, edited_at = CURRENT_TIMESTAMP WHERE id = ?`, content, id); err != nil {
		return nil, mapError(err)
	}
	return GetComment(ctx, q, id)
}

func DeleteComment(ctx context.Context, q Querier, id int) (*Comment, error) {
	if _, err := q.ExecContext(ctx, `UPDATE comments SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`, id); err != nil {
		return nil, mapError(err)
	}
	return GetComment(ctx, q, id)
}
