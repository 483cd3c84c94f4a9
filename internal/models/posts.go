package models

import (
	"context"
	"database/sql"
)

const postFields = `p.id, p.user_id, p.category_id, p.title, p.type, p.content, p.created_at, p.edited_at, p.deleted_at,
	(SELECT COUNT(*) FROM votes v WHERE v.entity_kind = 'post' AND v.entity_id = p.id AND v.direction = 'Up'),
	(SELECT COUNT(*) FROM votes v WHERE v.entity_kind = 'post' AND v.entity_id = p.id AND v.direction = 'Down')`

const postSelect = `SELECT ` + postFields + ` FROM posts p`

// scanPost scans the postFields columns followed by any extra columns.
func scanPost(s scanner, extra ...any) (*Post, error) {
	var p Post
	var edited, deleted sql.NullTime
	dest := []any{&p.ID, &p.UserID, &p.CategoryID, &p.Title, &p.Type, &p.Content, &p.CreatedAt, &edited, &deleted,
		&p.Upvotes, &p.Downvotes}
	if err := s.Scan(append(dest, extra...)...); err != nil {
		return nil, mapError(err)
	}
	p.EditedAt = nullTime(edited)
	p.DeletedAt = nullTime(deleted)
	return &p, nil
}

func queryPosts(ctx context.Context, q Querier, query string, args ...any) ([]Post, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	posts := []Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

func CreatePost(ctx context.Context, q Querier, userID, categoryID int, title string, typ PostType, content string) (*Post, error) {
	res, err := q.ExecContext(ctx, `INSERT INTO posts (user_id, category_id, title, type, content) VALUES (?, ?, ?, ?, ?)`,
		userID, categoryID, title, string(typ), content)
	if err != nil {
		return nil, mapError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return GetPost(ctx, q, int(id))
}

func GetPost(ctx context.Context, q Querier, id int) (*Post, error) {
	return scanPost(q.QueryRowContext(ctx, postSelect+` WHERE p.id = ?`, id))
}

// ListPosts returns all posts, newest first, optionally restricted to one category.
func ListPosts(ctx context.Context, q Querier, categoryID *int) ([]Post, error) {
	if categoryID != nil {
		return queryPosts(ctx, q, postSelect+` WHERE p.category_id = ? ORDER BY p.id DESC`, *categoryID)
	}
	return queryPosts(ctx, q, postSelect+` ORDER BY p.id DESC`)
}

func UpdatePostContent(ctx context.Context, q Querier, id int, content string) (*Post, error) {
	if _, err := q.ExecContext(ctx, `UPDATE posts SET content = ?, edited_at = CURRENT_TIMESTAMP WHERE id = ?`, content, id); err != nil {
		return nil, mapError(err)
	}
	return GetPost(ctx, q, id)
}

func DeletePost(ctx context.Context, q Querier, id int) (*Post, error) {
	if _, err := q.ExecContext(ctx, `UPDATE posts SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`, id); err != nil {
		return nil, mapError(err)
	}
	return GetPost(ctx, q, id)
}
