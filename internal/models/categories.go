package models

import (
	"context"
	"database/sql"
	"strings"
)

const categoryColumns = `id, created_by, title, description, created_at, edited_at, deleted_at`

func scanCategory(s scanner) (*Category, error) {
	var c Category
	var edited, deleted sql.NullTime
	if err := s.Scan(&c.ID, &c.CreatedBy, &c.Title, &c.Description, &c.CreatedAt, &edited, &deleted); err != nil {
		return nil, mapError(err)
	}
	c.EditedAt = nullTime(edited)
	c.DeletedAt = nullTime(deleted)
	return &c, nil
}

func CreateCategory(ctx context.Context, q Querier, createdBy int, title, description string) (*Category, error) {
	res, err := q.ExecContext(ctx, `INSERT INTO categories (created_by, title, description) VALUES (?, ?, ?)`, createdBy, title, description)
	if err != nil {
		return nil, mapError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return GetCategory(ctx, q, int(id))
}

func GetCategory(ctx context.Context, q Querier, id int) (*Category, error) {
	return scanCategory(q.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id))
}

func ListCategories(ctx context.Context, q Querier) ([]Category, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	categories := []Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, *c)
	}
	return categories, rows.Err()
}

func UpdateCategory(ctx context.Context, q Querier, id int, title, description *string) (*Category, error) {
	sets := []string{"edited_at = CURRENT_TIMESTAMP"}
	args := []any{}
	if title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *title)
	}
	if description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *description)
	}
	args = append(args, id)
	if _, err := q.ExecContext(ctx, `UPDATE categories SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...); err != nil {
		return nil, mapError(err)
	}
	return GetCategory(ctx, q, id)
}

func DeleteCategory(ctx context.Context, q Querier, id int) (*Category, error) {
	if _, err := q.ExecContext(ctx, `UPDATE categories SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`, id); err != nil {
		return nil, mapError(err)
	}
	return GetCategory(ctx, q, id)
}
