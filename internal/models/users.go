package models

import (
	"context"
	"database/sql"
	"strings"
)

const userColumns = `id, username, email, password_hash, avatar, created_at, edited_at, deleted_at`

func scanUser(s scanner) (*User, error) {
	var u User
	var edited, deleted sql.NullTime
	if err := s.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Avatar, &u.CreatedAt, &edited, &deleted); err != nil {
		return nil, mapError(err)
	}
	u.EditedAt = nullTime(edited)
	u.DeletedAt = nullTime(deleted)
	return &u, nil
}

func CreateUser(ctx context.Context, q Querier, username, email, passwordHash string) (*User, error) {
	res, err := q.ExecContext(ctx, `INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?)`, username, email, passwordHash)
	if err != nil {
		return nil, mapError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return GetUser(ctx, q, int(id))
}

func GetUser(ctx context.Context, q Querier, id int) (*User, error) {
	return scanUser(q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

func GetUserByEmail(ctx context.Context, q Querier, email string) (*User, error) {
	return scanUser(q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email))
}

func ListUsers(ctx context.Context, q Querier) ([]User, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	users := []User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// UserUpdate holds the fields to change; nil fields are left as is.
type UserUpdate struct {
	Username     *string
	Email        *string
	PasswordHash *string
	Avatar       *string
}

func UpdateUser(ctx context.Context, q Querier, id int, upd UserUpdate) (*User, error) {
	sets := []string{"edited_at = CURRENT_TIMESTAMP"}
	args := []any{}
	if upd.Username != nil {
		sets = append(sets, "username = ?")
		args = append(args, *upd.Username)
	}
	if upd.Email != nil {
		sets = append(sets, "email = ?")
		args = append(args, *upd.Email)
	}
	if upd.PasswordHash != nil {
		sets = append(sets, "password_hash = ?")
		args = append(args, *upd.PasswordHash)
	}
	if upd.Avatar != nil {
		sets = append(sets, "avatar = ?")
		args = append(args, *upd.Avatar)
	}
	args = append(args, id)
	if _, err := q.ExecContext(ctx, `UPDATE users SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...); err != nil {
		return nil, mapError(err)
	}
	return GetUser(ctx, q, id)
}

// DeleteUser soft-deletes the user.
func DeleteUser(ctx context.Context, q Querier, id int) (*User, error) {
	if _, err := q.ExecContext(ctx, `UPDATE users SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`, id); err != nil {
		return nil, mapError(err)
	}
	return GetUser(ctx, q, id)
}
