package models

import (
	"context"
	"database/sql"
	"time"
)

// Querier is satisfied by *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type User struct {
	ID           int        `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Avatar       string     `json:"avatar"`
	CreatedAt    time.Time  `json:"createdAt"`
	EditedAt     *time.Time `json:"editedAt"`
	DeletedAt    *time.Time `json:"deletedAt"`
}

func (u *User) IsDeleted() bool { return u.DeletedAt != nil }

type Category struct {
	ID          int        `json:"id"`
	CreatedBy   int        `json:"createdBy"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"createdAt"`
	EditedAt    *time.Time `json:"editedAt"`
	DeletedAt   *time.Time `json:"deletedAt"`
}

func (c *Category) IsDeleted() bool { return c.DeletedAt != nil }

type PostType string

const (
	PostText PostType = "Text"
	PostURL  PostType = "URL"
)

func (t PostType) Valid() bool { return t == PostText || t == PostURL }

// Post carries its vote counters. They are read from the votes table on every
// load and never cached or adjusted in memory.
type Post struct {
	ID         int        `json:"id"`
	UserID     int        `json:"userId"`
	CategoryID int        `json:"categoryId"`
	Title      string     `json:"title"`
	Type       PostType   `json:"type"`
	Content    string     `json:"content"`
	CreatedAt  time.Time  `json:"createdAt"`
	EditedAt   *time.Time `json:"editedAt"`
	DeletedAt  *time.Time `json:"deletedAt"`
	Upvotes    int        `json:"upvotes"`
	Downvotes  int        `json:"downvotes"`
}

func (p *Post) IsDeleted() bool { return p.DeletedAt != nil }

type Comment struct {
	ID        int        `json:"id"`
	PostID    int        `json:"postId"`
	UserID    int        `json:"userId"`
	ReplyID   *int       `json:"replyId"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"createdAt"`
	EditedAt  *time.Time `json:"editedAt"`
	DeletedAt *time.Time `json:"deletedAt"`
	Upvotes   int        `json:"upvotes"`
	Downvotes int        `json:"downvotes"`
}

func (c *Comment) IsDeleted() bool { return c.DeletedAt != nil }

// EntityKind identifies what a vote or bookmark row points at.
type EntityKind string

const (
	KindPost    EntityKind = "post"
	KindComment EntityKind = "comment"
)

// Name is the display name used in user-facing messages.
func (k EntityKind) Name() string {
	switch k {
	case KindPost:
		return "Post"
	case KindComment:
		return "Comment"
	default:
		return string(k)
	}
}

// Direction of a user's vote. The zero value means no vote.
type Direction string

const (
	None Direction = ""
	Up   Direction = "Up"
	Down Direction = "Down"
)

type VotedPost struct {
	Post
	Direction Direction `json:"direction"`
}

type VotedComment struct {
	Comment
	Direction Direction `json:"direction"`
}

func nullTime(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

type scanner interface {
	Scan(dest ...any) error
}
