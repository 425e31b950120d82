package model

import (
	"errors"
	"time"
)

// Comment represents a comment on a post, serialized inline with the post.
type Comment struct {
	ID        int64     `db:"id" json:"id"`
	PostID    int64     `db:"post_id" json:"-"`
	UserID    int64     `db:"user_id" json:"-"`
	Text      string    `db:"text" json:"text"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`

	// Joined field
	User *UserSummary `json:"user,omitempty"`
}

// ErrEmptyComment is returned when a comment has no text
var ErrEmptyComment = errors.New("comment text is required")
