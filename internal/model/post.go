package model

import (
	"errors"
	"time"
)

// Post represents a user's post. Likes and Comments are joined fields
// hydrated from the post_likes and comments tables.
type Post struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"-"`
	Text      *string   `db:"text" json:"text"`
	Img       *string   `db:"img" json:"img"`
	ImgKey    *string   `db:"img_key" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`

	// Joined fields
	User     *UserSummary `json:"user,omitempty"`
	Likes    []int64      `json:"likes"`
	Comments []Comment    `json:"comments"`
}

// CreatePostRequest is the request body for POST /posts/create.
// Img carries a base64 data URL.
type CreatePostRequest struct {
	Text *string `json:"text"`
	Img  *string `json:"img"`
}

var (
	// ErrPostNotFound is returned when a post cannot be found
	ErrPostNotFound = errors.New("post not found")

	// ErrNotPostOwner is returned when a user tries to delete someone else's post
	ErrNotPostOwner = errors.New("not the owner of this post")

	// ErrEmptyPost is returned when a post has neither text nor image
	ErrEmptyPost = errors.New("text or image is required")
)
