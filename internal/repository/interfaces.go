package repository

import (
	"context"

	"chirper/internal/cache"
	"chirper/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Update persists the mutable profile fields of u.
	Update(ctx context.Context, u *model.User) error
	// GetSuggested returns up to limit random users the given user does not
	// follow, excluding the user themselves.
	GetSuggested(ctx context.Context, userID int64, limit int) ([]model.UserSummary, error)
	// GetSummaries returns compact user records for a set of IDs.
	GetSummaries(ctx context.Context, ids []int64) (map[int64]model.UserSummary, error)
}

type FollowRepository interface {
	Exists(ctx context.Context, followerID, followeeID int64) (bool, error)
	// Follow inserts the edge. Returns false if it already existed.
	Follow(ctx context.Context, followerID, followeeID int64) (bool, error)
	Unfollow(ctx context.Context, followerID, followeeID int64) error
	GetFollowerIDs(ctx context.Context, userID int64) ([]int64, error)
	GetFollowingIDs(ctx context.Context, userID int64) ([]int64, error)
}

type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	GetByID(ctx context.Context, postID int64) (*model.Post, error)
	// GetByIDs returns posts in the order of the given IDs.
	GetByIDs(ctx context.Context, postIDs []int64) ([]model.Post, error)
	Delete(ctx context.Context, postID int64) error
	// ListAll returns every post, newest first.
	ListAll(ctx context.Context) ([]model.Post, error)
	// ListByAuthors returns posts by any of the given users, newest first.
	ListByAuthors(ctx context.Context, authorIDs []int64) ([]model.Post, error)
	// ListLikedBy returns posts the given user has liked, newest first.
	ListLikedBy(ctx context.Context, userID int64) ([]model.Post, error)
	// Like inserts the like edge. Returns false if it already existed.
	Like(ctx context.Context, postID, userID int64) (bool, error)
	Unlike(ctx context.Context, postID, userID int64) error
	IsLiked(ctx context.Context, postID, userID int64) (bool, error)
	GetLikerIDs(ctx context.Context, postID int64) ([]int64, error)
	// GetLikerIDsBatch returns liker IDs for each of the given posts.
	GetLikerIDsBatch(ctx context.Context, postIDs []int64) (map[int64][]int64, error)
	// GetLikedPostIDs returns IDs of posts the user has liked.
	GetLikedPostIDs(ctx context.Context, userID int64) ([]int64, error)
	// GetRecentPostScores returns (postID, created-at) pairs for feed
	// cache backfill, newest first.
	GetRecentPostScores(ctx context.Context, userID int64, limit int) ([]cache.PostScore, error)
}

type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	// ListByPostIDs returns comments for each post, oldest first, with
	// authors populated.
	ListByPostIDs(ctx context.Context, postIDs []int64) (map[int64][]model.Comment, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, fromID, toID int64, notifType string) error
	// ListByRecipient returns notifications addressed to the user, newest
	// first, with acting users populated.
	ListByRecipient(ctx context.Context, userID int64) ([]model.Notification, error)
	MarkAllRead(ctx context.Context, userID int64) error
	DeleteAllForRecipient(ctx context.Context, userID int64) error
}
