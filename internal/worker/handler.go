package worker

import (
	"context"
	"fmt"
	"log"

	"chirper/internal/cache"
	"chirper/internal/queue"
)

// FollowerProvider abstracts the follow repository so workers don't depend
// on the database layer directly.
type FollowerProvider interface {
	GetFollowerIDs(ctx context.Context, userID int64) ([]int64, error)
}

// RecentPostsProvider fetches a user's recent posts for feed backfill and
// removal.
type RecentPostsProvider interface {
	GetRecentPostScores(ctx context.Context, userID int64, limit int) ([]cache.PostScore, error)
}

const (
	// backfillLimit is how many recent posts to copy into a new follower's feed
	backfillLimit = 20

	// removeLimit bounds how many of an unfollowed user's posts are purged
	removeLimit = 100
)

// Handler applies feed events to the feed cache.
type Handler struct {
	feedCache        cache.FeedCache
	followerProvider FollowerProvider
	postsProvider    RecentPostsProvider
}

// NewHandler creates a new event handler.
func NewHandler(feedCache cache.FeedCache, followerProvider FollowerProvider, postsProvider RecentPostsProvider) *Handler {
	return &Handler{
		feedCache:        feedCache,
		followerProvider: followerProvider,
		postsProvider:    postsProvider,
	}
}

// HandleEvent routes an event to the matching handler.
func (h *Handler) HandleEvent(ctx context.Context, event queue.FeedEvent) error {
	switch event.Type {
	case queue.EventPostCreated:
		return h.handlePostCreated(ctx, event)
	case queue.EventPostDeleted:
		return h.handlePostDeleted(ctx, event)
	case queue.EventUserFollowed:
		return h.handleUserFollowed(ctx, event)
	case queue.EventUserUnfollowed:
		return h.handleUserUnfollowed(ctx, event)
	default:
		return fmt.Errorf("unknown event type: %s", event.Type)
	}
}

// handlePostCreated fans a new post out to all followers' feed caches and
// the author's own.
func (h *Handler) handlePostCreated(ctx context.Context, event queue.FeedEvent) error {
	followers, err := h.followerProvider.GetFollowerIDs(ctx, event.AuthorID)
	if err != nil {
		return fmt.Errorf("get followers: %w", err)
	}

	var failCount int
	for _, followerID := range followers {
		if err := h.feedCache.AddPost(ctx, followerID, event.PostID, event.Timestamp); err != nil {
			// Keep fanning out to the remaining followers
			log.Printf("[Worker] PostCreated: add to user=%d failed: %v", followerID, err)
			failCount++
		}
	}

	if err := h.feedCache.AddPost(ctx, event.AuthorID, event.PostID, event.Timestamp); err != nil {
		log.Printf("[Worker] PostCreated: add to author's own feed failed: %v", err)
	}

	log.Printf("[Worker] PostCreated DONE: post=%d fanout=%d failed=%d",
		event.PostID, len(followers)+1, failCount)
	return nil
}

// handlePostDeleted removes a post from all followers' feed caches.
func (h *Handler) handlePostDeleted(ctx context.Context, event queue.FeedEvent) error {
	followers, err := h.followerProvider.GetFollowerIDs(ctx, event.AuthorID)
	if err != nil {
		return fmt.Errorf("get followers: %w", err)
	}

	for _, followerID := range followers {
		if err := h.feedCache.RemovePost(ctx, followerID, event.PostID); err != nil {
			log.Printf("[Worker] PostDeleted: remove from user=%d failed: %v", followerID, err)
		}
	}

	if err := h.feedCache.RemovePost(ctx, event.AuthorID, event.PostID); err != nil {
		log.Printf("[Worker] PostDeleted: remove from author's own feed failed: %v", err)
	}

	return nil
}

// handleUserFollowed backfills the follower's feed with the followee's
// recent posts.
func (h *Handler) handleUserFollowed(ctx context.Context, event queue.FeedEvent) error {
	posts, err := h.postsProvider.GetRecentPostScores(ctx, event.FolloweeID, backfillLimit)
	if err != nil {
		return fmt.Errorf("get recent posts: %w", err)
	}

	if len(posts) == 0 {
		return nil
	}

	for _, p := range posts {
		if err := h.feedCache.AddPost(ctx, event.FollowerID, p.PostID, p.Timestamp); err != nil {
			log.Printf("[Worker] UserFollowed: add post=%d failed: %v", p.PostID, err)
		}
	}

	log.Printf("[Worker] UserFollowed DONE: follower=%d backfilled=%d", event.FollowerID, len(posts))
	return nil
}

// handleUserUnfollowed removes the followee's posts from the follower's feed.
func (h *Handler) handleUserUnfollowed(ctx context.Context, event queue.FeedEvent) error {
	posts, err := h.postsProvider.GetRecentPostScores(ctx, event.FolloweeID, removeLimit)
	if err != nil {
		return fmt.Errorf("get posts to remove: %w", err)
	}

	for _, p := range posts {
		if err := h.feedCache.RemovePost(ctx, event.FollowerID, p.PostID); err != nil {
			log.Printf("[Worker] UserUnfollowed: remove post=%d failed: %v", p.PostID, err)
		}
	}

	return nil
}
