package queue

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types for the feed stream
const (
	EventPostCreated    = "post_created"
	EventPostDeleted    = "post_deleted"
	EventUserFollowed   = "user_followed"
	EventUserUnfollowed = "user_unfollowed"
)

// StreamFeed is the stream carrying feed maintenance events.
const StreamFeed = "stream:feed"

// ConsumerGroupFeed is the consumer group name for feed workers.
const ConsumerGroupFeed = "feed_workers"

// FeedEvent is an event published to the feed stream. All feed-related
// events share this structure.
type FeedEvent struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"` // Unix timestamp when the event occurred

	// Post events
	PostID   int64 `json:"post_id,omitempty"`
	AuthorID int64 `json:"author_id,omitempty"`

	// Follow events
	FollowerID int64 `json:"follower_id,omitempty"`
	FolloweeID int64 `json:"followee_id,omitempty"`
}

// NewPostCreatedEvent is published after a post commits. The worker fans the
// post out to every follower's feed cache.
func NewPostCreatedEvent(postID, authorID int64) FeedEvent {
	return FeedEvent{
		Type:      EventPostCreated,
		Timestamp: time.Now().Unix(),
		PostID:    postID,
		AuthorID:  authorID,
	}
}

// NewPostDeletedEvent is published after a post is removed. The worker
// removes it from follower feed caches.
func NewPostDeletedEvent(postID, authorID int64) FeedEvent {
	return FeedEvent{
		Type:      EventPostDeleted,
		Timestamp: time.Now().Unix(),
		PostID:    postID,
		AuthorID:  authorID,
	}
}

// NewUserFollowedEvent is published after a follow edge commits. The worker
// backfills the followee's recent posts into the follower's feed cache.
func NewUserFollowedEvent(followerID, followeeID int64) FeedEvent {
	return FeedEvent{
		Type:       EventUserFollowed,
		Timestamp:  time.Now().Unix(),
		FollowerID: followerID,
		FolloweeID: followeeID,
	}
}

// NewUserUnfollowedEvent is published after an unfollow commits. The worker
// removes the followee's posts from the follower's feed cache.
func NewUserUnfollowedEvent(followerID, followeeID int64) FeedEvent {
	return FeedEvent{
		Type:       EventUserUnfollowed,
		Timestamp:  time.Now().Unix(),
		FollowerID: followerID,
		FolloweeID: followeeID,
	}
}

// ToMap converts the event to field-value pairs for Redis XADD. The full
// event is JSON-encoded in a "data" field with the type duplicated for
// quick inspection.
func (e FeedEvent) ToMap() (map[string]interface{}, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return map[string]interface{}{
		"type": e.Type,
		"data": string(data),
	}, nil
}

// ParseFeedEvent parses a FeedEvent from Redis stream message values.
func ParseFeedEvent(values map[string]interface{}) (FeedEvent, error) {
	data, ok := values["data"].(string)
	if !ok {
		return FeedEvent{}, fmt.Errorf("missing or invalid 'data' field")
	}

	var event FeedEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return FeedEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return event, nil
}
