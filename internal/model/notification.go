package model

import "time"

// Notification types
const (
	NotificationTypeFollow = "follow"
	NotificationTypeLike   = "like"
)

// Notification records a like or follow action addressed to a user.
type Notification struct {
	ID        int64     `db:"id" json:"id"`
	FromID    int64     `db:"from_id" json:"-"`
	ToID      int64     `db:"to_id" json:"to"`
	Type      string    `db:"type" json:"type"`
	Read      bool      `db:"read" json:"read"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`

	// Joined field: the acting user
	From *UserSummary `json:"from,omitempty"`
}
