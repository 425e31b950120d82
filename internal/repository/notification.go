package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"chirper/internal/model"
)

type notificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

// Create inserts a new notification.
func (r *notificationRepository) Create(ctx context.Context, fromID, toID int64, notifType string) error {
	query := `
		INSERT INTO notifications (from_id, to_id, type)
		VALUES ($1, $2, $3)
	`
	_, err := r.db.ExecContext(ctx, query, fromID, toID, notifType)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// ListByRecipient returns notifications addressed to the user, newest first,
// with the acting users joined in.
func (r *notificationRepository) ListByRecipient(ctx context.Context, userID int64) ([]model.Notification, error) {
	query := `
		SELECT n.id, n.from_id, n.to_id, n.type, n.read, n.created_at,
		       u.id AS "from.id", u.username AS "from.username",
		       u.full_name AS "from.full_name", u.profile_img AS "from.profile_img"
		FROM notifications n
		JOIN users u ON u.id = n.from_id
		WHERE n.to_id = $1
		ORDER BY n.created_at DESC
	`

	type notifRow struct {
		ID          int64     `db:"id"`
		FromID      int64     `db:"from_id"`
		ToID        int64     `db:"to_id"`
		Type        string    `db:"type"`
		Read        bool      `db:"read"`
		CreatedAt   time.Time `db:"created_at"`
		ActorID     int64     `db:"from.id"`
		ActorName   string    `db:"from.username"`
		ActorFull   string    `db:"from.full_name"`
		ActorAvatar *string   `db:"from.profile_img"`
	}

	var rows []notifRow
	err := r.db.SelectContext(ctx, &rows, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	notifications := make([]model.Notification, len(rows))
	for i, row := range rows {
		notifications[i] = model.Notification{
			ID:        row.ID,
			FromID:    row.FromID,
			ToID:      row.ToID,
			Type:      row.Type,
			Read:      row.Read,
			CreatedAt: row.CreatedAt,
			From: &model.UserSummary{
				ID:         row.ActorID,
				Username:   row.ActorName,
				FullName:   row.ActorFull,
				ProfileImg: row.ActorAvatar,
			},
		}
	}

	return notifications, nil
}

// MarkAllRead marks every notification addressed to the user as read.
func (r *notificationRepository) MarkAllRead(ctx context.Context, userID int64) error {
	query := `UPDATE notifications SET read = true WHERE to_id = $1 AND read = false`
	_, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("mark notifications read: %w", err)
	}
	return nil
}

// DeleteAllForRecipient deletes every notification addressed to the user.
func (r *notificationRepository) DeleteAllForRecipient(ctx context.Context, userID int64) error {
	query := `DELETE FROM notifications WHERE to_id = $1`
	_, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("delete notifications: %w", err)
	}
	return nil
}
