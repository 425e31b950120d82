package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"chirper/internal/model"
)

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create inserts a new comment.
func (r *commentRepository) Create(ctx context.Context, c *model.Comment) error {
	query := `
		INSERT INTO comments (post_id, user_id, text, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at
	`

	row := r.db.QueryRowxContext(ctx, query, c.PostID, c.UserID, c.Text)
	if err := row.Scan(&c.ID, &c.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert comment: %w", err)
	}

	return nil
}

// ListByPostIDs returns comments for each post, oldest first, with authors
// joined in the same query.
func (r *commentRepository) ListByPostIDs(ctx context.Context, postIDs []int64) (map[int64][]model.Comment, error) {
	result := make(map[int64][]model.Comment)
	if len(postIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT c.id, c.post_id, c.user_id, c.text, c.created_at,
		       u.id AS "user.id", u.username AS "user.username",
		       u.full_name AS "user.full_name", u.profile_img AS "user.profile_img"
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.post_id = ANY($1)
		ORDER BY c.created_at
	`

	type commentRow struct {
		ID            int64     `db:"id"`
		PostID        int64     `db:"post_id"`
		UserID        int64     `db:"user_id"`
		Text          string    `db:"text"`
		CreatedAt     time.Time `db:"created_at"`
		AuthorID      int64     `db:"user.id"`
		AuthorName    string    `db:"user.username"`
		AuthorFull    string    `db:"user.full_name"`
		AuthorProfile *string   `db:"user.profile_img"`
	}

	var rows []commentRow
	err := r.db.SelectContext(ctx, &rows, query, pq.Array(postIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	for _, row := range rows {
		result[row.PostID] = append(result[row.PostID], model.Comment{
			ID:        row.ID,
			PostID:    row.PostID,
			UserID:    row.UserID,
			Text:      row.Text,
			CreatedAt: row.CreatedAt,
			User: &model.UserSummary{
				ID:         row.AuthorID,
				Username:   row.AuthorName,
				FullName:   row.AuthorFull,
				ProfileImg: row.AuthorProfile,
			},
		})
	}

	return result, nil
}
