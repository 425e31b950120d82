package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"chirper/internal/cache"
	"chirper/internal/model"
)

type postRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) PostRepository {
	return &postRepository{db: db}
}

const postColumns = `id, user_id, text, img, img_key, created_at, updated_at`

// Create inserts a new post.
func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	query := `
		INSERT INTO posts (user_id, text, img, img_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	row := r.db.QueryRowxContext(ctx, query, post.UserID, post.Text, post.Img, post.ImgKey)
	if err := row.Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt); err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}

	return nil
}

// GetByID retrieves a single post without joined fields.
func (r *postRepository) GetByID(ctx context.Context, postID int64) (*model.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	var post model.Post
	err := r.db.GetContext(ctx, &post, query, postID)
	if err == sql.ErrNoRows {
		return nil, model.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	return &post, nil
}

// GetByIDs retrieves posts preserving the order of the input IDs.
// Used to hydrate the feed from the cache, which already orders by time.
func (r *postRepository) GetByIDs(ctx context.Context, postIDs []int64) ([]model.Post, error) {
	if len(postIDs) == 0 {
		return []model.Post{}, nil
	}

	query := `SELECT ` + postColumns + ` FROM posts WHERE id = ANY($1)`
	var posts []model.Post
	err := r.db.SelectContext(ctx, &posts, query, pq.Array(postIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to get posts by ids: %w", err)
	}

	byID := make(map[int64]model.Post, len(posts))
	for _, p := range posts {
		byID[p.ID] = p
	}

	ordered := make([]model.Post, 0, len(postIDs))
	for _, id := range postIDs {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}

	return ordered, nil
}

// Delete removes a post. Likes and comments cascade at the schema level.
func (r *postRepository) Delete(ctx context.Context, postID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, postID)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrPostNotFound
	}

	return nil
}

// ListAll returns every post, newest first.
func (r *postRepository) ListAll(ctx context.Context) ([]model.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts ORDER BY created_at DESC`

	posts := []model.Post{}
	err := r.db.SelectContext(ctx, &posts, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	return posts, nil
}

// ListByAuthors returns posts by any of the given users, newest first.
func (r *postRepository) ListByAuthors(ctx context.Context, authorIDs []int64) ([]model.Post, error) {
	if len(authorIDs) == 0 {
		return []model.Post{}, nil
	}

	query := `SELECT ` + postColumns + ` FROM posts WHERE user_id = ANY($1) ORDER BY created_at DESC`

	posts := []model.Post{}
	err := r.db.SelectContext(ctx, &posts, query, pq.Array(authorIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to list posts by authors: %w", err)
	}

	return posts, nil
}

// ListLikedBy returns posts the given user has liked, newest first.
func (r *postRepository) ListLikedBy(ctx context.Context, userID int64) ([]model.Post, error) {
	query := `
		SELECT p.id, p.user_id, p.text, p.img, p.img_key, p.created_at, p.updated_at
		FROM posts p
		JOIN post_likes pl ON pl.post_id = p.id
		WHERE pl.user_id = $1
		ORDER BY p.created_at DESC
	`

	posts := []model.Post{}
	err := r.db.SelectContext(ctx, &posts, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list liked posts: %w", err)
	}

	return posts, nil
}

// Like inserts the like edge. A single row covers both the post's like set
// and the user's liked-posts set.
func (r *postRepository) Like(ctx context.Context, postID, userID int64) (bool, error) {
	query := `
		INSERT INTO post_likes (post_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (post_id, user_id) DO NOTHING
	`
	result, err := r.db.ExecContext(ctx, query, postID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to like post: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows > 0, nil
}

func (r *postRepository) Unlike(ctx context.Context, postID, userID int64) error {
	query := `DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`
	_, err := r.db.ExecContext(ctx, query, postID, userID)
	if err != nil {
		return fmt.Errorf("failed to unlike post: %w", err)
	}
	return nil
}

func (r *postRepository) IsLiked(ctx context.Context, postID, userID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM post_likes WHERE post_id = $1 AND user_id = $2)`
	var liked bool
	err := r.db.GetContext(ctx, &liked, query, postID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to check like: %w", err)
	}
	return liked, nil
}

func (r *postRepository) GetLikerIDs(ctx context.Context, postID int64) ([]int64, error) {
	query := `SELECT user_id FROM post_likes WHERE post_id = $1 ORDER BY created_at`
	ids := []int64{}
	err := r.db.SelectContext(ctx, &ids, query, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to get liker ids: %w", err)
	}
	return ids, nil
}

// GetLikerIDsBatch returns liker IDs for each of the given posts in one query.
func (r *postRepository) GetLikerIDsBatch(ctx context.Context, postIDs []int64) (map[int64][]int64, error) {
	result := make(map[int64][]int64)
	if len(postIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT post_id, user_id
		FROM post_likes
		WHERE post_id = ANY($1)
		ORDER BY created_at
	`

	type likeRow struct {
		PostID int64 `db:"post_id"`
		UserID int64 `db:"user_id"`
	}

	var rows []likeRow
	err := r.db.SelectContext(ctx, &rows, query, pq.Array(postIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to get likes batch: %w", err)
	}

	for _, row := range rows {
		result[row.PostID] = append(result[row.PostID], row.UserID)
	}

	return result, nil
}

func (r *postRepository) GetLikedPostIDs(ctx context.Context, userID int64) ([]int64, error) {
	query := `SELECT post_id FROM post_likes WHERE user_id = $1 ORDER BY created_at`
	ids := []int64{}
	err := r.db.SelectContext(ctx, &ids, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get liked post ids: %w", err)
	}
	return ids, nil
}

// GetRecentPostScores returns (postID, created-at) pairs for feed backfill.
func (r *postRepository) GetRecentPostScores(ctx context.Context, userID int64, limit int) ([]cache.PostScore, error) {
	query := `
		SELECT id, EXTRACT(EPOCH FROM created_at)::bigint AS ts
		FROM posts
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	type scoreRow struct {
		ID int64 `db:"id"`
		TS int64 `db:"ts"`
	}

	var rows []scoreRow
	err := r.db.SelectContext(ctx, &rows, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent post scores: %w", err)
	}

	scores := make([]cache.PostScore, len(rows))
	for i, row := range rows {
		scores[i] = cache.PostScore{PostID: row.ID, Timestamp: row.TS}
	}

	return scores, nil
}
