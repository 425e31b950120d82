package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"chirper/internal/model"
)

// userRepository implements UserRepository using sqlx
type userRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, username, full_name, email, password_hashed, bio, link,
	       profile_img, profile_img_key, cover_img, cover_img_key, created_at, updated_at`

// Create inserts a new user into the database
func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	query := `
		INSERT INTO users (username, full_name, email, password_hashed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	row := r.db.QueryRowxContext(ctx, query,
		u.Username,
		u.FullName,
		u.Email,
		u.PasswordHashed,
	)

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by their ID
func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var u model.User
	err := r.db.GetContext(ctx, &u, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return &u, nil
}

// GetByUsername retrieves a user by their username
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	var u model.User
	err := r.db.GetContext(ctx, &u, query, username)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	return &u, nil
}

// ExistsByUsername checks if a username is already taken
func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, username)
	if err != nil {
		return false, fmt.Errorf("failed to check username existence: %w", err)
	}

	return exists, nil
}

// ExistsByEmail checks if an email is already registered
func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, email)
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}

	return exists, nil
}

// Update persists the mutable profile fields of u.
func (r *userRepository) Update(ctx context.Context, u *model.User) error {
	query := `
		UPDATE users
		SET username = $1, full_name = $2, email = $3, password_hashed = $4,
		    bio = $5, link = $6,
		    profile_img = $7, profile_img_key = $8,
		    cover_img = $9, cover_img_key = $10,
		    updated_at = NOW()
		WHERE id = $11
		RETURNING updated_at
	`

	row := r.db.QueryRowxContext(ctx, query,
		u.Username, u.FullName, u.Email, u.PasswordHashed,
		u.Bio, u.Link,
		u.ProfileImg, u.ProfileImgKey,
		u.CoverImg, u.CoverImgKey,
		u.ID,
	)

	if err := row.Scan(&u.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return model.ErrUserNotFound
		}
		return fmt.Errorf("failed to update user: %w", err)
	}

	return nil
}

// GetSuggested returns up to limit random users the given user does not follow.
func (r *userRepository) GetSuggested(ctx context.Context, userID int64, limit int) ([]model.UserSummary, error) {
	query := `
		SELECT id, username, full_name, profile_img
		FROM users
		WHERE id != $1
		  AND id NOT IN (SELECT followee_id FROM follows WHERE follower_id = $1)
		ORDER BY RANDOM()
		LIMIT $2
	`

	var users []model.UserSummary
	err := r.db.SelectContext(ctx, &users, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get suggested users: %w", err)
	}

	return users, nil
}

// GetSummaries returns compact user records for a set of IDs.
func (r *userRepository) GetSummaries(ctx context.Context, ids []int64) (map[int64]model.UserSummary, error) {
	result := make(map[int64]model.UserSummary)
	if len(ids) == 0 {
		return result, nil
	}

	query := `
		SELECT id, username, full_name, profile_img
		FROM users
		WHERE id = ANY($1)
	`
	var users []model.UserSummary
	err := r.db.SelectContext(ctx, &users, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to get user summaries: %w", err)
	}

	for _, u := range users {
		result[u.ID] = u
	}

	return result, nil
}
