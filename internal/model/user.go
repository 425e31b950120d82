package model

import (
	"errors"
	"time"
)

const (
	// MinPasswordLength is the minimum accepted password length at signup
	// and on password change.
	MinPasswordLength = 3

	// MaxPasswordLength is the bcrypt input limit in bytes; longer
	// passwords are rejected up front instead of failing inside the hasher.
	MaxPasswordLength = 72
)

// User represents a user account.
// Followers, Following and LikedPosts are derived from the follows and
// post_likes tables, not columns on users.
type User struct {
	ID             int64     `db:"id" json:"id"`
	Username       string    `db:"username" json:"username"`
	FullName       string    `db:"full_name" json:"fullName"`
	Email          string    `db:"email" json:"email"`
	PasswordHashed string    `db:"password_hashed" json:"-"`
	Bio            *string   `db:"bio" json:"bio"`
	Link           *string   `db:"link" json:"link"`
	ProfileImg     *string   `db:"profile_img" json:"profileImg"`
	ProfileImgKey  *string   `db:"profile_img_key" json:"-"`
	CoverImg       *string   `db:"cover_img" json:"coverImg"`
	CoverImgKey    *string   `db:"cover_img_key" json:"-"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`

	// Joined fields
	Followers  []int64 `json:"followers"`
	Following  []int64 `json:"following"`
	LikedPosts []int64 `json:"likedPosts"`
}

// UserSummary is the compact user shape embedded in posts, comments
// and notifications.
type UserSummary struct {
	ID         int64   `db:"id" json:"id"`
	Username   string  `db:"username" json:"username"`
	FullName   string  `db:"full_name" json:"fullName"`
	ProfileImg *string `db:"profile_img" json:"profileImg"`
}

// SignupRequest is the request body for POST /auth/signup.
type SignupRequest struct {
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the request body for POST /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UpdateProfileRequest is the request body for POST /users/update.
// Nil pointers mean "leave unchanged". Image fields carry base64 data URLs.
type UpdateProfileRequest struct {
	Username        *string `json:"username"`
	FullName        *string `json:"fullName"`
	Email           *string `json:"email"`
	CurrentPassword *string `json:"currentPassword"`
	NewPassword     *string `json:"newPassword"`
	Bio             *string `json:"bio"`
	Link            *string `json:"link"`
	ProfileImg      *string `json:"profileImg"`
	CoverImg        *string `json:"coverImg"`
}

var (
	// ErrUserNotFound is returned when a user cannot be found
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameTaken is returned when the username is already registered
	ErrUsernameTaken = errors.New("username already exists")

	// ErrEmailTaken is returned when the email is already registered
	ErrEmailTaken = errors.New("email already exists")

	// ErrInvalidCredentials is returned when login credentials are incorrect.
	// Deliberately the same for unknown username and wrong password.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrMissingFields is returned when a required signup field is absent
	ErrMissingFields = errors.New("all fields are required")

	// ErrInvalidEmail is returned when the email is malformed
	ErrInvalidEmail = errors.New("invalid email")

	// ErrPasswordTooShort is returned when the password is under the minimum length
	ErrPasswordTooShort = errors.New("password must be at least 3 characters long")

	// ErrPasswordTooLong is returned when the password exceeds the bcrypt limit
	ErrPasswordTooLong = errors.New("password must be at most 72 characters long")

	// ErrPasswordPairRequired is returned when only one of currentPassword
	// and newPassword is provided on profile update
	ErrPasswordPairRequired = errors.New("both current and new password are required")

	// ErrCannotFollowSelf is returned when a user tries to follow themselves
	ErrCannotFollowSelf = errors.New("you cannot follow yourself")
)
