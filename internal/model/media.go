package model

import "errors"

// UploadResult is the stored location of an uploaded image.
type UploadResult struct {
	URL string
	Key string
}

// Object storage folders
const (
	PostImageFolder = "posts"
	AvatarFolder    = "avatars"
	CoverFolder     = "covers"
)

// Image constraints
const (
	MaxImageSizeBytes = 10 * 1024 * 1024

	AvatarSize    = 400  // avatars are center-cropped squares
	MaxImageWidth = 1080 // post and cover images are downscaled to this width

	ContentTypeJPEG = "image/jpeg"
	ImageExt        = ".jpg"

	ImageCacheControl = "public, max-age=31536000, immutable"
)

var (
	// ErrInvalidImage is returned when the payload is not a decodable
	// image of an allowed type
	ErrInvalidImage = errors.New("invalid or unsupported image")

	// ErrImageTooLarge is returned when the decoded payload exceeds MaxImageSizeBytes
	ErrImageTooLarge = errors.New("image exceeds 10MB limit")
)

// IsAllowedImageType reports whether the media type of an uploaded data URL
// is accepted for storage.
func IsAllowedImageType(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/png", "image/gif", "image/webp":
		return true
	}
	return false
}
