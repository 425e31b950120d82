package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"chirper/internal/config"
	"chirper/internal/model"
)

// ImageStore stores images sent as base64 data URLs. An interface so
// services can be tested without object storage.
type ImageStore interface {
	// UploadImage decodes a data URL, normalizes the image and stores it
	// under the given folder.
	UploadImage(ctx context.Context, dataURL, folder string) (*model.UploadResult, error)

	// DeleteImage removes a stored image by key. Empty keys are a no-op.
	DeleteImage(ctx context.Context, key string) error
}

const jpegQuality = 85

// MediaService implements ImageStore on Cloudflare R2 through its
// S3-compatible API.
type MediaService struct {
	s3Client  *s3.Client
	bucket    string
	publicURL string
}

// NewMediaService constructs an S3-compatible client for Cloudflare R2.
func NewMediaService(ctx context.Context, cfg *config.Config) (*MediaService, error) {
	if cfg.R2AccountID == "" || cfg.R2AccessKeyID == "" || cfg.R2SecretAccessKey == "" || cfg.R2BucketName == "" || cfg.R2PublicURL == "" {
		return nil, fmt.Errorf("missing Cloudflare R2 configuration")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(
		ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.R2AccessKeyID, cfg.R2SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config for R2: %w", err)
	}

	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.R2AccountID)
	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	return &MediaService{
		s3Client:  s3Client,
		bucket:    cfg.R2BucketName,
		publicURL: strings.TrimSuffix(cfg.R2PublicURL, "/"),
	}, nil
}

// UploadImage decodes the data URL, normalizes the image for its folder and
// uploads it as JPEG. Avatars are center-cropped squares; everything else
// is downscaled to fit the max width.
func (s *MediaService) UploadImage(ctx context.Context, dataURL, folder string) (*model.UploadResult, error) {
	data, err := decodeDataURL(dataURL)
	if err != nil {
		return nil, err
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, model.ErrInvalidImage
	}

	if folder == model.AvatarFolder {
		img = imaging.Fill(img, model.AvatarSize, model.AvatarSize, imaging.Center, imaging.Lanczos)
	} else if img.Bounds().Dx() > model.MaxImageWidth {
		img = imaging.Resize(img, model.MaxImageWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}

	key := fmt.Sprintf("%s/%s%s", folder, uuid.NewString(), model.ImageExt)

	if err := s.putObject(ctx, key, buf.Bytes(), model.ContentTypeJPEG, model.ImageCacheControl); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/%s", s.publicURL, key)
	return &model.UploadResult{URL: url, Key: key}, nil
}

// decodeDataURL parses a data:<mediatype>;base64,<payload> URL with size
// and type checks.
func decodeDataURL(dataURL string) ([]byte, error) {
	if !strings.HasPrefix(dataURL, "data:") {
		return nil, model.ErrInvalidImage
	}

	rest := dataURL[len("data:"):]
	sep := strings.Index(rest, ",")
	if sep == -1 {
		return nil, model.ErrInvalidImage
	}

	meta := rest[:sep]
	payload := rest[sep+1:]

	if !strings.HasSuffix(meta, ";base64") {
		return nil, model.ErrInvalidImage
	}
	contentType := strings.TrimSuffix(meta, ";base64")
	if !model.IsAllowedImageType(contentType) {
		return nil, model.ErrInvalidImage
	}

	// base64 expands ~4/3, so bound the encoded length before decoding
	if len(payload) > model.MaxImageSizeBytes*4/3+4 {
		return nil, model.ErrImageTooLarge
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, model.ErrInvalidImage
	}
	if len(data) > model.MaxImageSizeBytes {
		return nil, model.ErrImageTooLarge
	}

	return data, nil
}

// putObject uploads bytes to R2 with metadata.
func (s *MediaService) putObject(ctx context.Context, key string, body []byte, contentType, cacheControl string) error {
	_, err := s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(body),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String(cacheControl),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to r2: %w", err)
	}
	return nil
}

// DeleteImage removes an object by key.
func (s *MediaService) DeleteImage(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	_, err := s.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from r2: %w", err)
	}
	return nil
}
