// Package avatar stores user avatars in S3-compatible object storage using MinIO.
package avatar

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/url"
	"os"

	"github.com/disintegration/imaging"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var (
	ErrUploadFailed = errors.New("upload failed")
	ErrInvalidImage = errors.New("invalid image")
)

// Avatars are cropped to a square of this size before upload.
const avatarSize = 250

// Service is the avatar storage surface the API depends on.
type Service interface {
	UploadAvatar(ctx context.Context, username string, reader io.Reader) (string, error)
}

type AvatarService struct {
	client     *minio.Client
	bucketName string
	endpoint   string
	useSSL     bool
}

func NewAvatarService() *AvatarService {
	endpoint := getEnv("MINIO_ENDPOINT", "localhost:9000")
	accessKey := getEnv("MINIO_ACCESS_KEY", "minioadmin")
	secretKey := getEnv("MINIO_SECRET_KEY", "minioadmin")
	bucketName := getEnv("MINIO_BUCKET", "contacts-service")
	useSSL := os.Getenv("MINIO_USE_SSL") == "true"

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil
	}

	return &AvatarService{
		client:     client,
		bucketName: bucketName,
		endpoint:   endpoint,
		useSSL:     useSSL,
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (s *AvatarService) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return err
	}
	if !exists {
		return s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{})
	}
	return nil
}

// UploadAvatar processes the uploaded image and stores it under an object
// name derived from the username. Uploading again replaces the previous
// avatar, so a user only ever has one object in the bucket.
func (s *AvatarService) UploadAvatar(ctx context.Context, username string, reader io.Reader) (string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	processed, err := processAvatar(data)
	if err != nil {
		return "", err
	}

	objectName := AvatarObjectName(username)
	_, err = s.client.PutObject(ctx, s.bucketName, objectName, bytes.NewReader(processed), int64(len(processed)), minio.PutObjectOptions{
		ContentType: "image/jpeg",
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	return s.GetPublicURL(objectName), nil
}

func (s *AvatarService) GetPublicURL(objectName string) string {
	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}
	return (&url.URL{
		Scheme: scheme,
		Host:   s.endpoint,
		Path:   "/" + s.bucketName + "/" + objectName,
	}).String()
}

// AvatarObjectName returns the bucket key for a user's avatar.
func AvatarObjectName(username string) string {
	return "avatars/" + username + ".jpg"
}

// processAvatar decodes the image and crops it to a centered square of
// avatarSize pixels, re-encoded as JPEG.
func processAvatar(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	cropped := imaging.Fill(img, avatarSize, avatarSize, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, cropped, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
