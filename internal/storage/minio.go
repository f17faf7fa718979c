package storage

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/nfnt/resize"
)

// ImageStore uploads raw image bytes and returns a stable public URL.
// Handlers only ever store and compare these URL strings.
type ImageStore interface {
	Upload(ctx context.Context, originalFilename string, data []byte) (string, error)
}

// Images is the process-wide store. Nil when MINIO_ENDPOINT is unset, in
// which case uploads are rejected at the handler.
var Images ImageStore

type minioStore struct {
	client *minio.Client
	bucket string
}

const thumbnailWidth = 400

// Init wires Images from MINIO_* environment variables. Leaving
// MINIO_ENDPOINT unset disables image uploads without failing boot.
func Init() error {
	endpoint := os.Getenv("MINIO_ENDPOINT")

	if endpoint == "" {
		log.Println("MINIO_ENDPOINT not set, image uploads disabled")
		return nil
	}

	bucket := os.Getenv("MINIO_BUCKET")

	if bucket == "" {
		bucket = "rente-images"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(os.Getenv("MINIO_ACCESS_KEY"), os.Getenv("MINIO_SECRET_KEY"), ""),
		Secure: os.Getenv("MINIO_USE_SSL") == "true",
	})

	if err != nil {
		return fmt.Errorf("failed to create minio client for %s: %w", endpoint, err)
	}

	err = client.MakeBucket(context.Background(), bucket, minio.MakeBucketOptions{})

	if err != nil {
		exists, existsErr := client.BucketExists(context.Background(), bucket)
		if existsErr != nil || !exists {
			return fmt.Errorf("failed to make or verify bucket %s: %w", bucket, err)
		}
	}

	Images = &minioStore{client: client, bucket: bucket}

	log.Printf("Image storage ready (bucket %s)", bucket)
	return nil
}

func (s *minioStore) Upload(ctx context.Context, originalFilename string, data []byte) (string, error) {
	ext := filepath.Ext(originalFilename)
	objectKey := fmt.Sprintf("houses/%s%s", uuid.New().String(), ext)

	_, err := s.client.PutObject(ctx, s.bucket, objectKey, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: http.DetectContentType(data),
	})

	if err != nil {
		return "", fmt.Errorf("failed to upload object %s to bucket %s: %w", objectKey, s.bucket, err)
	}

	// Thumbnails are best effort; the full-size URL is the record of truth.
	if err := s.uploadThumbnail(ctx, objectKey, data); err != nil {
		log.Printf("Failed to generate thumbnail for %s: %v", objectKey, err)
	}

	return fmt.Sprintf("%s/%s/%s", s.client.EndpointURL().String(), s.bucket, objectKey), nil
}

func (s *minioStore) uploadThumbnail(ctx context.Context, objectKey string, data []byte) error {
	img, _, err := image.Decode(bytes.NewReader(data))

	if err != nil {
		return err
	}

	thumb := resize.Resize(thumbnailWidth, 0, img, resize.Lanczos3)

	var buf bytes.Buffer

	if err := jpeg.Encode(&buf, thumb, nil); err != nil {
		return err
	}

	thumbKey := fmt.Sprintf("houses/thumbs/%s.jpg", filepath.Base(objectKey))

	_, err = s.client.PutObject(ctx, s.bucket, thumbKey, &buf, int64(buf.Len()), minio.PutObjectOptions{
		ContentType: "image/jpeg",
	})

	return err
}
