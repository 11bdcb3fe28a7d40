package infra

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"

	"cloud.google.com/go/storage"

	"stajdefteri/internal/config"
	"stajdefteri/pkg/logger"
)

// ImageStorage keeps uploaded images somewhere the export step can fetch them
// again and returns the URL to store on the day.
type ImageStorage interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
	Close() error
}

// NewImageStorage uses GCS when GCS_BUCKET is set and inline data URLs
// otherwise.
func NewImageStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (ImageStorage, error) {
	if cfg.GCSBucket == "" {
		log.Info("GCS_BUCKET not set, uploaded images are stored inline")
		return DataURLStorage{}, nil
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	log.Info("Object storage initialized", "bucket", cfg.GCSBucket)
	return &gcsImageStorage{client: client, bucket: cfg.GCSBucket, log: log.With("service", "ImageStorage")}, nil
}

type gcsImageStorage struct {
	client *storage.Client
	bucket string
	log    *logger.Logger
}

func (s *gcsImageStorage) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=31536000"
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("gcs write %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("gcs close %s: %w", key, err)
	}
	s.log.Debug("image uploaded", "key", key, "bytes", len(data))
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, (&url.URL{Path: key}).EscapedPath()), nil
}

func (s *gcsImageStorage) Close() error { return s.client.Close() }

// DataURLStorage embeds the image bytes in the URL itself.
type DataURLStorage struct{}

func (DataURLStorage) Put(_ context.Context, _ string, contentType string, data []byte) (string, error) {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

func (DataURLStorage) Close() error { return nil }
