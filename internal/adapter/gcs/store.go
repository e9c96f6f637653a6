// Package gcs persists run artifacts to Google Cloud Storage.
package gcs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"cloud.google.com/go/storage"
	"github.com/couchcryptid/nws-dwml-etl/internal/config"
	"github.com/couchcryptid/nws-dwml-etl/internal/domain"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Store writes objects into a single bucket.
// It implements pipeline.ObjectStore.
type Store struct {
	client    *storage.Client
	bucket    string
	projectID string
	logger    *slog.Logger
}

// NewStore creates a Store for the configured bucket using Application Default
// Credentials, or an unauthenticated emulator client when GCS_ENDPOINT is set.
func NewStore(ctx context.Context, cfg config.ScrapeConfig, logger *slog.Logger) (*Store, error) {
	var opts []option.ClientOption
	if cfg.StorageEndpoint != "" {
		opts = append(opts,
			option.WithEndpoint(cfg.StorageEndpoint),
			option.WithoutAuthentication(),
		)
	} else if cfg.ProjectID != "" {
		opts = append(opts, option.WithQuotaProject(cfg.ProjectID))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	return &Store{
		client:    client,
		bucket:    cfg.Bucket,
		projectID: cfg.ProjectID,
		logger:    logger,
	}, nil
}

// ObjectURI returns the gs:// URI of key in the store's bucket.
func (s *Store) ObjectURI(key string) string {
	return ObjectURI(s.bucket, key)
}

// ObjectURI returns the gs:// URI of an object.
func ObjectURI(bucket, key string) string {
	return "gs://" + bucket + "/" + key
}

// Put uploads data under key with the given content type and returns the
// object's gs:// URI. An existing object with the same key is replaced.
// Failures wrap domain.ErrUpload.
func (s *Store) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	uri := s.ObjectURI(key)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	// Single-request upload; uploads are not retried.
	w.ChunkSize = 0
	w.Metadata = map[string]string{
		"producer": "nws-dwml-etl",
		"project":  s.projectID,
	}

	if _, err := w.Write(data); err != nil {
		cancel()
		_ = w.Close()
		return "", fmt.Errorf("%w: write %s: %w", domain.ErrUpload, uri, describe(err))
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("%w: finalize %s: %w", domain.ErrUpload, uri, describe(err))
	}

	s.logger.Debug("object stored", "uri", uri, "bytes", len(data), "content_type", contentType)
	return uri, nil
}

// CheckReadiness returns nil when the bucket exists and is reachable with
// the current credentials.
func (s *Store) CheckReadiness(ctx context.Context) error {
	_, err := s.client.Bucket(s.bucket).Attrs(ctx)
	if err == nil {
		return nil
	}
	if errors.Is(err, storage.ErrBucketNotExist) {
		return fmt.Errorf("bucket %s does not exist", s.bucket)
	}
	return fmt.Errorf("bucket %s: %w", s.bucket, describe(err))
}

// Close releases the underlying storage client.
func (s *Store) Close() error {
	return s.client.Close()
}

// describe annotates Cloud Storage API errors with their HTTP status.
func describe(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return fmt.Errorf("status %d: %w", apiErr.Code, err)
	}
	return err
}
