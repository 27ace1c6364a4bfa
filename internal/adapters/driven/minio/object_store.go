package minio

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/custodia-labs/vectra-core/internal/core/domain"
	"github.com/custodia-labs/vectra-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ObjectStore = (*ObjectStore)(nil)

// Config holds connection settings for an S3-compatible endpoint
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Region    string
}

// ObjectStore provides blob storage on any S3-compatible backend.
// Source documents and staged pipeline artifacts live here; buckets are
// provisioned out of band, so the adapter never creates them.
type ObjectStore struct {
	client *minio.Client
}

// NewObjectStore creates an object store client for the given endpoint
func NewObjectStore(cfg Config) (*ObjectStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object store client: %w", err)
	}

	return &ObjectStore{client: client}, nil
}

// Get retrieves an object. The caller must close the reader.
func (s *ObjectStore) Get(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}

	// GetObject defers the request until the first read; stat now so a
	// missing key surfaces here instead of mid-stream.
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		if isNotFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get object: %w", err)
	}

	return obj, nil
}

// Put stores an object
func (s *ObjectStore) Put(ctx context.Context, bucket, key string, r io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to put object: %w", err)
	}
	return nil
}

// Delete removes an object. Deleting a missing object is not an error.
func (s *ObjectStore) Delete(ctx context.Context, bucket, key string) error {
	if err := s.client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// Exists reports whether an object is present
func (s *ObjectStore) Exists(ctx context.Context, bucket, key string) (bool, error) {
	_, err := s.client.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat object: %w", err)
	}
	return true, nil
}

// Ping checks if the backend is reachable
func (s *ObjectStore) Ping(ctx context.Context) error {
	if _, err := s.client.ListBuckets(ctx); err != nil {
		return fmt.Errorf("object store unreachable: %w", err)
	}
	return nil
}

// isNotFound reports whether the backend rejected the request because
// the object or its bucket does not exist
func isNotFound(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket"
}
