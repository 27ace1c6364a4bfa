package driven

import (
	"context"
	"io"
)

// ObjectStore provides access to document blobs and staged pipeline
// artifacts (S3-compatible storage).
type ObjectStore interface {
	// Get retrieves an object. The caller must close the reader.
	Get(ctx context.Context, bucket, key string) (io.ReadCloser, error)

	// Put stores an object. Size may be -1 if unknown.
	Put(ctx context.Context, bucket, key string, r io.Reader, size int64, contentType string) error

	// Delete removes an object. Deleting a missing object is not an error.
	Delete(ctx context.Context, bucket, key string) error

	// Exists reports whether an object is present
	Exists(ctx context.Context, bucket, key string) (bool, error)

	// Ping checks if the backend is reachable
	Ping(ctx context.Context) error
}
