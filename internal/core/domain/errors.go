package domain

import "errors"

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates the resource already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates authentication failed or missing
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the user lacks permission for this action
	ErrForbidden = errors.New("forbidden")

	// ErrEmbeddingNotReady indicates embeddings for the requested documents
	// are still being produced; the caller should retry after a short delay
	ErrEmbeddingNotReady = errors.New("embeddings not ready")

	// ErrEmbeddingService indicates the embedding service call failed
	ErrEmbeddingService = errors.New("embedding service error")

	// ErrNoContent indicates extraction produced zero content items
	ErrNoContent = errors.New("no extractable content")

	// ErrNoPagesEmbedded indicates every page of a visual ingestion failed
	ErrNoPagesEmbedded = errors.New("no pages embedded")

	// ErrTokenExpired indicates the auth token has expired
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid indicates the auth token is malformed or invalid
	ErrTokenInvalid = errors.New("token invalid")

	// ErrInvalidProvider indicates an unknown AI provider was specified
	ErrInvalidProvider = errors.New("invalid provider")

	// ErrServiceUnavailable indicates the AI service could not be reached
	ErrServiceUnavailable = errors.New("service unavailable")
)
