package extraction

import (
	"context"
	"log/slog"

	"github.com/custodia-labs/vectra-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.Extractor = (*Dispatcher)(nil)

// Dispatcher routes document bytes to the best-matching format handler.
// Extraction failures never propagate: a document that cannot be parsed
// yields an empty result so the pipeline records "zero content" instead
// of crashing the consumer.
type Dispatcher struct {
	registry driven.HandlerRegistry
	logger   *slog.Logger
}

// NewDispatcher creates a dispatcher over the given handler registry.
func NewDispatcher(registry driven.HandlerRegistry, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		registry: registry,
		logger:   logger,
	}
}

// Extract dispatches to the handler registered for the MIME type.
func (d *Dispatcher) Extract(ctx context.Context, data []byte, mimeType string) *driven.ExtractResult {
	handler := d.registry.Get(mimeType)
	if handler == nil {
		d.logger.Warn("no extraction handler for type", "mime_type", mimeType)
		return &driven.ExtractResult{}
	}

	result, err := handler.Extract(ctx, data)
	if err != nil {
		d.logger.Error("extraction failed", "mime_type", mimeType, "error", err)
		return &driven.ExtractResult{}
	}
	if result == nil {
		return &driven.ExtractResult{}
	}

	d.logger.Debug("extracted content",
		"mime_type", mimeType,
		"items", len(result.Items))

	return result
}
