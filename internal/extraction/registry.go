package extraction

import (
	"mime"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/vectra-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.HandlerRegistry = (*Registry)(nil)

// Registry implements HandlerRegistry with priority-based selection.
// When multiple handlers match a MIME type, the highest priority one is used.
type Registry struct {
	mu       sync.RWMutex
	handlers []driven.ExtractionHandler
}

// NewRegistry creates a new handler registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make([]driven.ExtractionHandler, 0),
	}
}

// Register registers a handler.
// Handlers are stored and later selected by priority.
func (r *Registry) Register(handler driven.ExtractionHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.handlers = append(r.handlers, handler)
}

// Get retrieves the best-matching handler for a MIME type.
// Returns nil if no handler is registered for the type.
// When multiple match, the highest priority handler is returned.
func (r *Registry) Get(mimeType string) driven.ExtractionHandler {
	matches := r.GetAll(mimeType)
	if len(matches) == 0 {
		return nil
	}
	return matches[0] // Already sorted by priority (highest first)
}

// GetAll retrieves all handlers that match a MIME type, sorted by priority (highest first).
func (r *Registry) GetAll(mimeType string) []driven.ExtractionHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []driven.ExtractionHandler

	for _, h := range r.handlers {
		if matchesMIMEType(h.SupportedTypes(), mimeType) {
			matches = append(matches, h)
		}
	}

	// Sort by priority (highest first)
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Priority() > matches[j].Priority()
	})

	return matches
}

// List returns all registered MIME types.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	typeSet := make(map[string]struct{})
	for _, h := range r.handlers {
		for _, t := range h.SupportedTypes() {
			typeSet[t] = struct{}{}
		}
	}

	types := make([]string, 0, len(typeSet))
	for t := range typeSet {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// matchesMIMEType checks if any of the supported types match the given MIME type.
// Supports wildcard matching (e.g., "text/*" matches "text/plain").
func matchesMIMEType(supportedTypes []string, mimeType string) bool {
	// Normalize the input
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))

	// Strip charset and other parameters
	if idx := strings.Index(mimeType, ";"); idx != -1 {
		mimeType = strings.TrimSpace(mimeType[:idx])
	}

	for _, supported := range supportedTypes {
		supported = strings.ToLower(strings.TrimSpace(supported))

		// Exact match
		if supported == mimeType {
			return true
		}

		// Wildcard match (e.g., "text/*" matches "text/plain")
		if strings.HasSuffix(supported, "/*") {
			prefix := supported[:len(supported)-1] // "text/"
			if strings.HasPrefix(mimeType, prefix) {
				return true
			}
		}

		// Universal wildcard
		if supported == "*/*" {
			return true
		}
	}

	return false
}

// extensionTypes maps extensions the stdlib mime table may not know.
var extensionTypes = map[string]string{
	".pdf":  "application/pdf",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".csv":  "text/csv",
	".md":   "text/markdown",
	".txt":  "text/plain",
	".html": "text/html",
	".htm":  "text/html",
}

// ResolveMimeType returns the MIME type to dispatch on: the explicit type
// when given, otherwise a type derived from the key's extension.
func ResolveMimeType(key, explicit string) string {
	if explicit != "" {
		return explicit
	}

	ext := strings.ToLower(filepath.Ext(key))
	if t, ok := extensionTypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}

// DefaultRegistry creates a registry with all built-in handlers pre-registered.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register(NewPDFHandler())
	r.Register(NewDOCXHandler())
	r.Register(NewPPTXHandler())
	r.Register(NewXLSXHandler())
	r.Register(NewCSVHandler())
	r.Register(NewHTMLHandler())
	r.Register(NewPlainTextHandler())

	return r
}
