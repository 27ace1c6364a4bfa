package driven

import "context"

// Rasterizer renders document pages to images for visual embedding
type Rasterizer interface {
	// Open parses a document from memory.
	// The caller must Close the returned document.
	Open(ctx context.Context, data []byte) (RasterDocument, error)
}

// RasterDocument is an open document whose pages can be rendered one at
// a time, so a large document never holds all page images in memory.
type RasterDocument interface {
	// PageCount returns the number of pages
	PageCount() int

	// RenderPage renders one page (0-based) to PNG bytes at the given DPI
	RenderPage(page int, dpi float64) ([]byte, error)

	// Close releases resources held by the document
	Close() error
}
