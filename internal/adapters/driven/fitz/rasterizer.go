package fitz

import (
	"context"
	"fmt"

	"github.com/gen2brain/go-fitz"

	"github.com/custodia-labs/vectra-core/internal/core/ports/driven"
)

// Verify interface compliance
var (
	_ driven.Rasterizer     = (*Rasterizer)(nil)
	_ driven.RasterDocument = (*Document)(nil)
)

// Rasterizer renders document pages to PNG images via MuPDF. It handles
// PDF natively plus the other formats MuPDF recognizes (XPS, EPUB).
type Rasterizer struct{}

// NewRasterizer creates a page rasterizer
func NewRasterizer() *Rasterizer {
	return &Rasterizer{}
}

// Open parses a document from memory. The caller must Close it.
func (r *Rasterizer) Open(ctx context.Context, data []byte) (driven.RasterDocument, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	return &Document{doc: doc}, nil
}

// Document is an open MuPDF document. Pages are rendered one at a time;
// the underlying library serializes concurrent renders internally.
type Document struct {
	doc *fitz.Document
}

// PageCount returns the number of pages
func (d *Document) PageCount() int {
	return d.doc.NumPage()
}

// RenderPage renders one page (0-based) to PNG bytes at the given DPI
func (d *Document) RenderPage(page int, dpi float64) ([]byte, error) {
	if page < 0 || page >= d.doc.NumPage() {
		return nil, fmt.Errorf("page %d out of range for %d-page document", page, d.doc.NumPage())
	}

	png, err := d.doc.ImagePNG(page, dpi)
	if err != nil {
		return nil, fmt.Errorf("failed to render page %d: %w", page, err)
	}
	return png, nil
}

// Close releases resources held by the document
func (d *Document) Close() error {
	return d.doc.Close()
}
