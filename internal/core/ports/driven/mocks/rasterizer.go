package mocks

import (
	"context"
	"fmt"

	"github.com/custodia-labs/vectra-core/internal/core/ports/driven"
)

// Ensure mocks implement the rasterizer ports
var (
	_ driven.Rasterizer     = (*MockRasterizer)(nil)
	_ driven.RasterDocument = (*MockRasterDocument)(nil)
)

// MockRasterizer is a mock implementation of Rasterizer for testing
type MockRasterizer struct {
	// Pages is the page count returned for any opened document
	Pages int

	// FailPages makes RenderPage fail for specific page indexes
	FailPages map[int]bool

	// OpenErr makes Open fail when set
	OpenErr error
}

// NewMockRasterizer creates a new MockRasterizer with 3 pages
func NewMockRasterizer() *MockRasterizer {
	return &MockRasterizer{
		Pages:     3,
		FailPages: make(map[int]bool),
	}
}

func (m *MockRasterizer) Open(ctx context.Context, data []byte) (driven.RasterDocument, error) {
	if m.OpenErr != nil {
		return nil, m.OpenErr
	}
	return &MockRasterDocument{pages: m.Pages, failPages: m.FailPages}, nil
}

// MockRasterDocument is the document handle returned by MockRasterizer
type MockRasterDocument struct {
	pages     int
	failPages map[int]bool
	closed    bool
}

func (d *MockRasterDocument) PageCount() int {
	return d.pages
}

func (d *MockRasterDocument) RenderPage(page int, dpi float64) ([]byte, error) {
	if page < 0 || page >= d.pages {
		return nil, fmt.Errorf("page %d out of range", page)
	}
	if d.failPages[page] {
		return nil, fmt.Errorf("render failed for page %d", page)
	}
	return []byte(fmt.Sprintf("png-page-%d@%g", page, dpi)), nil
}

func (d *MockRasterDocument) Close() error {
	d.closed = true
	return nil
}

// Closed reports whether Close was called (for test assertions)
func (d *MockRasterDocument) Closed() bool {
	return d.closed
}
