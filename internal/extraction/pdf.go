package extraction

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/custodia-labs/vectra-core/internal/core/domain"
	"github.com/custodia-labs/vectra-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ExtractionHandler = (*PDFHandler)(nil)

// PDFHandler extracts per-page text from PDF documents using pdfcpu and
// produces the scanned-document assessment that routes ingestion between
// the text and visual pipelines.
type PDFHandler struct {
	tempDir string
}

// NewPDFHandler creates a new PDF extraction handler.
func NewPDFHandler() *PDFHandler {
	tempDir := filepath.Join(os.TempDir(), "vectra-pdf")
	os.MkdirAll(tempDir, 0755)

	return &PDFHandler{tempDir: tempDir}
}

func (h *PDFHandler) SupportedTypes() []string {
	return []string{"application/pdf"}
}

func (h *PDFHandler) Priority() int {
	return 80 // Format-specific
}

// Extract pulls text page by page. pdfcpu has no direct text extraction,
// so page content streams are extracted to a scratch directory and the
// text-showing operators decoded from there.
func (h *PDFHandler) Extract(ctx context.Context, data []byte) (*driven.ExtractResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stamp := fmt.Sprintf("%d_%d", os.Getpid(), time.Now().UnixNano())

	tempFile := filepath.Join(h.tempDir, "extract_"+stamp+".pdf")
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write temp PDF file: %w", err)
	}
	defer os.Remove(tempFile)

	pdfCtx, err := api.ReadContextFile(tempFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF context: %w", err)
	}
	pageCount := pdfCtx.PageCount

	outDir := filepath.Join(h.tempDir, "pages_"+stamp)
	os.MkdirAll(outDir, 0755)
	defer os.RemoveAll(outDir)

	conf := model.NewDefaultConfiguration()
	if err := api.ExtractContentFile(tempFile, outDir, nil, conf); err != nil {
		return nil, fmt.Errorf("failed to extract PDF content: %w", err)
	}

	streams := readPageStreams(outDir)

	// Page dimensions for image-coverage ratios; zero dims disable the signal.
	var dims []pageDim
	if pd, err := pdfCtx.PageDims(); err == nil {
		for _, d := range pd {
			dims = append(dims, pageDim{width: d.Width, height: d.Height})
		}
	}

	result := &driven.ExtractResult{}
	stats := make([]pageStats, 0, pageCount)

	for pageNum := 1; pageNum <= pageCount; pageNum++ {
		content := parsePageContent(streams[pageNum])

		var dim pageDim
		if pageNum-1 < len(dims) {
			dim = dims[pageNum-1]
		}
		stats = append(stats, content.stats(dim))

		text := strings.TrimSpace(content.text)
		if text == "" {
			continue
		}
		result.Items = append(result.Items, domain.ContentItem{
			Text:     text,
			Location: domain.Location{Page: pageNum},
			CanSplit: true,
		})
	}

	result.OCR = assessOCR(stats, pageCount)

	return result, nil
}

// readPageStreams loads the extracted per-page content files keyed by page
// number. pdfcpu names them Content_page_N; older versions used page_N.
func readPageStreams(outDir string) map[int][]byte {
	streams := make(map[int][]byte)

	files, _ := os.ReadDir(outDir)
	for _, file := range files {
		if file.IsDir() {
			continue
		}

		var pageNum int
		if _, err := fmt.Sscanf(file.Name(), "Content_page_%d", &pageNum); err != nil {
			if _, err := fmt.Sscanf(file.Name(), "page_%d", &pageNum); err != nil {
				continue
			}
		}

		content, err := os.ReadFile(filepath.Join(outDir, file.Name()))
		if err != nil {
			continue
		}
		streams[pageNum] = content
	}

	return streams
}
