package extraction

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/custodia-labs/vectra-core/internal/core/domain"
	"github.com/custodia-labs/vectra-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ExtractionHandler = (*XLSXHandler)(nil)

// XLSXHandler flattens workbook rows into atomic content items. Rows are
// tabular, not prose, so they never merge with neighboring sentences.
type XLSXHandler struct{}

// NewXLSXHandler creates a new XLSX extraction handler.
func NewXLSXHandler() *XLSXHandler {
	return &XLSXHandler{}
}

func (h *XLSXHandler) SupportedTypes() []string {
	return []string{"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"}
}

func (h *XLSXHandler) Priority() int {
	return 70 // Format-specific
}

func (h *XLSXHandler) Extract(ctx context.Context, data []byte) (*driven.ExtractResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	result := &driven.ExtractResult{}
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
		}

		for _, row := range rows {
			cells := make([]string, 0, len(row))
			for _, c := range row {
				if s := strings.TrimSpace(c); s != "" {
					cells = append(cells, s)
				}
			}
			if len(cells) == 0 {
				continue
			}
			result.Items = append(result.Items, domain.ContentItem{
				Text:     strings.Join(cells, ", "),
				Location: domain.Location{Sheet: sheet},
				CanSplit: false,
			})
		}
	}
	return result, nil
}
