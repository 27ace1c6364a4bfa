package extraction

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/custodia-labs/vectra-core/internal/core/domain"
	"github.com/custodia-labs/vectra-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ExtractionHandler = (*CSVHandler)(nil)

// csvBatchSize is how many records fold into one content item.
const csvBatchSize = 50

// CSVHandler groups CSV records into atomic batch items so wide files do
// not explode into thousands of tiny chunks.
type CSVHandler struct{}

// NewCSVHandler creates a new CSV extraction handler.
func NewCSVHandler() *CSVHandler {
	return &CSVHandler{}
}

func (h *CSVHandler) SupportedTypes() []string {
	return []string{"text/csv", "application/csv"}
}

func (h *CSVHandler) Priority() int {
	return 60 // Format-specific
}

func (h *CSVHandler) Extract(ctx context.Context, data []byte) (*driven.ExtractResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	result := &driven.ExtractResult{}
	var batch []string
	start := 1
	row := 0

	flush := func() {
		if len(batch) == 0 {
			return
		}
		result.Items = append(result.Items, domain.ContentItem{
			Text:     strings.Join(batch, "\n"),
			Location: domain.Location{Section: fmt.Sprintf("records %d-%d", start, row)},
			CanSplit: false,
		})
		batch = nil
		start = row + 1
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse csv: %w", err)
		}
		row++

		fields := make([]string, 0, len(record))
		for _, f := range record {
			if s := strings.TrimSpace(f); s != "" {
				fields = append(fields, s)
			}
		}
		if len(fields) == 0 {
			continue
		}

		batch = append(batch, strings.Join(fields, ", "))
		if len(batch) >= csvBatchSize {
			flush()
		}
	}
	flush()

	return result, nil
}
