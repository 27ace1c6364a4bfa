package extraction

import (
	"bytes"
	"context"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/ianaindex"

	"github.com/custodia-labs/vectra-core/internal/core/domain"
	"github.com/custodia-labs/vectra-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ExtractionHandler = (*PlainTextHandler)(nil)

// minDetectConfidence gates the charset sniffer: below this the bytes are
// treated as unrecognizable and the document yields zero content.
const minDetectConfidence = 0.7

// PlainTextHandler handles text content and serves as the universal
// fallback. Valid UTF-8 passes straight through; anything else goes
// through charset detection and is decoded only on a confident match, so
// binary uploads fall out as empty rather than as mojibake chunks.
type PlainTextHandler struct{}

// NewPlainTextHandler creates a new plain text extraction handler.
func NewPlainTextHandler() *PlainTextHandler {
	return &PlainTextHandler{}
}

func (h *PlainTextHandler) SupportedTypes() []string {
	return []string{"text/plain", "text/markdown", "text/x-markdown", "*/*"} // Fallback for any type
}

func (h *PlainTextHandler) Priority() int {
	return 1 // Lowest priority - fallback
}

func (h *PlainTextHandler) Extract(ctx context.Context, data []byte) (*driven.ExtractResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return &driven.ExtractResult{}, nil
	}

	var text string
	if utf8.Valid(data) {
		text = string(data)
	} else {
		decoded, ok := sniffAndDecode(data)
		if !ok {
			return &driven.ExtractResult{}, nil
		}
		text = decoded
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimSpace(strings.TrimPrefix(text, "\ufeff"))
	if text == "" {
		return &driven.ExtractResult{}, nil
	}

	return &driven.ExtractResult{
		Items: []domain.ContentItem{
			{Text: text, CanSplit: true},
		},
	}, nil
}

// sniffAndDecode detects the charset of non-UTF-8 bytes and decodes them.
// Returns false when detection is unconfident or the charset unknown.
func sniffAndDecode(data []byte) (string, bool) {
	best, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil {
		return "", false
	}
	if float64(best.Confidence)/100 <= minDetectConfidence {
		return "", false
	}

	enc, err := ianaindex.IANA.Encoding(best.Charset)
	if err != nil || enc == nil {
		return "", false
	}

	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", false
	}
	return string(decoded), true
}
