package extraction

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/custodia-labs/vectra-core/internal/core/domain"
	"github.com/custodia-labs/vectra-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ExtractionHandler = (*HTMLHandler)(nil)

const htmlBlockSelector = "h1, h2, h3, h4, h5, h6, p, li, blockquote, td, th, pre"

// HTMLHandler extracts visible text from HTML, one content item per block
// element. Web-clipped uploads arrive as HTML.
type HTMLHandler struct{}

// NewHTMLHandler creates a new HTML extraction handler.
func NewHTMLHandler() *HTMLHandler {
	return &HTMLHandler{}
}

func (h *HTMLHandler) SupportedTypes() []string {
	return []string{"text/html", "application/xhtml+xml"}
}

func (h *HTMLHandler) Priority() int {
	return 60 // Format-specific
}

func (h *HTMLHandler) Extract(ctx context.Context, data []byte) (*driven.ExtractResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	doc.Find("script, style, noscript, template").Remove()

	result := &driven.ExtractResult{}
	doc.Find(htmlBlockSelector).Each(func(_ int, sel *goquery.Selection) {
		// Containers whose text will surface through nested blocks (a list
		// item wrapping paragraphs, say) are skipped to avoid duplicates.
		if sel.Find(htmlBlockSelector).Length() > 0 {
			return
		}

		if goquery.NodeName(sel) == "pre" {
			text := strings.Trim(sel.Text(), "\n")
			if strings.TrimSpace(text) == "" {
				return
			}
			result.Items = append(result.Items, domain.ContentItem{
				Text:     text,
				CanSplit: false,
			})
			return
		}

		text := strings.Join(strings.Fields(sel.Text()), " ")
		if text == "" {
			return
		}
		result.Items = append(result.Items, domain.ContentItem{
			Text:     text,
			CanSplit: true,
		})
	})

	// Documents without block markup still carry body text.
	if len(result.Items) == 0 {
		if text := strings.Join(strings.Fields(doc.Find("body").Text()), " "); text != "" {
			result.Items = append(result.Items, domain.ContentItem{
				Text:     text,
				CanSplit: true,
			})
		}
	}

	return result, nil
}
