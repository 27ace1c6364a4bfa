package extraction

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/custodia-labs/vectra-core/internal/core/domain"
	"github.com/custodia-labs/vectra-core/internal/core/ports/driven"
)

// Verify interface compliance
var (
	_ driven.ExtractionHandler = (*DOCXHandler)(nil)
	_ driven.ExtractionHandler = (*PPTXHandler)(nil)
)

// DOCXHandler extracts paragraph text from Word documents. OOXML is a zip
// archive; the body lives in word/document.xml and table cell text flows
// through the same paragraph elements.
type DOCXHandler struct{}

// NewDOCXHandler creates a new DOCX extraction handler.
func NewDOCXHandler() *DOCXHandler {
	return &DOCXHandler{}
}

func (h *DOCXHandler) SupportedTypes() []string {
	return []string{"application/vnd.openxmlformats-officedocument.wordprocessingml.document"}
}

func (h *DOCXHandler) Priority() int {
	return 70 // Format-specific
}

func (h *DOCXHandler) Extract(ctx context.Context, data []byte) (*driven.ExtractResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open docx archive: %w", err)
	}

	var docFile *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return nil, fmt.Errorf("docx archive has no word/document.xml")
	}

	rc, err := docFile.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open document.xml: %w", err)
	}
	defer rc.Close()

	paragraphs, err := decodeParagraphs(rc)
	if err != nil {
		return nil, err
	}

	result := &driven.ExtractResult{}
	for _, text := range paragraphs {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		result.Items = append(result.Items, domain.ContentItem{
			Text:     text,
			Location: domain.Location{Section: "body"},
			CanSplit: true,
		})
	}
	return result, nil
}

// PPTXHandler extracts slide text from PowerPoint documents, one content
// item per slide with the slide number as its page.
type PPTXHandler struct{}

// NewPPTXHandler creates a new PPTX extraction handler.
func NewPPTXHandler() *PPTXHandler {
	return &PPTXHandler{}
}

func (h *PPTXHandler) SupportedTypes() []string {
	return []string{"application/vnd.openxmlformats-officedocument.presentationml.presentation"}
}

func (h *PPTXHandler) Priority() int {
	return 70 // Format-specific
}

func (h *PPTXHandler) Extract(ctx context.Context, data []byte) (*driven.ExtractResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open pptx archive: %w", err)
	}

	slides := make(map[int]*zip.File)
	var nums []int
	for _, f := range zr.File {
		var n int
		if _, err := fmt.Sscanf(f.Name, "ppt/slides/slide%d.xml", &n); err == nil {
			slides[n] = f
			nums = append(nums, n)
		}
	}
	sort.Ints(nums)

	result := &driven.ExtractResult{}
	for _, n := range nums {
		rc, err := slides[n].Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open slide %d: %w", n, err)
		}
		paragraphs, err := decodeParagraphs(rc)
		rc.Close()
		if err != nil {
			return nil, err
		}

		text := strings.TrimSpace(strings.Join(paragraphs, " "))
		if text == "" {
			continue
		}
		result.Items = append(result.Items, domain.ContentItem{
			Text:     text,
			Location: domain.Location{Page: n},
			CanSplit: true,
		})
	}
	return result, nil
}

// decodeParagraphs streams an OOXML part, collecting the character data of
// <t> runs grouped by their enclosing <p> paragraph. Matching on local
// names keeps it namespace-agnostic, covering both w: (docx) and a: (pptx)
// vocabularies.
func decodeParagraphs(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)

	var paragraphs []string
	var current strings.Builder
	inPara := false
	inText := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("malformed document xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				inPara = true
				current.Reset()
			case "t":
				if inPara {
					inText = true
				}
			case "tab", "br":
				if inPara {
					current.WriteByte(' ')
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				if inPara {
					paragraphs = append(paragraphs, current.String())
					inPara = false
				}
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}
	return paragraphs, nil
}
