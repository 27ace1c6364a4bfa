package fitz

import (
	"bytes"
	"context"
	"fmt"
	"testing"
)

// minimalPDF builds a valid PDF with the given number of blank pages,
// tracking byte offsets so the xref table is exact.
func minimalPDF(t *testing.T, pages int) []byte {
	t.Helper()

	var buf bytes.Buffer
	var offsets []int

	buf.WriteString("%PDF-1.4\n")

	addObj := func(s string) {
		offsets = append(offsets, buf.Len())
		buf.WriteString(s)
	}

	kids := ""
	for i := 0; i < pages; i++ {
		if i > 0 {
			kids += " "
		}
		kids += fmt.Sprintf("%d 0 R", 3+i)
	}

	addObj("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	addObj(fmt.Sprintf("2 0 obj\n<< /Type /Pages /Kids [%s] /Count %d >>\nendobj\n", kids, pages))
	for i := 0; i < pages; i++ {
		addObj(fmt.Sprintf("%d 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>\nendobj\n", 3+i))
	}

	xrefPos := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xrefPos)

	return buf.Bytes()
}

func TestRasterizer_Open_InvalidData(t *testing.T) {
	r := NewRasterizer()

	_, err := r.Open(context.Background(), []byte("not a document"))
	if err == nil {
		t.Fatal("expected error opening unrecognized data, got nil")
	}
}

func TestRasterizer_OpenAndRender(t *testing.T) {
	r := NewRasterizer()

	doc, err := r.Open(context.Background(), minimalPDF(t, 2))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer doc.Close()

	if doc.PageCount() != 2 {
		t.Fatalf("expected 2 pages, got %d", doc.PageCount())
	}

	png, err := doc.RenderPage(0, 150)
	if err != nil {
		t.Fatalf("RenderPage failed: %v", err)
	}
	if len(png) == 0 {
		t.Fatal("expected non-empty PNG")
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Errorf("expected PNG magic bytes, got %x", png[:4])
	}
}

func TestRasterizer_RenderPage_OutOfRange(t *testing.T) {
	r := NewRasterizer()

	doc, err := r.Open(context.Background(), minimalPDF(t, 1))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer doc.Close()

	if _, err := doc.RenderPage(1, 150); err == nil {
		t.Error("expected error rendering page past the end, got nil")
	}
	if _, err := doc.RenderPage(-1, 150); err == nil {
		t.Error("expected error rendering a negative page, got nil")
	}
}

func TestRasterizer_Close(t *testing.T) {
	r := NewRasterizer()

	doc, err := r.Open(context.Background(), minimalPDF(t, 1))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if err := doc.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}
