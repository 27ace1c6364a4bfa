package extraction

import (
	"context"
	"errors"
	"testing"
)

func TestDispatcher_Extract(t *testing.T) {
	r := NewRegistry()
	r.Register(&mockHandler{name: "plain", types: []string{"text/plain"}, priority: 50})

	d := NewDispatcher(r, nil)

	result := d.Extract(context.Background(), []byte("hello"), "text/plain")
	if len(result.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(result.Items))
	}
	if result.Items[0].Text != "plain" {
		t.Errorf("expected plain handler output, got %s", result.Items[0].Text)
	}
}

func TestDispatcher_Extract_NoHandler(t *testing.T) {
	d := NewDispatcher(NewRegistry(), nil)

	result := d.Extract(context.Background(), []byte("data"), "application/unknown")
	if result == nil {
		t.Fatal("expected empty result, got nil")
	}
	if len(result.Items) != 0 {
		t.Errorf("expected no items for unhandled type, got %d", len(result.Items))
	}
}

func TestDispatcher_Extract_HandlerFailure(t *testing.T) {
	r := NewRegistry()
	r.Register(&mockHandler{
		name:       "broken",
		types:      []string{"application/pdf"},
		priority:   80,
		extractErr: errors.New("corrupt file"),
	})

	d := NewDispatcher(r, nil)

	// Failures surface as zero content, never as an error.
	result := d.Extract(context.Background(), []byte("not a pdf"), "application/pdf")
	if result == nil {
		t.Fatal("expected empty result, got nil")
	}
	if len(result.Items) != 0 {
		t.Errorf("expected no items from failing handler, got %d", len(result.Items))
	}
}
