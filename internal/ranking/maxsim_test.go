package ranking

import (
	"math"
	"testing"
)

func TestMaxSim(t *testing.T) {
	query := [][]float32{
		{1, 0},
		{0, 1},
	}
	page := [][]float32{
		{0.5, 0},
		{0, 2},
		{1, 1},
	}

	// First query vector's best match is (1,1) at 1.0; second's is (0,2)
	// at 2.0.
	got := MaxSim(query, page)
	if math.Abs(got-3.0) > 1e-9 {
		t.Errorf("expected 3.0, got %f", got)
	}
}

func TestMaxSim_Empty(t *testing.T) {
	if got := MaxSim(nil, [][]float32{{1, 2}}); got != 0 {
		t.Errorf("expected 0 for empty query, got %f", got)
	}
	if got := MaxSim([][]float32{{1, 2}}, nil); got != 0 {
		t.Errorf("expected 0 for empty page, got %f", got)
	}
}

func TestMaxSim_NegativeBest(t *testing.T) {
	// The best match still counts even when all products are negative.
	query := [][]float32{{1, 0}}
	page := [][]float32{
		{-2, 0},
		{-1, 0},
	}

	got := MaxSim(query, page)
	if math.Abs(got-(-1.0)) > 1e-9 {
		t.Errorf("expected -1.0, got %f", got)
	}
}

func TestDot_MismatchedLengths(t *testing.T) {
	got := dot([]float32{1, 2, 3}, []float32{4, 5})
	if math.Abs(got-14.0) > 1e-9 {
		t.Errorf("expected 14.0 over the shared prefix, got %f", got)
	}
}
