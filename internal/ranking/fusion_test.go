package ranking

import (
	"math"
	"testing"

	"github.com/custodia-labs/vectra-core/internal/core/domain"
)

func ranked(src string, id int, score float64) domain.RankedChunk {
	return domain.RankedChunk{
		Chunk: domain.Chunk{ID: id, Src: src, Content: "content"},
		Score: score,
	}
}

func TestFuseRRF(t *testing.T) {
	dense := []domain.RankedChunk{
		ranked("doc-1", 0, 0.95), // A
		ranked("doc-1", 1, 0.90), // B
	}
	sparse := []domain.RankedChunk{
		ranked("doc-1", 1, 7.2), // B
		ranked("doc-2", 0, 3.1), // C
	}

	results := FuseRRF(dense, sparse, 60)
	if len(results) != 3 {
		t.Fatalf("expected 3 fused results, got %d", len(results))
	}

	// B appears in both lists so it wins regardless of raw scores.
	if results[0].Src != "doc-1" || results[0].ID != 1 {
		t.Errorf("expected doc-1/1 first, got %s/%d", results[0].Src, results[0].ID)
	}

	wantB := 1.0/61.0 + 1.0/62.0
	if math.Abs(results[0].Score-wantB) > 1e-9 {
		t.Errorf("expected fused score %f, got %f", wantB, results[0].Score)
	}

	wantA := 1.0 / 61.0
	if math.Abs(results[1].Score-wantA) > 1e-9 {
		t.Errorf("expected second score %f, got %f", wantA, results[1].Score)
	}

	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Errorf("expected descending scores at %d: %f then %f", i, results[i-1].Score, results[i].Score)
		}
	}
}

func TestFuseRRF_DefaultK(t *testing.T) {
	dense := []domain.RankedChunk{ranked("doc-1", 0, 1.0)}

	results := FuseRRF(dense, nil, 0)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	want := 1.0 / float64(DefaultRRFK+1)
	if math.Abs(results[0].Score-want) > 1e-9 {
		t.Errorf("expected default-k score %f, got %f", want, results[0].Score)
	}
}

func TestFuseRRF_Empty(t *testing.T) {
	if results := FuseRRF(nil, nil, 60); len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestFuseWeighted(t *testing.T) {
	dense := []domain.RankedChunk{
		ranked("doc-1", 0, 2.0), // A
		ranked("doc-1", 1, 1.0), // B
	}
	sparse := []domain.RankedChunk{
		ranked("doc-1", 1, 4.0), // B
		ranked("doc-2", 0, 1.0), // C
	}

	results := FuseWeighted(dense, sparse, 0.7, 0.3)
	if len(results) != 3 {
		t.Fatalf("expected 3 fused results, got %d", len(results))
	}

	// A: 0.7*(2/2) = 0.70
	// B: 0.7*(1/2) + 0.3*(4/4) = 0.65
	// C: 0.3*(1/4) = 0.075
	if results[0].Src != "doc-1" || results[0].ID != 0 {
		t.Errorf("expected doc-1/0 first, got %s/%d", results[0].Src, results[0].ID)
	}
	if math.Abs(results[0].Score-0.70) > 1e-9 {
		t.Errorf("expected score 0.70, got %f", results[0].Score)
	}
	if results[1].ID != 1 || math.Abs(results[1].Score-0.65) > 1e-9 {
		t.Errorf("expected doc-1/1 at 0.65, got %s/%d at %f", results[1].Src, results[1].ID, results[1].Score)
	}
	if results[2].Src != "doc-2" || math.Abs(results[2].Score-0.075) > 1e-9 {
		t.Errorf("expected doc-2/0 at 0.075, got %s/%d at %f", results[2].Src, results[2].ID, results[2].Score)
	}
}

func TestFuseWeighted_NonPositiveScores(t *testing.T) {
	// Cosine-style scores can go negative; a list with no positive score
	// contributes nothing rather than inverting the ranking.
	dense := []domain.RankedChunk{
		ranked("doc-1", 0, -0.2),
		ranked("doc-1", 1, -0.5),
	}
	sparse := []domain.RankedChunk{
		ranked("doc-1", 1, 2.0),
	}

	results := FuseWeighted(dense, sparse, 0.5, 0.5)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].ID != 1 {
		t.Errorf("expected sparse hit first, got chunk %d", results[0].ID)
	}
	if math.Abs(results[0].Score-0.5) > 1e-9 {
		t.Errorf("expected score 0.5, got %f", results[0].Score)
	}
	for _, r := range results[1:] {
		if r.Score != 0 {
			t.Errorf("expected zero contribution from non-positive list, got %f", r.Score)
		}
	}
}

func TestFuseWeighted_SameChunkAcrossDocuments(t *testing.T) {
	// Chunks are keyed by (src, ordinal): ordinal 0 of two documents must
	// not collapse into one entry.
	dense := []domain.RankedChunk{ranked("doc-1", 0, 1.0)}
	sparse := []domain.RankedChunk{ranked("doc-2", 0, 1.0)}

	results := FuseWeighted(dense, sparse, 0.5, 0.5)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
}
