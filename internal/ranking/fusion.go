package ranking

import (
	"sort"
	"strconv"

	"github.com/custodia-labs/vectra-core/internal/core/domain"
)

// DefaultRRFK is the standard reciprocal rank fusion constant.
const DefaultRRFK = 60

func chunkKey(c *domain.Chunk) string {
	return c.Src + "#" + strconv.Itoa(c.ID)
}

// FuseRRF merges two ranked lists with reciprocal rank fusion:
// each list contributes 1/(k + rank) for every chunk it ranks, and the
// merged list is sorted by the summed score. Ties keep first-seen order,
// dense list first.
func FuseRRF(dense, sparse []domain.RankedChunk, k int) []domain.RankedChunk {
	if k <= 0 {
		k = DefaultRRFK
	}

	entries := make(map[string]*domain.RankedChunk)
	var order []*domain.RankedChunk

	add := func(list []domain.RankedChunk) {
		for rank := range list {
			key := chunkKey(&list[rank].Chunk)
			e, ok := entries[key]
			if !ok {
				e = &domain.RankedChunk{Chunk: list[rank].Chunk}
				entries[key] = e
				order = append(order, e)
			}
			e.Score += 1.0 / (float64(k) + float64(rank+1))
		}
	}
	add(dense)
	add(sparse)

	results := make([]domain.RankedChunk, 0, len(order))
	for _, e := range order {
		results = append(results, *e)
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

// FuseWeighted combines the two lists as a linear blend of max-normalized
// scores: denseWeight*dense + sparseWeight*sparse. A list whose best score
// is not positive contributes nothing.
func FuseWeighted(dense, sparse []domain.RankedChunk, denseWeight, sparseWeight float64) []domain.RankedChunk {
	entries := make(map[string]*domain.RankedChunk)
	var order []*domain.RankedChunk

	add := func(list []domain.RankedChunk, weight float64) {
		max := 0.0
		for i := range list {
			if list[i].Score > max {
				max = list[i].Score
			}
		}
		for i := range list {
			key := chunkKey(&list[i].Chunk)
			e, ok := entries[key]
			if !ok {
				e = &domain.RankedChunk{Chunk: list[i].Chunk}
				entries[key] = e
				order = append(order, e)
			}
			if max > 0 {
				e.Score += weight * (list[i].Score / max)
			}
		}
	}
	add(dense, denseWeight)
	add(sparse, sparseWeight)

	results := make([]domain.RankedChunk, 0, len(order))
	for _, e := range order {
		results = append(results, *e)
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}
