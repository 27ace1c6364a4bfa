package ranking

import (
	"math"
	"sort"
	"strings"

	"github.com/custodia-labs/vectra-core/internal/core/domain"
)

// Index is an in-memory BM25 index over a candidate chunk set. Retrieval
// builds one per query from the chunks of the searched documents, so the
// index is write-then-read and not safe for concurrent use.
type Index struct {
	chunks     []*domain.Chunk
	termFreqs  []map[string]int
	docFreqs   map[string]int
	docLengths []int
	totalLen   int
	k1         float64
	b          float64
}

// NewIndex creates an empty BM25 index with standard parameters.
func NewIndex() *Index {
	return &Index{
		docFreqs: make(map[string]int),
		k1:       1.2,
		b:        0.75,
	}
}

// Add indexes a chunk's content.
func (idx *Index) Add(chunk *domain.Chunk) {
	terms := tokenize(chunk.Content)
	freqs := make(map[string]int, len(terms))
	for _, term := range terms {
		freqs[term]++
	}
	for term := range freqs {
		idx.docFreqs[term]++
	}

	idx.chunks = append(idx.chunks, chunk)
	idx.termFreqs = append(idx.termFreqs, freqs)
	idx.docLengths = append(idx.docLengths, len(terms))
	idx.totalLen += len(terms)
}

// Len returns the number of indexed chunks.
func (idx *Index) Len() int {
	return len(idx.chunks)
}

// Search scores the indexed chunks against the query and returns the topK
// matches by descending score. Chunks sharing no query term are omitted.
func (idx *Index) Search(query string, topK int) []domain.RankedChunk {
	queryTerms := tokenize(query)
	if len(queryTerms) == 0 || len(idx.chunks) == 0 {
		return nil
	}

	n := float64(len(idx.chunks))
	avgLen := float64(idx.totalLen) / n

	scores := make([]float64, len(idx.chunks))
	matched := make([]bool, len(idx.chunks))

	for _, term := range queryTerms {
		df := idx.docFreqs[term]
		if df == 0 {
			continue
		}
		idf := math.Log((n-float64(df)+0.5)/(float64(df)+0.5) + 1)

		for i, freqs := range idx.termFreqs {
			tf := float64(freqs[term])
			if tf == 0 {
				continue
			}
			docLen := float64(idx.docLengths[i])
			scores[i] += idf * (tf * (idx.k1 + 1)) / (tf + idx.k1*(1-idx.b+idx.b*docLen/avgLen))
			matched[i] = true
		}
	}

	var results []domain.RankedChunk
	for i, ok := range matched {
		if !ok {
			continue
		}
		results = append(results, domain.RankedChunk{Chunk: *idx.chunks[i], Score: scores[i]})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}
	return results
}

// tokenize lowercases, splits on whitespace, and strips surrounding
// punctuation from each token.
func tokenize(text string) []string {
	words := strings.Fields(strings.ToLower(text))

	var tokens []string
	for _, word := range words {
		cleaned := strings.Trim(word, ".,!?;:\"'()[]{}#$%&*+-/<>=@\\^_`|~")
		if len(cleaned) > 0 {
			tokens = append(tokens, cleaned)
		}
	}
	return tokens
}
