package chunking

import (
	"strings"

	"github.com/custodia-labs/vectra-core/internal/core/domain"
	"github.com/custodia-labs/vectra-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.Chunker = (*Builder)(nil)

// Config configures chunk building.
type Config struct {
	// MinChunkSize is the character floor for sealed chunks: sentences
	// accumulate until the chunk reaches at least this size. Only the
	// final chunk of a document may be smaller.
	MinChunkSize int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MinChunkSize: 512,
	}
}

// Builder groups content items into retrieval chunks.
//
// Splittable items are sentence-tokenized and flattened into one ordered
// stream across all items, so a chunk may span item (e.g. page)
// boundaries. Non-splittable items pass through as a single chunk
// unchanged. Chunk ordinals, character offsets, and provenance are
// deterministic for a given input, which keeps re-chunking idempotent.
type Builder struct {
	config Config
}

// NewBuilder creates a new chunk builder with the given config.
func NewBuilder(config Config) *Builder {
	if config.MinChunkSize <= 0 {
		config.MinChunkSize = DefaultConfig().MinChunkSize
	}
	return &Builder{config: config}
}

// accumulator collects sentences for the chunk under construction.
type accumulator struct {
	sentences   []string
	size        int
	locations   []domain.Location
	origIndexes []int
}

func (a *accumulator) add(sentence string, loc domain.Location, origIndex int) {
	if len(a.sentences) > 0 {
		a.size++ // joining space
	}
	a.sentences = append(a.sentences, sentence)
	a.size += len(sentence)

	if n := len(a.locations); n == 0 || a.locations[n-1] != loc {
		a.locations = append(a.locations, loc)
	}
	if n := len(a.origIndexes); n == 0 || a.origIndexes[n-1] != origIndex {
		a.origIndexes = append(a.origIndexes, origIndex)
	}
}

// Chunk builds chunks for a source from its content items.
//
// Rejoining the returned chunk contents with single spaces reproduces
// the whitespace-normalized sentence stream losslessly; no sentence is
// ever split across chunks.
func (b *Builder) Chunk(items []domain.ContentItem, src string) []*domain.Chunk {
	var chunks []*domain.Chunk
	charIndex := 0
	acc := &accumulator{}

	seal := func() {
		if acc.size == 0 {
			return
		}
		content := strings.Join(acc.sentences, " ")
		chunks = append(chunks, &domain.Chunk{
			ID:          len(chunks),
			Src:         src,
			Content:     content,
			Locations:   acc.locations,
			OrigIndexes: acc.origIndexes,
			CharIndex:   charIndex,
			TokenCount:  domain.EstimateTokens(content),
		})
		charIndex += len(content) + 1
		acc = &accumulator{}
	}

	for i, item := range items {
		if !item.CanSplit {
			// Atomic items keep their exact text and never merge with
			// neighboring sentences.
			seal()
			if item.Text == "" {
				continue
			}
			tokens := item.TokenCount
			if tokens <= 0 {
				tokens = domain.EstimateTokens(item.Text)
			}
			chunks = append(chunks, &domain.Chunk{
				ID:          len(chunks),
				Src:         src,
				Content:     item.Text,
				Locations:   []domain.Location{item.Location},
				OrigIndexes: []int{i},
				CharIndex:   charIndex,
				TokenCount:  tokens,
			})
			charIndex += len(item.Text) + 1
			continue
		}

		for _, sentence := range SplitSentences(item.Text) {
			acc.add(sentence, item.Location, i)
			if acc.size >= b.config.MinChunkSize {
				seal()
			}
		}
	}
	seal()

	return chunks
}
