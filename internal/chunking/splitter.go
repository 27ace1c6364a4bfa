package chunking

import "strings"

// normalizeWhitespace collapses all whitespace runs into single spaces
// and trims the ends.
func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func isCloser(r rune) bool {
	switch r {
	case '"', '\'', ')', ']', '”', '’':
		return true
	}
	return false
}

// SplitSentences splits text into whitespace-normalized sentences.
// A sentence ends at a run of '.', '!' or '?', optionally followed by
// closing quotes or brackets, when the next character is a space or the
// end of the text. Joining the returned sentences with single spaces
// reproduces the normalized input exactly.
func SplitSentences(text string) []string {
	normalized := normalizeWhitespace(text)
	if normalized == "" {
		return nil
	}

	runes := []rune(normalized)
	var sentences []string
	start := 0

	for i := 0; i < len(runes); i++ {
		if !isTerminator(runes[i]) {
			continue
		}

		end := i
		for end+1 < len(runes) && isTerminator(runes[end+1]) {
			end++
		}
		for end+1 < len(runes) && isCloser(runes[end+1]) {
			end++
		}

		// Only a space (or end of text) after the terminator run closes
		// the sentence; "3.14" stays whole.
		if end+1 < len(runes) && runes[end+1] != ' ' {
			i = end
			continue
		}

		sentences = append(sentences, string(runes[start:end+1]))
		start = end + 2 // skip the boundary space
		i = end + 1
	}

	if start < len(runes) {
		sentences = append(sentences, string(runes[start:]))
	}

	return sentences
}
