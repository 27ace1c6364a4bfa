package extraction

import (
	"strings"
	"unicode"

	"github.com/custodia-labs/vectra-core/internal/core/domain"
)

// Assessment thresholds. Averages are over the sampled pages only.
const (
	lowTextChars      = 100 // avg chars/page below this reads as scanned
	emptyPageChars    = 10
	manyEmptyRatio    = 0.5
	highCoverageRatio = 0.5
	lowQualityScore   = 0.5
	minQualityChars   = 20 // below this there is too little text to judge
	maxFontVariety    = 7
	minSamplePages    = 5
)

// Signal weights; the combined confidence is capped at 1.0.
const (
	weightVeryLowText   = 0.4
	weightManyEmpty     = 0.3
	weightHighCoverage  = 0.35
	weightLikelyScanned = 0.15
	weightQuality       = 0.2
	weightFontAnomalies = 0.1
)

// samplePages picks max(5, totalPages/3) page numbers spread evenly
// across the document.
func samplePages(totalPages int) []int {
	if totalPages <= 0 {
		return nil
	}

	n := totalPages / 3
	if n < minSamplePages {
		n = minSamplePages
	}
	if n >= totalPages {
		pages := make([]int, totalPages)
		for i := range pages {
			pages[i] = i + 1
		}
		return pages
	}

	pages := make([]int, 0, n)
	step := float64(totalPages) / float64(n)
	for i := 0; i < n; i++ {
		pages = append(pages, int(float64(i)*step)+1)
	}
	return pages
}

// assessOCR combines per-page signals from a page sample into the
// scanned-document confidence that routes ingestion.
func assessOCR(stats []pageStats, totalPages int) *domain.OCRAssessment {
	assessment := &domain.OCRAssessment{TotalPages: totalPages}
	if len(stats) == 0 || totalPages <= 0 {
		assessment.Recommendation = assessment.Recommend()
		return assessment
	}

	var sampled []pageStats
	for _, p := range samplePages(totalPages) {
		if p-1 < len(stats) {
			sampled = append(sampled, stats[p-1])
		}
	}
	if len(sampled) == 0 {
		assessment.Recommendation = assessment.Recommend()
		return assessment
	}
	assessment.SampledPages = len(sampled)

	var totalChars, emptyPages int
	var coverage float64
	var texts []string
	fontAnomaly := false

	for _, s := range sampled {
		totalChars += s.textLen
		if s.textLen < emptyPageChars {
			emptyPages++
		} else if s.fontCount == 0 || s.fontCount > maxFontVariety {
			fontAnomaly = true
		}
		coverage += s.imageCoverage
		if s.text != "" {
			texts = append(texts, s.text)
		}
	}

	avgChars := float64(totalChars) / float64(len(sampled))
	emptyRatio := float64(emptyPages) / float64(len(sampled))
	avgCoverage := coverage / float64(len(sampled))

	confidence := 0.0
	var indicators []domain.OCRIndicator

	if avgChars < lowTextChars {
		confidence += weightVeryLowText
		indicators = append(indicators, domain.IndicatorVeryLowText)
	}
	if emptyRatio > manyEmptyRatio {
		confidence += weightManyEmpty
		indicators = append(indicators, domain.IndicatorManyEmptyPages)
	}
	if avgCoverage > highCoverageRatio {
		confidence += weightHighCoverage
		indicators = append(indicators, domain.IndicatorHighImageCoverage)
	}
	if avgChars < lowTextChars && avgCoverage > highCoverageRatio {
		confidence += weightLikelyScanned
		indicators = append(indicators, domain.IndicatorLikelyScanned)
	}

	if joined := strings.Join(texts, " "); len(joined) >= minQualityChars {
		if textQualityScore(joined) < lowQualityScore {
			confidence += weightQuality
			indicators = append(indicators, domain.IndicatorTextQualityIssues)
		}
	}
	if fontAnomaly {
		confidence += weightFontAnomalies
		indicators = append(indicators, domain.IndicatorFontAnomalies)
	}

	if confidence > 1 {
		confidence = 1
	}
	assessment.Confidence = confidence
	assessment.IsOCR = confidence > 0.5
	assessment.Indicators = indicators
	assessment.Recommendation = assessment.Recommend()
	return assessment
}

// textQualityScore rates extracted text between 0 (garbage) and 1 (clean),
// penalizing special-character noise, broken single-letter words,
// digit-letter confusions, and fragmented sentences.
func textQualityScore(text string) float64 {
	words := strings.Fields(text)
	if len(words) == 0 {
		return 0
	}

	var total, special int
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !strings.ContainsRune(`.,;:!?'"()-`, r) {
			special++
		}
	}
	specialRatio := 0.0
	if total > 0 {
		specialRatio = float64(special) / float64(total)
	}

	var broken, confused int
	for _, w := range words {
		runes := []rune(w)
		if len(runes) == 1 && unicode.IsLetter(runes[0]) {
			switch runes[0] {
			case 'a', 'A', 'i', 'I':
			default:
				broken++
			}
		}
		hasDigit, hasLetter := false, false
		for _, r := range runes {
			if unicode.IsDigit(r) {
				hasDigit = true
			}
			if unicode.IsLetter(r) {
				hasLetter = true
			}
		}
		if hasDigit && hasLetter {
			confused++
		}
	}
	brokenRatio := float64(broken) / float64(len(words))
	confusedRatio := float64(confused) / float64(len(words))

	sentences := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	fragments := 0
	for _, s := range sentences {
		if n := len(strings.Fields(s)); n > 0 && n < 3 {
			fragments++
		}
	}
	fragmentRatio := 0.0
	if len(sentences) > 0 {
		fragmentRatio = float64(fragments) / float64(len(sentences))
	}

	score := 1.0 - 1.5*specialRatio - brokenRatio - confusedRatio - 0.5*fragmentRatio
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
