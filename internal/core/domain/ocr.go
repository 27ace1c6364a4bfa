package domain

// OCRIndicator names one signal contributing to the scanned-document assessment
type OCRIndicator string

const (
	IndicatorVeryLowText       OCRIndicator = "very_low_text"
	IndicatorManyEmptyPages    OCRIndicator = "many_empty_pages"
	IndicatorTextQualityIssues OCRIndicator = "text_quality_issues"
	IndicatorHighImageCoverage OCRIndicator = "high_image_coverage"
	IndicatorLikelyScanned     OCRIndicator = "likely_scanned_document"
	IndicatorFontAnomalies     OCRIndicator = "font_anomalies"
)

// OCR processing recommendations, strongest first
const (
	RecommendationStrongOCR = "strongly_recommend_ocr_processing"
	RecommendationOCR       = "ocr_processing_recommended"
	RecommendationText      = "text_extraction_sufficient"
)

// OCRAssessment summarizes how likely a PDF is to be scanned or image-heavy,
// based on a sampled subset of pages. It routes ingestion between the text
// pipeline and the visual pipeline.
type OCRAssessment struct {
	IsOCR          bool           `json:"is_ocr"`
	Confidence     float64        `json:"confidence"`
	Indicators     []OCRIndicator `json:"indicators,omitempty"`
	SampledPages   int            `json:"sampled_pages"`
	TotalPages     int            `json:"total_pages"`
	Recommendation string         `json:"recommendation"`
}

// Recommend derives the routing recommendation from the confidence score
func (a *OCRAssessment) Recommend() string {
	switch {
	case a.Confidence > 0.8:
		return RecommendationStrongOCR
	case a.Confidence > 0.5:
		return RecommendationOCR
	default:
		return RecommendationText
	}
}
