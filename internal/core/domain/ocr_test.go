package domain

import (
	"testing"
)

func TestOCRAssessment_Recommend(t *testing.T) {
	tests := []struct {
		name       string
		confidence float64
		expected   string
	}{
		{"zero confidence", 0.0, RecommendationText},
		{"low confidence", 0.3, RecommendationText},
		{"exactly 0.5", 0.5, RecommendationText},
		{"just above 0.5", 0.51, RecommendationOCR},
		{"mid confidence", 0.7, RecommendationOCR},
		{"exactly 0.8", 0.8, RecommendationOCR},
		{"just above 0.8", 0.81, RecommendationStrongOCR},
		{"full confidence", 1.0, RecommendationStrongOCR},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &OCRAssessment{Confidence: tt.confidence}
			if got := a.Recommend(); got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestOCRIndicatorConstants(t *testing.T) {
	tests := []struct {
		indicator OCRIndicator
		expected  string
	}{
		{IndicatorVeryLowText, "very_low_text"},
		{IndicatorManyEmptyPages, "many_empty_pages"},
		{IndicatorTextQualityIssues, "text_quality_issues"},
		{IndicatorHighImageCoverage, "high_image_coverage"},
		{IndicatorLikelyScanned, "likely_scanned_document"},
		{IndicatorFontAnomalies, "font_anomalies"},
	}

	for _, tt := range tests {
		t.Run(string(tt.indicator), func(t *testing.T) {
			if string(tt.indicator) != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, string(tt.indicator))
			}
		})
	}
}
