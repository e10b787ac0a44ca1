package main

import "context"

// ScoreEstimator scores a translation against its source without a
// reference, on a 0-100 scale. Implementations wrap external
// quality-estimation services; none ships with this repository.
type ScoreEstimator interface {
	Estimate(ctx context.Context, source, translation string) (float64, error)
}

// QualityRating is a bucketed interpretation of a quality score.
type QualityRating struct {
	Score       float64 `json:"score"`
	Level       string  `json:"level"`
	Description string  `json:"description"`
	Color       string  `json:"color"`
}

// InterpretScore maps a 0-100 quality score to a human-readable bucket.
func InterpretScore(score float64) QualityRating {
	switch {
	case score >= 85:
		return QualityRating{
			Score:       score,
			Level:       "Excellent",
			Description: "Professional-grade translation with minimal issues",
			Color:       "#2e7d32",
		}
	case score >= 70:
		return QualityRating{
			Score:       score,
			Level:       "Good",
			Description: "High-quality translation with minor imperfections",
			Color:       "#558b2f",
		}
	case score >= 55:
		return QualityRating{
			Score:       score,
			Level:       "Fair",
			Description: "Acceptable translation that may need review",
			Color:       "#f9a825",
		}
	case score >= 40:
		return QualityRating{
			Score:       score,
			Level:       "Poor",
			Description: "Low-quality translation requiring significant revision",
			Color:       "#ef6c00",
		}
	default:
		return QualityRating{
			Score:       score,
			Level:       "Very Poor",
			Description: "Inadequate translation with major quality issues",
			Color:       "#c62828",
		}
	}
}
