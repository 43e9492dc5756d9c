// internal/sentiment/classifier.go
package sentiment

import "github.com/unclebandit/socialpulse-backend/internal/model"

// Confidence thresholds for the label bands.
const (
    veryHigh = 0.8 // extremely positive/negative
    high     = 0.6 // clearly positive/negative
    moderate = 0.4 // moderate opinions
    low      = 0.2 // weak opinions

    neutralGap = 0.1 // |positive - negative| below this reads as neutral
)

const (
    LabelVeryPositive       = "very positive"
    LabelVeryNegative       = "very negative"
    LabelPositive           = "positive"
    LabelNegative           = "negative"
    LabelModeratelyPositive = "moderately positive"
    LabelModeratelyNegative = "moderately negative"
    LabelSlightlyPositive   = "slightly positive"
    LabelSlightlyNegative   = "slightly negative"
    LabelNeutral            = "neutral"
)

// Labels lists every label Classify can produce, strongest first.
func Labels() []string {
    return []string{
        LabelVeryPositive,
        LabelVeryNegative,
        LabelPositive,
        LabelNegative,
        LabelModeratelyPositive,
        LabelModeratelyNegative,
        LabelSlightlyPositive,
        LabelSlightlyNegative,
        LabelNeutral,
    }
}

// Classify maps a score to a discrete label. Bands are evaluated top to
// bottom and the first match wins; the order matters because the bands are
// not mutually exclusive by value alone (0.85 positive must read as
// "very positive", not fall through to a weaker band).
func Classify(s model.SentimentScore) string {
    // Extremes first
    if s.Positive >= veryHigh {
        return LabelVeryPositive
    }
    if s.Negative >= veryHigh {
        return LabelVeryNegative
    }

    // Clear opinions
    if s.Positive >= high {
        return LabelPositive
    }
    if s.Negative >= high {
        return LabelNegative
    }

    // Moderate opinions
    if s.Positive >= moderate && s.Positive > s.Negative {
        return LabelModeratelyPositive
    }
    if s.Negative >= moderate && s.Negative > s.Positive {
        return LabelModeratelyNegative
    }

    // Weak opinions
    if s.Positive >= low && s.Positive > s.Negative {
        return LabelSlightlyPositive
    }
    if s.Negative >= low && s.Negative > s.Positive {
        return LabelSlightlyNegative
    }

    gap := s.Positive - s.Negative
    if gap < 0 {
        gap = -gap
    }
    if gap < neutralGap {
        return LabelNeutral
    }
    if s.Positive > s.Negative {
        return LabelSlightlyPositive
    }
    return LabelSlightlyNegative
}
