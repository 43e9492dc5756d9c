// internal/sentiment/overrides.go
package sentiment

import (
    "strings"

    "github.com/unclebandit/socialpulse-backend/internal/model"
)

// Strong-signal phrases the general-purpose model tends to under-detect.
// Matching is case-insensitive; the phrase sets are disjoint so at most one
// rule can fire for a given text.
var negativePhrases = []string{
    "tragedy",
    "worst product",
    "waste of time",
    "waste of money",
}

var positivePhrases = []string{
    "can't stop praising",
    "best purchase",
}

var negativeEmojis = []string{"😡", "👎", "💔"}

var positiveEmojis = []string{"😍", "👍", "🎉"}

// ApplyOverrides replaces the raw score when the text carries a known
// strong-signal phrase. Negative phrases win over positive ones; an emoji
// marker of the same polarity intensifies the forced score. Texts without a
// match pass the raw score through unchanged. Pure and reproducible.
func ApplyOverrides(text string, raw model.SentimentScore) model.SentimentScore {
    lower := strings.ToLower(text)

    if containsAny(lower, negativePhrases) {
        if containsAny(lower, negativeEmojis) {
            return model.SentimentScore{Positive: 0.0, Negative: 1.0, Neutral: 0.0}
        }
        return model.SentimentScore{Positive: 0.0, Negative: 0.9, Neutral: 0.1}
    }

    if containsAny(lower, positivePhrases) {
        if containsAny(lower, positiveEmojis) {
            return model.SentimentScore{Positive: 1.0, Negative: 0.0, Neutral: 0.0}
        }
        return model.SentimentScore{Positive: 0.9, Negative: 0.0, Neutral: 0.1}
    }

    return raw
}

func containsAny(text string, needles []string) bool {
    for _, n := range needles {
        if strings.Contains(text, n) {
            return true
        }
    }
    return false
}
