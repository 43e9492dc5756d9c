// internal/model/sentiment_score.go
package model

// SentimentScore holds the three confidence values returned by the scorer.
// Each component is in [0,1]. After override rules the components need not
// sum to 1 (overrides set exact values like 0.9/0.0/0.1).
type SentimentScore struct {
    Positive float64 `db:"positive" json:"positive"`
    Negative float64 `db:"negative" json:"negative"`
    Neutral  float64 `db:"neutral" json:"neutral"`
}
