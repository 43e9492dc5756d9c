// internal/model/post.go
package model

import "time"

// SourceAll is the sentinel source filter meaning "do not filter by source".
const SourceAll = "all"

// DefaultCampaign is used when a post is persisted without a campaign.
const DefaultCampaign = "DEFAULT"

type Post struct {
    ID        string         `db:"id" json:"id"`
    Content   string         `db:"content" json:"content"`
    Author    string         `db:"author" json:"author,omitempty"`
    Source    string         `db:"source" json:"source"` // Twitter, Facebook, Instagram, ...
    Campaign  string         `db:"campaign" json:"campaign"`
    Label     string         `db:"label" json:"label"`
    Sentiment SentimentScore `json:"sentiment"`
    CreatedAt time.Time      `db:"created_at" json:"created_at"`
}
