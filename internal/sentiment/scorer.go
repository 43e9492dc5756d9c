// internal/sentiment/scorer.go
package sentiment

import (
    "bytes"
    "context"
    "encoding/json"
    "fmt"
    "net/http"
    "strings"
    "time"

    appErrors "github.com/unclebandit/socialpulse-backend/internal/errors"
    "github.com/unclebandit/socialpulse-backend/internal/model"
)

// Scorer scores a piece of text against an external sentiment model.
type Scorer interface {
    Score(ctx context.Context, text string) (model.SentimentScore, error)
}

// ScorerFunc adapts a plain function to the Scorer interface.
type ScorerFunc func(ctx context.Context, text string) (model.SentimentScore, error)

func (f ScorerFunc) Score(ctx context.Context, text string) (model.SentimentScore, error) {
    return f(ctx, text)
}

// HTTPScorer calls a remote text-analytics endpoint. Failures surface as
// ErrScorerUnavailable; a score is never fabricated on error.
type HTTPScorer struct {
    Endpoint string
    APIKey   string
    Language string
    Client   *http.Client
}

func NewHTTPScorer(endpoint, apiKey, language string, timeout time.Duration) *HTTPScorer {
    if timeout <= 0 {
        timeout = 10 * time.Second
    }
    return &HTTPScorer{
        Endpoint: endpoint,
        APIKey:   apiKey,
        Language: language,
        Client:   &http.Client{Timeout: timeout},
    }
}

type scoreRequest struct {
    Text     string `json:"text"`
    Language string `json:"language,omitempty"`
}

type scoreResponse struct {
    Positive float64 `json:"positive"`
    Negative float64 `json:"negative"`
    Neutral  float64 `json:"neutral"`
}

func (s *HTTPScorer) Score(ctx context.Context, text string) (model.SentimentScore, error) {
    var zero model.SentimentScore

    if strings.TrimSpace(text) == "" {
        return zero, appErrors.NewInvalidRequest("text to score must not be empty")
    }

    body, err := json.Marshal(scoreRequest{Text: text, Language: s.Language})
    if err != nil {
        return zero, appErrors.NewScorerUnavailable(err)
    }

    req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Endpoint, bytes.NewReader(body))
    if err != nil {
        return zero, appErrors.NewScorerUnavailable(err)
    }
    req.Header.Set("Content-Type", "application/json")
    if s.APIKey != "" {
        req.Header.Set("Api-Key", s.APIKey)
    }

    client := s.Client
    if client == nil {
        client = http.DefaultClient
    }

    resp, err := client.Do(req)
    if err != nil {
        return zero, appErrors.NewScorerUnavailable(err)
    }
    defer resp.Body.Close()

    if resp.StatusCode != http.StatusOK {
        return zero, appErrors.NewScorerUnavailable(fmt.Errorf("scorer returned status %d", resp.StatusCode))
    }

    var sr scoreResponse
    if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
        return zero, appErrors.NewScorerUnavailable(fmt.Errorf("decoding scorer response: %w", err))
    }

    score := model.SentimentScore{Positive: sr.Positive, Negative: sr.Negative, Neutral: sr.Neutral}
    if !inUnitRange(score.Positive) || !inUnitRange(score.Negative) || !inUnitRange(score.Neutral) {
        return zero, appErrors.NewScorerUnavailable(
            fmt.Errorf("scorer returned out-of-range confidences %.2f/%.2f/%.2f",
                score.Positive, score.Negative, score.Neutral))
    }

    return score, nil
}

func inUnitRange(v float64) bool {
    return v >= 0 && v <= 1
}
