// internal/service/monitor_service.go
package service

import (
    "context"
    "strings"
    "time"

    appErrors "github.com/unclebandit/socialpulse-backend/internal/errors"
    "github.com/unclebandit/socialpulse-backend/internal/generator"
    "github.com/unclebandit/socialpulse-backend/internal/model"
    "github.com/unclebandit/socialpulse-backend/internal/repository"
    "github.com/unclebandit/socialpulse-backend/internal/sentiment"
)

// DefaultCandidateCount is how many posts a cache miss synthesizes.
const DefaultCandidateCount = 12

// MonitorRequest is one monitor run: a phrase and a time window, optionally
// narrowed to a single source ("all" or empty means unfiltered).
type MonitorRequest struct {
    Phrase string
    Start  time.Time
    End    time.Time
    Source string
}

type MonitorService struct {
    Posts          repository.PostRepositoryInterface
    Scorer         sentiment.Scorer
    Generator      generator.Generator
    Sink           EventSink
    CandidateCount int
}

// Monitor answers a request from the store when it can, and otherwise
// synthesizes, scores and persists new posts before returning them. A second
// identical request after a successful run hits the store and short-circuits;
// nothing is regenerated or double-persisted.
func (s *MonitorService) Monitor(ctx context.Context, req MonitorRequest) ([]*model.Post, error) {
    phrase := strings.TrimSpace(req.Phrase)
    if phrase == "" {
        return nil, appErrors.NewInvalidRequest("phrase must not be empty")
    }

    start, end := req.Start, req.End
    if end.IsZero() {
        end = time.Now().UTC()
    }
    if start.After(end) {
        return nil, appErrors.NewInvalidRequest("window start is after window end")
    }

    sink := s.sink()

    // Querying
    existing, err := s.Posts.Find(ctx, phrase, start, end, req.Source)
    if err != nil {
        sink.MonitorFailed(phrase, err)
        return nil, err
    }
    if len(existing) > 0 {
        sink.CacheHit(phrase, len(existing))
        return existing, nil
    }
    sink.CacheMiss(phrase)

    // Synthesizing
    count := s.CandidateCount
    if count < 1 {
        count = DefaultCandidateCount
    }
    candidates := s.Generator.Generate(phrase, start, end, req.Source, count)

    // Scoring: one failed candidate fails the whole request, so the store
    // only ever holds fully scored batches.
    for _, post := range candidates {
        raw, err := s.Scorer.Score(ctx, post.Content)
        if err != nil {
            sink.MonitorFailed(phrase, err)
            return nil, err
        }
        score := sentiment.ApplyOverrides(post.Content, raw)
        post.Sentiment = score
        post.Label = sentiment.Classify(score)
        sink.PostScored(phrase, post.Label)
    }

    // Persisting
    if err := s.Posts.SaveAll(ctx, candidates); err != nil {
        sink.MonitorFailed(phrase, err)
        return nil, err
    }
    sink.PostsPersisted(phrase, len(candidates))

    return candidates, nil
}

// MonitorKeywords runs the pipeline once per configured keyword over a shared
// window. An empty keyword list is an InvalidRequest; there is no silent
// fallback to a built-in keyword set.
func (s *MonitorService) MonitorKeywords(ctx context.Context, keywords []string, start, end time.Time, source string) ([]*model.Post, error) {
    if len(keywords) == 0 {
        return nil, appErrors.NewInvalidRequest("no keywords configured")
    }

    all := []*model.Post{}
    for _, kw := range keywords {
        posts, err := s.Monitor(ctx, MonitorRequest{Phrase: kw, Start: start, End: end, Source: source})
        if err != nil {
            return nil, err
        }
        all = append(all, posts...)
    }
    return all, nil
}

func (s *MonitorService) sink() EventSink {
    if s.Sink == nil {
        return NopSink{}
    }
    return s.Sink
}
