package repository_test

import (
    "context"
    "errors"
    "fmt"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"

    appErrors "github.com/unclebandit/socialpulse-backend/internal/errors"
    "github.com/unclebandit/socialpulse-backend/internal/model"
    "github.com/unclebandit/socialpulse-backend/internal/repository"
)

var postCols = []string{"id", "content", "author", "source", "campaign", "label", "positive", "negative", "neutral", "created_at"}

func newRepo(t *testing.T) (*repository.PostRepository, sqlmock.Sqlmock) {
    t.Helper()
    db, mock, err := sqlmock.New()
    if err != nil {
        t.Fatalf("failed to open sqlmock: %v", err)
    }
    t.Cleanup(func() { db.Close() })
    return &repository.PostRepository{DB: db}, mock
}

func TestFind(t *testing.T) {
    repo, mock := newRepo(t)
    now := time.Now()

    rows := sqlmock.NewRows(postCols).
        AddRow("id-1", "great shoes", "user1", "Twitter", "SHOES", "positive", 0.7, 0.1, 0.2, now).
        AddRow("id-2", "shoes are fine", "user2", "Facebook", "SHOES", "neutral", 0.1, 0.1, 0.8, now)

    mock.ExpectQuery("SELECT (.+) FROM posts").
        WithArgs("shoes", sqlmock.AnyArg(), sqlmock.AnyArg()).
        WillReturnRows(rows)

    posts, err := repo.Find(context.Background(), "shoes", now.Add(-time.Hour), now, model.SourceAll)
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    if len(posts) != 2 {
        t.Fatalf("expected 2 posts, got %d", len(posts))
    }
    if posts[0].Sentiment.Positive != 0.7 {
        t.Errorf("score not scanned: %+v", posts[0].Sentiment)
    }

    if err := mock.ExpectationsWereMet(); err != nil {
        t.Errorf("unmet expectations: %v", err)
    }
}

func TestFindWithSourceFilter(t *testing.T) {
    repo, mock := newRepo(t)
    now := time.Now()

    mock.ExpectQuery("SELECT (.+) FROM posts").
        WithArgs("shoes", sqlmock.AnyArg(), sqlmock.AnyArg(), "Twitter").
        WillReturnRows(sqlmock.NewRows(postCols))

    posts, err := repo.Find(context.Background(), "shoes", now.Add(-time.Hour), now, "Twitter")
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    if len(posts) != 0 {
        t.Fatalf("expected empty result, got %d posts", len(posts))
    }

    if err := mock.ExpectationsWereMet(); err != nil {
        t.Errorf("unmet expectations: %v", err)
    }
}

func TestFindStoreError(t *testing.T) {
    repo, mock := newRepo(t)
    now := time.Now()

    mock.ExpectQuery("SELECT (.+) FROM posts").
        WillReturnError(fmt.Errorf("connection refused"))

    _, err := repo.Find(context.Background(), "shoes", now.Add(-time.Hour), now, "")
    if !appErrors.IsStoreUnavailable(err) {
        t.Fatalf("expected store unavailable, got %v", err)
    }
}

func TestSaveNormalizesCampaign(t *testing.T) {
    repo, mock := newRepo(t)

    post := &model.Post{
        ID:        "id-1",
        Content:   "great shoes",
        Source:    "Twitter",
        Campaign:  "shoes",
        Label:     "positive",
        Sentiment: model.SentimentScore{Positive: 0.7, Negative: 0.1, Neutral: 0.2},
        CreatedAt: time.Now(),
    }

    mock.ExpectExec("INSERT INTO posts").
        WithArgs("id-1", "great shoes", "", "Twitter", "SHOES", "positive", 0.7, 0.1, 0.2, sqlmock.AnyArg()).
        WillReturnResult(sqlmock.NewResult(0, 1))

    if err := repo.Save(context.Background(), post); err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    if post.Campaign != "SHOES" {
        t.Errorf("campaign not normalized: %q", post.Campaign)
    }

    if err := mock.ExpectationsWereMet(); err != nil {
        t.Errorf("unmet expectations: %v", err)
    }
}

func TestSaveDefaultsCampaign(t *testing.T) {
    repo, mock := newRepo(t)

    post := &model.Post{ID: "id-1", Content: "x", CreatedAt: time.Now()}

    mock.ExpectExec("INSERT INTO posts").
        WithArgs("id-1", "x", "", "", "DEFAULT", "", 0.0, 0.0, 0.0, sqlmock.AnyArg()).
        WillReturnResult(sqlmock.NewResult(0, 1))

    if err := repo.Save(context.Background(), post); err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    if post.Campaign != "DEFAULT" {
        t.Errorf("expected DEFAULT campaign, got %q", post.Campaign)
    }
}

// The second write fails: one post committed, the third never attempted.
func TestSaveAllPartialFailure(t *testing.T) {
    repo, mock := newRepo(t)

    posts := []*model.Post{
        {ID: "id-1", Content: "a", Campaign: "C", CreatedAt: time.Now()},
        {ID: "id-2", Content: "b", Campaign: "C", CreatedAt: time.Now()},
        {ID: "id-3", Content: "c", Campaign: "C", CreatedAt: time.Now()},
    }

    mock.ExpectExec("INSERT INTO posts").WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectExec("INSERT INTO posts").WillReturnError(fmt.Errorf("disk full"))

    err := repo.SaveAll(context.Background(), posts)

    var batchErr *appErrors.ErrPartialBatchFailure
    if !errors.As(err, &batchErr) {
        t.Fatalf("expected partial batch failure, got %v", err)
    }
    if batchErr.Committed != 1 {
        t.Errorf("expected 1 committed, got %d", batchErr.Committed)
    }
    if batchErr.FailedID != "id-2" {
        t.Errorf("expected failure on id-2, got %q", batchErr.FailedID)
    }

    // No expectation was registered for id-3; an attempted third insert
    // would show up here.
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Errorf("unmet expectations: %v", err)
    }
}

func TestFindEscapesLikeWildcards(t *testing.T) {
    repo, mock := newRepo(t)

    mock.ExpectQuery("SELECT (.+) FROM posts").
        WithArgs(`100\% wool\_socks`, sqlmock.AnyArg(), sqlmock.AnyArg()).
        WillReturnRows(sqlmock.NewRows(postCols))

    _, err := repo.Find(context.Background(), "100% wool_socks", time.Now().Add(-time.Hour), time.Now(), model.SourceAll)
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Errorf("wildcards must be bound escaped: %v", err)
    }
}

func TestListByCampaignLabelFilter(t *testing.T) {
    repo, mock := newRepo(t)
    now := time.Now()

    rows := sqlmock.NewRows(postCols).
        AddRow("id-1", "great shoes", "user1", "Twitter", "SHOES", "very positive", 0.9, 0.05, 0.05, now)

    mock.ExpectQuery("SELECT (.+) FROM posts").
        WithArgs("SHOES", "very positive", 10).
        WillReturnRows(rows)

    posts, err := repo.ListByCampaign(context.Background(), "shoes", "very positive", 10)
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    if len(posts) != 1 {
        t.Fatalf("expected 1 post, got %d", len(posts))
    }
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Errorf("unmet expectations: %v", err)
    }
}

func TestCampaignStats(t *testing.T) {
    repo, mock := newRepo(t)

    rows := sqlmock.NewRows([]string{"label", "count"}).
        AddRow("very positive", 3).
        AddRow("neutral", 2)

    mock.ExpectQuery("SELECT label, COUNT").
        WithArgs("SHOES").
        WillReturnRows(rows)

    stats, err := repo.CampaignStats(context.Background(), "shoes")
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    if stats["very positive"] != 3 || stats["neutral"] != 2 {
        t.Errorf("unexpected stats: %+v", stats)
    }
    if _, ok := stats["very negative"]; !ok {
        t.Errorf("expected zeroed entry for absent labels, got %+v", stats)
    }
}
