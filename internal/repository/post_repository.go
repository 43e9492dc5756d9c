// internal/repository/post_repository.go
package repository

import (
    "context"
    "database/sql"
    "fmt"
    "strings"
    "time"

    appErrors "github.com/unclebandit/socialpulse-backend/internal/errors"
    "github.com/unclebandit/socialpulse-backend/internal/model"
    "github.com/unclebandit/socialpulse-backend/internal/sentiment"
)

type PostRepositoryInterface interface {
    // Pipeline surface
    Find(ctx context.Context, phrase string, start, end time.Time, source string) ([]*model.Post, error)
    Save(ctx context.Context, post *model.Post) error
    SaveAll(ctx context.Context, posts []*model.Post) error

    // Dashboard surface
    ListByCampaign(ctx context.Context, campaign, label string, limit int) ([]*model.Post, error)
    CampaignStats(ctx context.Context, campaign string) (map[string]int, error)
}

type PostRepository struct {
    DB *sql.DB
}

const postColumns = "id, content, author, source, campaign, label, positive, negative, neutral, created_at"

// Find returns posts whose content contains the phrase (case-insensitive)
// within the inclusive time window. source narrows to one platform; "all" or
// an empty string means unfiltered. An empty result is not an error.
func (r *PostRepository) Find(ctx context.Context, phrase string, start, end time.Time, source string) ([]*model.Post, error) {
    query := fmt.Sprintf(`
        SELECT %s FROM posts
        WHERE LOWER(content) LIKE '%%' || LOWER($1) || '%%' ESCAPE '\'
          AND created_at >= $2 AND created_at <= $3`, postColumns)
    args := []interface{}{escapeLike(phrase), start, end}
    argPos := 4

    if source != "" && source != model.SourceAll {
        query += fmt.Sprintf(" AND source=$%d", argPos)
        args = append(args, source)
        argPos++
    }
    query += " ORDER BY created_at DESC"

    rows, err := r.DB.QueryContext(ctx, query, args...)
    if err != nil {
        return nil, appErrors.NewStoreUnavailable("find", err)
    }
    defer rows.Close()

    return scanPosts(rows)
}

// Save upserts a single post by id. The campaign partition key is normalized
// before the write: uppercase, "DEFAULT" when unset.
func (r *PostRepository) Save(ctx context.Context, post *model.Post) error {
    post.Campaign = NormalizeCampaign(post.Campaign)

    query := `
        INSERT INTO posts (id, content, author, source, campaign, label, positive, negative, neutral, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        ON CONFLICT (id) DO UPDATE
        SET content=EXCLUDED.content,
            author=EXCLUDED.author,
            source=EXCLUDED.source,
            campaign=EXCLUDED.campaign,
            label=EXCLUDED.label,
            positive=EXCLUDED.positive,
            negative=EXCLUDED.negative,
            neutral=EXCLUDED.neutral,
            created_at=EXCLUDED.created_at
    `
    _, err := r.DB.ExecContext(ctx, query,
        post.ID,
        post.Content,
        post.Author,
        post.Source,
        post.Campaign,
        post.Label,
        post.Sentiment.Positive,
        post.Sentiment.Negative,
        post.Sentiment.Neutral,
        post.CreatedAt,
    )
    if err != nil {
        return appErrors.NewStoreUnavailable("save", err)
    }
    return nil
}

// SaveAll saves posts one by one, in order. It is not transactional: the
// first failure aborts the remaining writes and is reported as a
// PartialBatchFailure carrying how many posts were already committed.
func (r *PostRepository) SaveAll(ctx context.Context, posts []*model.Post) error {
    for i, post := range posts {
        if err := r.Save(ctx, post); err != nil {
            return appErrors.NewPartialBatchFailure(i, i, post.ID, err)
        }
    }
    return nil
}

// ListByCampaign returns the most recent posts for a campaign, optionally
// narrowed to a single sentiment label.
func (r *PostRepository) ListByCampaign(ctx context.Context, campaign, label string, limit int) ([]*model.Post, error) {
    if limit < 1 {
        limit = 50
    }

    query := fmt.Sprintf(`
        SELECT %s FROM posts
        WHERE campaign=$1`, postColumns)
    args := []interface{}{NormalizeCampaign(campaign)}
    argPos := 2

    if label != "" {
        query += fmt.Sprintf(" AND label=$%d", argPos)
        args = append(args, label)
        argPos++
    }

    query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", argPos)
    args = append(args, limit)

    rows, err := r.DB.QueryContext(ctx, query, args...)
    if err != nil {
        return nil, appErrors.NewStoreUnavailable("list", err)
    }
    defer rows.Close()

    return scanPosts(rows)
}

// CampaignStats counts a campaign's posts per label. Every known label is
// present in the result, zero when absent.
func (r *PostRepository) CampaignStats(ctx context.Context, campaign string) (map[string]int, error) {
    query := `SELECT label, COUNT(*) FROM posts WHERE campaign=$1 GROUP BY label`
    rows, err := r.DB.QueryContext(ctx, query, NormalizeCampaign(campaign))
    if err != nil {
        return nil, appErrors.NewStoreUnavailable("stats", err)
    }
    defer rows.Close()

    stats := map[string]int{}
    for _, label := range sentiment.Labels() {
        stats[label] = 0
    }
    for rows.Next() {
        var label string
        var count int
        if err := rows.Scan(&label, &count); err != nil {
            return nil, appErrors.NewStoreUnavailable("stats", err)
        }
        stats[label] = count
    }
    if err := rows.Err(); err != nil {
        return nil, appErrors.NewStoreUnavailable("stats", err)
    }
    return stats, nil
}

// escapeLike neutralizes LIKE wildcards so the phrase matches as a literal
// substring. Pairs with the ESCAPE '\' clause in Find.
func escapeLike(s string) string {
    s = strings.ReplaceAll(s, `\`, `\\`)
    s = strings.ReplaceAll(s, "%", `\%`)
    s = strings.ReplaceAll(s, "_", `\_`)
    return s
}

// NormalizeCampaign enforces the campaign invariant: uppercase, never empty.
func NormalizeCampaign(campaign string) string {
    campaign = strings.ToUpper(strings.TrimSpace(campaign))
    if campaign == "" {
        return model.DefaultCampaign
    }
    return campaign
}

func scanPosts(rows *sql.Rows) ([]*model.Post, error) {
    posts := []*model.Post{}
    for rows.Next() {
        p := &model.Post{}
        if err := rows.Scan(
            &p.ID,
            &p.Content,
            &p.Author,
            &p.Source,
            &p.Campaign,
            &p.Label,
            &p.Sentiment.Positive,
            &p.Sentiment.Negative,
            &p.Sentiment.Neutral,
            &p.CreatedAt,
        ); err != nil {
            return nil, appErrors.NewStoreUnavailable("scan", err)
        }
        posts = append(posts, p)
    }
    if err := rows.Err(); err != nil {
        return nil, appErrors.NewStoreUnavailable("scan", err)
    }
    return posts, nil
}

var _ PostRepositoryInterface = (*PostRepository)(nil)
