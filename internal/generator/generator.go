// internal/generator/generator.go
package generator

import (
    "math/rand"
    "strings"
    "time"

    "github.com/google/uuid"

    "github.com/unclebandit/socialpulse-backend/internal/model"
)

// Generator produces candidate posts for a phrase when the store has none.
type Generator interface {
    Generate(phrase string, start, end time.Time, source string, n int) []*model.Post
}

var defaultAuthors = []string{"user1", "user2", "user3", "user4", "user5"}

var defaultSources = []string{"Twitter", "Facebook", "Instagram"}

var defaultTemplates = []string{
    "Really liking {keyword}! Great product!",
    "Not convinced by {keyword}, needs improvement",
    "Just bought {keyword} and I'm thrilled!",
    "Having problems with {keyword}, anyone else?",
    "Can't wait to try {keyword}!",
    "Honestly the best purchase this year: {keyword} 🎉",
    "{keyword} turned out to be a waste of money 👎",
}

// TemplateGenerator fills content templates with the phrase. Randomness comes
// from an injected source so synthesis is reproducible under test.
type TemplateGenerator struct {
    rnd       *rand.Rand
    Authors   []string
    Sources   []string
    Templates []string
}

func New(src rand.Source) *TemplateGenerator {
    return &TemplateGenerator{
        rnd:       rand.New(src),
        Authors:   defaultAuthors,
        Sources:   defaultSources,
        Templates: defaultTemplates,
    }
}

// Generate builds n unsaved posts for the phrase. Timestamps are uniformly
// distributed within [start, end]; when source is "all" (or empty) each post
// gets a concrete source from the pool. Campaign is the uppercased phrase.
func (g *TemplateGenerator) Generate(phrase string, start, end time.Time, source string, n int) []*model.Post {
    campaign := strings.ToUpper(strings.TrimSpace(phrase))
    if campaign == "" {
        campaign = model.DefaultCampaign
    }

    span := end.Sub(start)
    posts := make([]*model.Post, 0, n)

    for i := 0; i < n; i++ {
        tmpl := g.Templates[g.rnd.Intn(len(g.Templates))]
        content := strings.ReplaceAll(tmpl, "{keyword}", phrase)

        postSource := source
        if postSource == "" || postSource == model.SourceAll {
            postSource = g.Sources[g.rnd.Intn(len(g.Sources))]
        }

        createdAt := start
        if span > 0 {
            createdAt = start.Add(time.Duration(g.rnd.Int63n(int64(span) + 1)))
        }

        posts = append(posts, &model.Post{
            ID:        uuid.NewString(),
            Content:   content,
            Author:    g.Authors[g.rnd.Intn(len(g.Authors))],
            Source:    postSource,
            Campaign:  campaign,
            CreatedAt: createdAt.UTC(),
        })
    }

    return posts
}

var _ Generator = (*TemplateGenerator)(nil)
