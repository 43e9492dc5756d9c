package controller_test

import (
    "context"
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "strings"
    "sync"
    "testing"
    "time"

    "github.com/sirupsen/logrus"

    "github.com/unclebandit/socialpulse-backend/internal/config"
    "github.com/unclebandit/socialpulse-backend/internal/controller"
    "github.com/unclebandit/socialpulse-backend/internal/model"
    "github.com/unclebandit/socialpulse-backend/internal/queue"
    "github.com/unclebandit/socialpulse-backend/internal/service"
)

// --- Mocks ---

type MockPostRepo struct {
    mu    sync.Mutex
    posts []*model.Post
}

func (m *MockPostRepo) Find(ctx context.Context, phrase string, start, end time.Time, source string) ([]*model.Post, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    matched := []*model.Post{}
    for _, p := range m.posts {
        if strings.Contains(strings.ToLower(p.Content), strings.ToLower(phrase)) {
            matched = append(matched, p)
        }
    }
    return matched, nil
}

func (m *MockPostRepo) Save(ctx context.Context, post *model.Post) error {
    m.mu.Lock()
    defer m.mu.Unlock()
    m.posts = append(m.posts, post)
    return nil
}

func (m *MockPostRepo) SaveAll(ctx context.Context, posts []*model.Post) error {
    for _, p := range posts {
        if err := m.Save(ctx, p); err != nil {
            return err
        }
    }
    return nil
}

func (m *MockPostRepo) ListByCampaign(ctx context.Context, campaign, label string, limit int) ([]*model.Post, error) {
    return m.posts, nil
}

func (m *MockPostRepo) CampaignStats(ctx context.Context, campaign string) (map[string]int, error) {
    return map[string]int{}, nil
}

type MockGenerator struct{}

func (MockGenerator) Generate(phrase string, start, end time.Time, source string, n int) []*model.Post {
    posts := make([]*model.Post, 0, n)
    for i := 0; i < n; i++ {
        posts = append(posts, &model.Post{
            ID:        "mock-" + phrase,
            Content:   "a post about " + phrase,
            Source:    "Twitter",
            Campaign:  strings.ToUpper(phrase),
            CreatedAt: start,
        })
    }
    return posts
}

type FixedScorer struct{}

func (FixedScorer) Score(ctx context.Context, text string) (model.SentimentScore, error) {
    return model.SentimentScore{Positive: 0.7, Negative: 0.1, Neutral: 0.2}, nil
}

func newController() *controller.MonitorController {
    svc := &service.MonitorService{
        Posts:          &MockPostRepo{},
        Scorer:         FixedScorer{},
        Generator:      MockGenerator{},
        CandidateCount: 3,
    }
    return &controller.MonitorController{
        MonitorService: svc,
        Config: config.MonitorConfig{
            Keywords:        []string{"shoes"},
            WindowMinutes:   15,
            DefaultDaysBack: 7,
        },
    }
}

// --- Tests ---

func TestMonitorEndpoint(t *testing.T) {
    ctrl := newController()

    req := httptest.NewRequest("GET", "/monitor?phrase=shoes&days_back=7", nil)
    w := httptest.NewRecorder()

    ctrl.Monitor(w, req)

    resp := w.Result()
    if resp.StatusCode != http.StatusOK {
        t.Fatalf("expected 200, got %d", resp.StatusCode)
    }

    var res struct {
        Phrase string        `json:"phrase"`
        Count  int           `json:"count"`
        Data   []*model.Post `json:"data"`
    }
    if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
        t.Fatalf("failed to decode response: %v", err)
    }

    if res.Count != 3 {
        t.Errorf("expected 3 posts, got %d", res.Count)
    }
    for _, p := range res.Data {
        if p.Label == "" {
            t.Errorf("post %s returned without a label", p.ID)
        }
    }
}

func TestMonitorEndpointEmptyPhrase(t *testing.T) {
    ctrl := newController()

    req := httptest.NewRequest("GET", "/monitor", nil)
    w := httptest.NewRecorder()

    ctrl.Monitor(w, req)

    if w.Result().StatusCode != http.StatusBadRequest {
        t.Fatalf("expected 400, got %d", w.Result().StatusCode)
    }

    var res struct {
        Error string `json:"error"`
    }
    if err := json.NewDecoder(w.Result().Body).Decode(&res); err != nil {
        t.Fatalf("failed to decode response: %v", err)
    }
    if res.Error != "invalid_request" {
        t.Errorf("expected invalid_request, got %q", res.Error)
    }
}

func TestTriggerRunQueuesJob(t *testing.T) {
    ctrl := newController()

    q := queue.NewInMemoryQueue(logrus.New())
    received := make(chan queue.MonitorJob, 1)
    q.Subscribe(service.MonitorTopic, func(payload any) error {
        job, err := queue.DecodeMonitorJob(payload)
        if err != nil {
            return err
        }
        received <- job
        return nil
    })
    ctrl.Queue = q

    req := httptest.NewRequest("POST", "/monitor/run", strings.NewReader(`{"keywords":["laptop"],"window_minutes":30}`))
    w := httptest.NewRecorder()

    ctrl.TriggerRun(w, req)

    if w.Result().StatusCode != http.StatusAccepted {
        t.Fatalf("expected 202, got %d", w.Result().StatusCode)
    }

    select {
    case job := <-received:
        if len(job.Keywords) != 1 || job.Keywords[0] != "laptop" {
            t.Errorf("unexpected keywords: %v", job.Keywords)
        }
        if job.WindowMinutes != 30 {
            t.Errorf("expected 30 minute window, got %d", job.WindowMinutes)
        }
    case <-time.After(time.Second):
        t.Fatal("job never reached the queue")
    }
}

func TestTriggerRunNoKeywords(t *testing.T) {
    ctrl := newController()
    ctrl.Config.Keywords = nil
    ctrl.Queue = queue.NewInMemoryQueue(logrus.New())

    req := httptest.NewRequest("POST", "/monitor/run", nil)
    w := httptest.NewRecorder()

    ctrl.TriggerRun(w, req)

    if w.Result().StatusCode != http.StatusBadRequest {
        t.Fatalf("expected 400 for unconfigured keywords, got %d", w.Result().StatusCode)
    }
}
