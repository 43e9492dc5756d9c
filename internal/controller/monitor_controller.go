// internal/controller/monitor_controller.go
package controller

import (
    "encoding/json"
    "net/http"
    "strconv"
    "time"

    "github.com/unclebandit/socialpulse-backend/internal/config"
    appErrors "github.com/unclebandit/socialpulse-backend/internal/errors"
    "github.com/unclebandit/socialpulse-backend/internal/model"
    "github.com/unclebandit/socialpulse-backend/internal/queue"
    "github.com/unclebandit/socialpulse-backend/internal/service"
)

type MonitorController struct {
    MonitorService *service.MonitorService
    Queue          queue.Queue
    Config         config.MonitorConfig
}

// Monitor handles GET /monitor?phrase=&days_back=&source=. It runs the
// pipeline synchronously and returns the matching (or freshly synthesized)
// posts.
func (c *MonitorController) Monitor(w http.ResponseWriter, r *http.Request) {
    phrase := r.URL.Query().Get("phrase")

    daysBack, _ := strconv.Atoi(r.URL.Query().Get("days_back"))
    if daysBack < 1 {
        daysBack = c.Config.DefaultDaysBack
    }
    if daysBack < 1 {
        daysBack = 7
    }

    source := r.URL.Query().Get("source")
    if source == "" {
        source = model.SourceAll
    }

    end := time.Now().UTC()
    start := end.AddDate(0, 0, -daysBack)

    posts, err := c.MonitorService.Monitor(r.Context(), service.MonitorRequest{
        Phrase: phrase,
        Start:  start,
        End:    end,
        Source: source,
    })
    if err != nil {
        writeError(w, err)
        return
    }

    w.Header().Set("Content-Type", "application/json")
    json.NewEncoder(w).Encode(map[string]interface{}{
        "phrase":       phrase,
        "source":       source,
        "window_start": start,
        "window_end":   end,
        "count":        len(posts),
        "data":         posts,
    })
}

// TriggerRun handles POST /monitor/run. It queues a monitor job instead of
// running it inline; the worker picks it up.
func (c *MonitorController) TriggerRun(w http.ResponseWriter, r *http.Request) {
    var body struct {
        Keywords      []string `json:"keywords"`
        WindowMinutes int      `json:"window_minutes"`
        Source        string   `json:"source"`
    }
    if r.Body != nil && r.ContentLength != 0 {
        if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
            http.Error(w, "invalid body", http.StatusBadRequest)
            return
        }
    }

    if len(body.Keywords) == 0 {
        body.Keywords = c.Config.Keywords
    }
    if len(body.Keywords) == 0 {
        writeError(w, appErrors.NewInvalidRequest("no keywords configured"))
        return
    }
    if body.WindowMinutes < 1 {
        body.WindowMinutes = c.Config.WindowMinutes
    }

    job := queue.MonitorJob{
        Keywords:      body.Keywords,
        WindowMinutes: body.WindowMinutes,
        Source:        body.Source,
    }
    if err := c.Queue.Publish(service.MonitorTopic, job); err != nil {
        http.Error(w, "failed to queue monitor run: "+err.Error(), http.StatusInternalServerError)
        return
    }

    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(http.StatusAccepted)
    json.NewEncoder(w).Encode(map[string]interface{}{
        "status":         "queued",
        "keywords":       job.Keywords,
        "window_minutes": job.WindowMinutes,
    })
}

// writeError maps the typed error kinds onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
    status := http.StatusInternalServerError
    kind := "internal"

    switch {
    case appErrors.IsInvalidRequest(err):
        status = http.StatusBadRequest
        kind = "invalid_request"
    case appErrors.IsScorerUnavailable(err):
        status = http.StatusBadGateway
        kind = "scorer_unavailable"
    case appErrors.IsPartialBatchFailure(err):
        kind = "partial_batch_failure"
    case appErrors.IsStoreUnavailable(err):
        status = http.StatusServiceUnavailable
        kind = "store_unavailable"
    }

    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(status)
    json.NewEncoder(w).Encode(map[string]interface{}{
        "error": kind,
        "message": err.Error(),
    })
}
