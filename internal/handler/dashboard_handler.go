// internal/handler/dashboard_handler.go
package handler

import (
    "encoding/json"
    "net/http"
    "strconv"

    "github.com/go-chi/chi/v5"

    "github.com/unclebandit/socialpulse-backend/internal/repository"
)

// DashboardHandler serves the read-only post/campaign views the dashboard
// renders.
type DashboardHandler struct {
    Repo repository.PostRepositoryInterface
}

func NewDashboardHandler(repo repository.PostRepositoryInterface) *DashboardHandler {
    return &DashboardHandler{Repo: repo}
}

// ListPostsHandler returns recent posts for a campaign.
// GET /campaigns/{campaign}/posts?label=&limit=
func (h *DashboardHandler) ListPostsHandler(w http.ResponseWriter, r *http.Request) {
    campaign := chi.URLParam(r, "campaign")
    if campaign == "" {
        http.Error(w, "missing campaign", http.StatusBadRequest)
        return
    }

    label := r.URL.Query().Get("label")

    limit := 50
    if s := r.URL.Query().Get("limit"); s != "" {
        if n, err := strconv.Atoi(s); err == nil && n > 0 {
            limit = n
        }
    }

    posts, err := h.Repo.ListByCampaign(r.Context(), campaign, label, limit)
    if err != nil {
        http.Error(w, "failed to fetch posts: "+err.Error(), http.StatusServiceUnavailable)
        return
    }

    w.Header().Set("Content-Type", "application/json")
    json.NewEncoder(w).Encode(map[string]interface{}{
        "campaign": repository.NormalizeCampaign(campaign),
        "count":    len(posts),
        "data":     posts,
    })
}

// CampaignStatsHandler returns per-label post counts for a campaign.
// GET /campaigns/{campaign}/stats
func (h *DashboardHandler) CampaignStatsHandler(w http.ResponseWriter, r *http.Request) {
    campaign := chi.URLParam(r, "campaign")
    if campaign == "" {
        http.Error(w, "missing campaign", http.StatusBadRequest)
        return
    }

    stats, err := h.Repo.CampaignStats(r.Context(), campaign)
    if err != nil {
        http.Error(w, "failed to fetch stats: "+err.Error(), http.StatusServiceUnavailable)
        return
    }

    total := 0
    for _, n := range stats {
        total += n
    }

    w.Header().Set("Content-Type", "application/json")
    json.NewEncoder(w).Encode(map[string]interface{}{
        "campaign": repository.NormalizeCampaign(campaign),
        "total":    total,
        "stats":    stats,
    })
}

// HealthzHandler reports liveness.
func HealthzHandler(w http.ResponseWriter, r *http.Request) {
    w.Header().Set("Content-Type", "application/json")
    json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
