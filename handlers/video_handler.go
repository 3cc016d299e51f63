package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/serisow/loopforge/jobstore"
	"github.com/serisow/loopforge/progress"
	"github.com/serisow/loopforge/worker"
)

// VideoHandler exposes the render queue and the progress store over HTTP.
// The dashboard polls the progress endpoint to drive its progress bar.
type VideoHandler struct {
	logger  *slog.Logger
	pool    *worker.Pool
	store   progress.Store
	history jobstore.Repository
}

func NewVideoHandler(logger *slog.Logger, pool *worker.Pool, store progress.Store, history jobstore.Repository) *VideoHandler {
	return &VideoHandler{
		logger:  logger,
		pool:    pool,
		store:   store,
		history: history,
	}
}

// GenerateVideo queues a composition job and returns its id immediately.
func (h *VideoHandler) GenerateVideo(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ContentType string `json:"content_type"`
		Title       string `json:"title"`
		Minutes     int    `json:"duration_minutes"`
		JobID       string `json:"job_id,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.ContentType == "" {
		http.Error(w, "content_type is required", http.StatusBadRequest)
		return
	}
	if req.Minutes <= 0 {
		http.Error(w, "duration_minutes must be positive", http.StatusBadRequest)
		return
	}

	jobID, err := h.pool.Submit(worker.Job{
		ID:          req.JobID,
		ContentType: req.ContentType,
		Title:       req.Title,
		Minutes:     req.Minutes,
	})
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to queue render job: %v", err), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{"job_id": jobID})
}

// GetProgress returns the pollable progress record for one job. A missing
// record means unknown or expired, reported as 404.
func (h *VideoHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	jobID := vars["job_id"]

	p, ok := h.store.Get(jobID)
	if !ok {
		http.Error(w, "Unknown or expired job", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(p)
}

// GetResult returns the recorded outcome for one job. Disabled when no
// history repository is configured.
func (h *VideoHandler) GetResult(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		http.Error(w, "Render history is not configured", http.StatusServiceUnavailable)
		return
	}

	vars := mux.Vars(r)
	jobID := vars["job_id"]

	rec, err := h.history.GetResult(r.Context(), jobID)
	if err != nil {
		h.logger.Error("Failed to fetch render result",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()))
		http.Error(w, "Failed to fetch render result", http.StatusInternalServerError)
		return
	}
	if rec == nil {
		http.Error(w, "Unknown job", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rec)
}

// ListHistory returns recent render outcomes. Disabled when no history
// repository is configured.
func (h *VideoHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		http.Error(w, "Render history is not configured", http.StatusServiceUnavailable)
		return
	}

	records, err := h.history.ListRecent(r.Context(), 50)
	if err != nil {
		h.logger.Error("Failed to list render history", slog.String("error", err.Error()))
		http.Error(w, "Failed to list render history", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(records)
}
