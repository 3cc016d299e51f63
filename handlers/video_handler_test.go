package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"github.com/serisow/loopforge/asset"
	"github.com/serisow/loopforge/composer"
	"github.com/serisow/loopforge/jobstore"
	"github.com/serisow/loopforge/preset"
	"github.com/serisow/loopforge/progress"
	"github.com/serisow/loopforge/worker"
)

type stubRunner struct{}

func (stubRunner) Probe(ctx context.Context, path string) (float64, error) { return 10, nil }
func (stubRunner) Encode(ctx context.Context, spec composer.EncodeSpec, onProgress composer.ProgressFunc) error {
	return nil
}

type stubHistory struct {
	records []jobstore.Record
}

func (s *stubHistory) RecordResult(ctx context.Context, rec jobstore.Record) error {
	s.records = append(s.records, rec)
	return nil
}

func (s *stubHistory) GetResult(ctx context.Context, jobID string) (*jobstore.Record, error) {
	for i := range s.records {
		if s.records[i].JobID == jobID {
			return &s.records[i], nil
		}
	}
	return nil, nil
}

func (s *stubHistory) ListRecent(ctx context.Context, limit int) ([]jobstore.Record, error) {
	return s.records, nil
}

func newHandler(t *testing.T, queueSize int, history jobstore.Repository) (*VideoHandler, *progress.MemoryStore) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := progress.NewMemoryStore(nil)
	c := composer.New(logger, store, stubRunner{}, t.TempDir(), false)
	presets := preset.New(logger, asset.DefaultCatalog(), c, t.TempDir())
	// Pool is never started: jobs stay queued, which is all these tests need.
	pool := worker.NewPool(logger, presets, 1, queueSize)

	return NewVideoHandler(logger, pool, store, history), store
}

func TestGenerateVideoQueuesJob(t *testing.T) {
	h, _ := newHandler(t, 4, nil)

	body := `{"content_type": "rain", "title": "Rain Sounds", "duration_minutes": 60}`
	req := httptest.NewRequest("POST", "/videos/generate", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.GenerateVideo(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202: %s", w.Code, w.Body.String())
	}

	var resp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp["job_id"] == "" {
		t.Error("expected a job_id in the response")
	}
}

func TestGenerateVideoValidation(t *testing.T) {
	h, _ := newHandler(t, 4, nil)

	tests := []struct {
		name string
		body string
		code int
	}{
		{"invalid json", `{`, http.StatusBadRequest},
		{"missing content type", `{"duration_minutes": 60}`, http.StatusBadRequest},
		{"zero duration", `{"content_type": "rain"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/videos/generate", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			h.GenerateVideo(w, req)
			if w.Code != tt.code {
				t.Errorf("status = %d, want %d", w.Code, tt.code)
			}
		})
	}
}

func TestGenerateVideoQueueFull(t *testing.T) {
	h, _ := newHandler(t, 1, nil)

	body := `{"content_type": "rain", "duration_minutes": 60}`

	req := httptest.NewRequest("POST", "/videos/generate", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.GenerateVideo(w, req)
	if w.Code != http.StatusAccepted {
		t.Fatalf("first submit status = %d, want 202", w.Code)
	}

	req = httptest.NewRequest("POST", "/videos/generate", strings.NewReader(body))
	w = httptest.NewRecorder()
	h.GenerateVideo(w, req)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("second submit status = %d, want 503", w.Code)
	}
}

func TestGetProgress(t *testing.T) {
	h, store := newHandler(t, 4, nil)
	store.Init("job-1", 1800)
	store.Update("job-1", 900, progress.StatusGenerating, "")

	r := mux.NewRouter()
	r.HandleFunc("/videos/{job_id}/progress", h.GetProgress)

	req := httptest.NewRequest("GET", "/videos/job-1/progress", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var p progress.Progress
	if err := json.NewDecoder(w.Body).Decode(&p); err != nil {
		t.Fatal(err)
	}
	if p.Percentage != 50 || p.Status != progress.StatusGenerating {
		t.Errorf("progress = %d%%/%s, want 50%%/generating", p.Percentage, p.Status)
	}
}

func TestGetProgressUnknownJob(t *testing.T) {
	h, _ := newHandler(t, 4, nil)

	r := mux.NewRouter()
	r.HandleFunc("/videos/{job_id}/progress", h.GetProgress)

	req := httptest.NewRequest("GET", "/videos/ghost/progress", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestGetResult(t *testing.T) {
	history := &stubHistory{records: []jobstore.Record{
		{JobID: "job-1", ContentType: "rain", Status: "completed", OutputPath: "/out/video_job-1.mp4"},
	}}
	h, _ := newHandler(t, 4, history)

	r := mux.NewRouter()
	r.HandleFunc("/videos/{job_id}/result", h.GetResult)

	req := httptest.NewRequest("GET", "/videos/job-1/result", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var rec jobstore.Record
	if err := json.NewDecoder(w.Body).Decode(&rec); err != nil {
		t.Fatal(err)
	}
	if rec.JobID != "job-1" || rec.OutputPath != "/out/video_job-1.mp4" {
		t.Errorf("record = %+v", rec)
	}
}

func TestGetResultUnknownJob(t *testing.T) {
	h, _ := newHandler(t, 4, &stubHistory{})

	r := mux.NewRouter()
	r.HandleFunc("/videos/{job_id}/result", h.GetResult)

	req := httptest.NewRequest("GET", "/videos/ghost/result", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestGetResultDisabled(t *testing.T) {
	h, _ := newHandler(t, 4, nil)

	r := mux.NewRouter()
	r.HandleFunc("/videos/{job_id}/result", h.GetResult)

	req := httptest.NewRequest("GET", "/videos/job-1/result", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
}

func TestListHistory(t *testing.T) {
	history := &stubHistory{records: []jobstore.Record{
		{JobID: "job-1", ContentType: "rain", Status: "completed"},
	}}
	h, _ := newHandler(t, 4, history)

	req := httptest.NewRequest("GET", "/videos/history", nil)
	w := httptest.NewRecorder()
	h.ListHistory(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var records []jobstore.Record
	if err := json.NewDecoder(w.Body).Decode(&records); err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].JobID != "job-1" {
		t.Errorf("records = %+v", records)
	}
}

func TestListHistoryDisabled(t *testing.T) {
	h, _ := newHandler(t, 4, nil)

	req := httptest.NewRequest("GET", "/videos/history", nil)
	w := httptest.NewRecorder()
	h.ListHistory(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
}
