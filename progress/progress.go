package progress

import "time"

type Status string

const (
	StatusGenerating Status = "generating"
	StatusUploading  Status = "uploading"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

// Progress is the pollable state of one composition job. The composer is the
// sole writer for a given job id; API consumers only read.
type Progress struct {
	JobID         string    `json:"job_id"`
	Percentage    int       `json:"percentage"`
	CurrentTime   float64   `json:"current_time"`
	TotalDuration float64   `json:"total_duration"`
	Status        Status    `json:"status"`
	Message       string    `json:"message,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Store tracks per-job progress records. Writes against unknown job ids are
// silent no-ops; this is a telemetry side-channel, not the source of truth
// for job outcome.
type Store interface {
	Init(jobID string, totalDuration float64)
	Update(jobID string, currentTime float64, status Status, message string)
	Complete(jobID string, message string)
	Fail(jobID string, message string)
	Get(jobID string) (*Progress, bool)
	Sweep(threshold time.Duration)
}

type TimeProvider interface {
	Now() time.Time
}

type realTimeProvider struct{}

func (rtp *realTimeProvider) Now() time.Time {
	return time.Now()
}
