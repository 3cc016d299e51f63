// Package worker runs queued composition jobs through a bounded pool.
// Unbounded concurrent 8-hour transcodes would exhaust CPU and memory, so
// the pool size is the hard concurrency limit for the whole process.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/serisow/loopforge/composer"
	"github.com/serisow/loopforge/jobstore"
	"github.com/serisow/loopforge/notify"
	"github.com/serisow/loopforge/preset"
)

// Job is one queued composition request.
type Job struct {
	ID          string `json:"id"`
	ContentType string `json:"content_type"`
	Title       string `json:"title"`
	Minutes     int    `json:"duration_minutes"`
}

type Pool struct {
	logger   *slog.Logger
	presets  *preset.Presets
	history  jobstore.Repository
	notifier notify.Notifier

	jobs    chan Job
	workers int

	mu      sync.Mutex
	started bool
	wg      sync.WaitGroup
}

func NewPool(logger *slog.Logger, presets *preset.Presets, workers, queueSize int) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 16
	}
	return &Pool{
		logger:  logger,
		presets: presets,
		jobs:    make(chan Job, queueSize),
		workers: workers,
	}
}

// SetHistory attaches an optional render history repository.
func (p *Pool) SetHistory(history jobstore.Repository) { p.history = history }

// SetNotifier attaches an optional outcome notifier.
func (p *Pool) SetNotifier(notifier notify.Notifier) { p.notifier = notifier }

// Start launches the workers. They exit when the context is cancelled, which
// also kills any encode in flight.
func (p *Pool) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	p.logger.Info("Starting render worker pool",
		slog.Int("workers", p.workers),
		slog.Int("queue_size", cap(p.jobs)))

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run(ctx)
	}
}

// Submit enqueues a job and returns its id. A full queue is reported as an
// error immediately rather than blocking the caller.
func (p *Pool) Submit(job Job) (string, error) {
	if job.ID == "" {
		job.ID = uuid.New().String()
	}
	if job.Minutes <= 0 {
		return "", fmt.Errorf("job duration must be positive, got %d minutes", job.Minutes)
	}

	select {
	case p.jobs <- job:
		p.logger.Info("Queued render job",
			slog.String("job_id", job.ID),
			slog.String("content_type", job.ContentType),
			slog.Int("minutes", job.Minutes))
		return job.ID, nil
	default:
		return "", fmt.Errorf("render queue is full (%d pending)", cap(p.jobs))
	}
}

// Wait blocks until all workers have exited.
func (p *Pool) Wait() {
	p.wg.Wait()
}

func (p *Pool) run(ctx context.Context) {
	defer p.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case job := <-p.jobs:
			p.execute(ctx, job)
		}
	}
}

func (p *Pool) execute(ctx context.Context, job Job) {
	start := time.Now()
	result := p.presets.Generate(ctx, job.ContentType, job.Title, job.Minutes, job.ID)

	if result.Success {
		p.logger.Info("Render job finished",
			slog.String("job_id", job.ID),
			slog.String("output_path", result.OutputPath),
			slog.Duration("wall_time", time.Since(start)))
		if p.notifier != nil {
			p.notifier.JobCompleted(job.ID, job.ContentType, result.OutputPath)
		}
	} else {
		p.logger.Error("Render job failed",
			slog.String("job_id", job.ID),
			slog.String("error", result.Error))
		if p.notifier != nil {
			p.notifier.JobFailed(job.ID, job.ContentType, result.Error)
		}
	}

	p.record(job, result)
}

func (p *Pool) record(job Job, result composer.Result) {
	if p.history == nil {
		return
	}

	status := "completed"
	if !result.Success {
		status = "error"
	}

	rec := jobstore.Record{
		JobID:       job.ID,
		ContentType: job.ContentType,
		Title:       job.Title,
		OutputPath:  result.OutputPath,
		Duration:    result.Duration,
		FileSize:    result.FileSize,
		Status:      status,
		Error:       result.Error,
	}

	recordCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := p.history.RecordResult(recordCtx, rec); err != nil {
		p.logger.Error("Failed to record render job outcome",
			slog.String("job_id", job.ID),
			slog.String("error", err.Error()))
	}
}
