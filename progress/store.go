package progress

import (
	"log/slog"
	"math"
	"sync"
	"time"
)

// MemoryStore is the in-process Store implementation. Distinct jobs use
// disjoint keys, so concurrent compositions never contend on the same record.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*Progress
	logger  *slog.Logger
	clock   TimeProvider

	sweepTicker *time.Ticker
	stopSweep   chan struct{}
}

func NewMemoryStore(logger *slog.Logger) *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*Progress),
		logger:  logger,
		clock:   &realTimeProvider{},
	}
}

// SetTimeProvider swaps the clock. Used by tests to drive the sweep
// deterministically.
func (s *MemoryStore) SetTimeProvider(tp TimeProvider) {
	s.mu.Lock()
	s.clock = tp
	s.mu.Unlock()
}

// Init creates a fresh record at 0% with status generating. Calling it twice
// for the same job id overwrites the previous record; callers are expected to
// use fresh job ids per composition.
func (s *MemoryStore) Init(jobID string, totalDuration float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	s.records[jobID] = &Progress{
		JobID:         jobID,
		Percentage:    0,
		CurrentTime:   0,
		TotalDuration: totalDuration,
		Status:        StatusGenerating,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Update recomputes the percentage from currentTime against the recorded
// total duration. The percentage is derived, not incremented, so a stale
// double-update cannot overshoot 100.
func (s *MemoryStore) Update(jobID string, currentTime float64, status Status, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.records[jobID]
	if !ok {
		return
	}

	p.CurrentTime = currentTime
	if p.TotalDuration > 0 {
		pct := int(math.Round(currentTime / p.TotalDuration * 100))
		if pct > 100 {
			pct = 100
		}
		p.Percentage = pct
	}
	if status != "" {
		p.Status = status
	}
	if message != "" {
		p.Message = message
	}
	p.UpdatedAt = s.clock.Now()
}

// Complete marks the record finished at 100%.
func (s *MemoryStore) Complete(jobID string, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.records[jobID]
	if !ok {
		return
	}

	p.Percentage = 100
	p.CurrentTime = p.TotalDuration
	p.Status = StatusCompleted
	if message != "" {
		p.Message = message
	}
	p.UpdatedAt = s.clock.Now()
}

// Fail marks the record errored. The percentage is left where it was.
func (s *MemoryStore) Fail(jobID string, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.records[jobID]
	if !ok {
		return
	}

	p.Status = StatusError
	if message != "" {
		p.Message = message
	}
	p.UpdatedAt = s.clock.Now()
}

// Get returns a copy of the record so readers never observe writes in flight.
// A false result means unknown or expired, not an error.
func (s *MemoryStore) Get(jobID string) (*Progress, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.records[jobID]
	if !ok {
		return nil, false
	}
	cp := *p
	return &cp, true
}

// Sweep deletes records not updated within the threshold, bounding memory
// for abandoned or crashed jobs.
func (s *MemoryStore) Sweep(threshold time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	for jobID, p := range s.records {
		if now.Sub(p.UpdatedAt) > threshold {
			delete(s.records, jobID)
			if s.logger != nil {
				s.logger.Info("Reaped stale progress record",
					slog.String("job_id", jobID),
					slog.Time("updated_at", p.UpdatedAt))
			}
		}
	}
}

// StartSweeper runs Sweep on an interval until StopSweeper is called.
func (s *MemoryStore) StartSweeper(threshold, interval time.Duration) {
	s.mu.Lock()
	if s.sweepTicker != nil {
		s.mu.Unlock()
		return
	}
	s.sweepTicker = time.NewTicker(interval)
	s.stopSweep = make(chan struct{})
	ticker := s.sweepTicker
	stop := s.stopSweep
	s.mu.Unlock()

	go func() {
		for {
			select {
			case <-ticker.C:
				s.Sweep(threshold)
			case <-stop:
				ticker.Stop()
				return
			}
		}
	}()
}

func (s *MemoryStore) StopSweeper() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopSweep != nil {
		close(s.stopSweep)
		s.stopSweep = nil
		s.sweepTicker = nil
	}
}
