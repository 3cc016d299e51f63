package progress

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

type mockTimeProvider struct {
	currentTime time.Time
	mutex       sync.Mutex
}

func (mtp *mockTimeProvider) Now() time.Time {
	mtp.mutex.Lock()
	defer mtp.mutex.Unlock()
	return mtp.currentTime
}

func (mtp *mockTimeProvider) Add(d time.Duration) {
	mtp.mutex.Lock()
	mtp.currentTime = mtp.currentTime.Add(d)
	mtp.mutex.Unlock()
}

func TestInitThenGet(t *testing.T) {
	s := NewMemoryStore(nil)
	s.Init("job-1", 1800)

	p, ok := s.Get("job-1")
	if !ok {
		t.Fatal("expected record after Init")
	}
	if p.Percentage != 0 {
		t.Errorf("percentage = %d, want 0", p.Percentage)
	}
	if p.Status != StatusGenerating {
		t.Errorf("status = %q, want %q", p.Status, StatusGenerating)
	}
	if p.TotalDuration != 1800 {
		t.Errorf("total duration = %v, want 1800", p.TotalDuration)
	}
}

func TestUpdatePercentageDerivation(t *testing.T) {
	tests := []struct {
		currentTime float64
		total       float64
		expected    int
	}{
		{0, 1800, 0},
		{450, 1800, 25},
		{900, 1800, 50},
		{1791, 1800, 100}, // rounds up
		{1800, 1800, 100},
		{5000, 1800, 100}, // capped
		{17, 1800, 1},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("t=%v", tt.currentTime), func(t *testing.T) {
			s := NewMemoryStore(nil)
			s.Init("job", tt.total)
			s.Update("job", tt.currentTime, "", "")

			p, _ := s.Get("job")
			if p.Percentage != tt.expected {
				t.Errorf("percentage = %d, want %d", p.Percentage, tt.expected)
			}
		})
	}
}

func TestUpdateIsRecomputedNotIncremented(t *testing.T) {
	s := NewMemoryStore(nil)
	s.Init("job", 100)

	// Double delivery of the same timemark must not overshoot.
	s.Update("job", 80, "", "")
	s.Update("job", 80, "", "")

	p, _ := s.Get("job")
	if p.Percentage != 80 {
		t.Errorf("percentage = %d, want 80", p.Percentage)
	}
}

func TestUnknownJobOperationsAreNoOps(t *testing.T) {
	s := NewMemoryStore(nil)

	s.Update("ghost", 10, StatusGenerating, "msg")
	s.Complete("ghost", "")
	s.Fail("ghost", "boom")

	if _, ok := s.Get("ghost"); ok {
		t.Error("no-op writes must not create records")
	}
}

func TestCompleteForcesFullPercentage(t *testing.T) {
	s := NewMemoryStore(nil)
	s.Init("job", 1800)
	s.Update("job", 42, "", "")

	s.Complete("job", "done")

	p, _ := s.Get("job")
	if p.Percentage != 100 {
		t.Errorf("percentage = %d, want 100", p.Percentage)
	}
	if p.Status != StatusCompleted {
		t.Errorf("status = %q, want %q", p.Status, StatusCompleted)
	}
}

func TestFailKeepsPercentage(t *testing.T) {
	s := NewMemoryStore(nil)
	s.Init("job", 100)
	s.Update("job", 60, "", "")

	s.Fail("job", "encoder exploded")

	p, _ := s.Get("job")
	if p.Status != StatusError {
		t.Errorf("status = %q, want %q", p.Status, StatusError)
	}
	if p.Percentage != 60 {
		t.Errorf("percentage = %d, want 60 (unchanged)", p.Percentage)
	}
	if p.Message != "encoder exploded" {
		t.Errorf("message = %q", p.Message)
	}
}

func TestSweepReapsStaleRecords(t *testing.T) {
	mtp := &mockTimeProvider{currentTime: time.Now()}
	s := NewMemoryStore(nil)
	s.SetTimeProvider(mtp)

	s.Init("stale", 100)
	mtp.Add(2 * time.Hour)
	s.Init("fresh", 100)

	s.Sweep(time.Hour)

	if _, ok := s.Get("stale"); ok {
		t.Error("stale record should have been reaped")
	}
	if _, ok := s.Get("fresh"); !ok {
		t.Error("fresh record should have survived the sweep")
	}
}

func TestConcurrentJobsAreIndependent(t *testing.T) {
	s := NewMemoryStore(nil)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			jobID := fmt.Sprintf("job-%d", n)
			s.Init(jobID, 1000)
			for tm := 0.0; tm <= 1000; tm += 100 {
				s.Update(jobID, tm, StatusGenerating, "")
			}
			s.Complete(jobID, "")
		}(i)
	}
	wg.Wait()

	for i := 0; i < 100; i++ {
		p, ok := s.Get(fmt.Sprintf("job-%d", i))
		if !ok {
			t.Fatalf("job-%d missing", i)
		}
		if p.Status != StatusCompleted || p.Percentage != 100 {
			t.Errorf("job-%d = %q/%d, want completed/100", i, p.Status, p.Percentage)
		}
	}
}

func TestSweeperLoop(t *testing.T) {
	mtp := &mockTimeProvider{currentTime: time.Now()}
	s := NewMemoryStore(nil)
	s.SetTimeProvider(mtp)

	s.Init("job", 100)
	s.StartSweeper(time.Hour, 10*time.Millisecond)
	defer s.StopSweeper()

	mtp.Add(2 * time.Hour)
	time.Sleep(50 * time.Millisecond)

	if _, ok := s.Get("job"); ok {
		t.Error("sweeper loop should have reaped the stale record")
	}
}
