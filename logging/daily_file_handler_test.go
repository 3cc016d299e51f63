package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func readLogFile(t *testing.T, dir string) string {
	t.Helper()

	path := filepath.Join(dir, "render-"+time.Now().Format("2006-01-02")+".log")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	return string(data)
}

func TestHandleWritesRecordToFile(t *testing.T) {
	dir := t.TempDir()
	h, err := NewDailyFileHandler(dir, &slog.HandlerOptions{Level: slog.LevelDebug})
	if err != nil {
		t.Fatal(err)
	}

	logger := slog.New(h)
	logger.Info("Started encode", slog.String("job_id", "job-1"))

	got := readLogFile(t, dir)
	if !strings.Contains(got, "Started encode") || !strings.Contains(got, "job_id=job-1") {
		t.Errorf("log file missing record content: %q", got)
	}
}

func TestBoundAttrsReachFile(t *testing.T) {
	dir := t.TempDir()
	h, err := NewDailyFileHandler(dir, &slog.HandlerOptions{Level: slog.LevelDebug})
	if err != nil {
		t.Fatal(err)
	}

	logger := slog.New(h).With(slog.String("job_id", "job-7"))
	logger.Info("Encode finished", slog.Int("exit_code", 0))

	got := readLogFile(t, dir)
	if !strings.Contains(got, "job_id=job-7") {
		t.Errorf("bound attribute missing from file line: %q", got)
	}
	if !strings.Contains(got, "exit_code=0") {
		t.Errorf("record attribute missing from file line: %q", got)
	}
}

func TestBoundAttrsAccumulate(t *testing.T) {
	dir := t.TempDir()
	h, err := NewDailyFileHandler(dir, &slog.HandlerOptions{Level: slog.LevelDebug})
	if err != nil {
		t.Fatal(err)
	}

	logger := slog.New(h).
		With(slog.String("component", "composer")).
		With(slog.String("job_id", "job-9"))
	logger.Warn("Slow encode")

	got := readLogFile(t, dir)
	if !strings.Contains(got, "component=composer") || !strings.Contains(got, "job_id=job-9") {
		t.Errorf("chained bound attributes missing from file line: %q", got)
	}
}
