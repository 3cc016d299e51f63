package composer

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// CleanupService removes rendered videos older than the retention period.
// Long-form outputs are large; without this, unattended batch rendering
// fills the disk.
type CleanupService struct {
	logger        *slog.Logger
	outputDir     string
	retentionDays int
}

func NewCleanupService(logger *slog.Logger, outputDir string, retentionDays int) *CleanupService {
	return &CleanupService{
		logger:        logger,
		outputDir:     outputDir,
		retentionDays: retentionDays,
	}
}

// StartSchedule begins regular cleanup of old output files.
func (s *CleanupService) StartSchedule(interval time.Duration) {
	ticker := time.NewTicker(interval)

	go func() {
		for range ticker.C {
			s.PerformCleanup()
		}
	}()

	s.logger.Info("Output cleanup service started",
		slog.Int("retention_days", s.retentionDays),
		slog.Duration("interval", interval))
}

// PerformCleanup removes videos older than the retention period.
func (s *CleanupService) PerformCleanup() {
	cutoffTime := time.Now().AddDate(0, 0, -s.retentionDays)

	err := filepath.Walk(s.outputDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if filepath.Ext(path) != ".mp4" && filepath.Ext(path) != ".mov" && filepath.Ext(path) != ".webm" {
			return nil
		}

		if info.ModTime().Before(cutoffTime) {
			s.logger.Info("Removing old output file",
				slog.String("path", path),
				slog.Time("modified_time", info.ModTime()),
				slog.Time("cutoff_time", cutoffTime))

			if err := os.Remove(path); err != nil {
				s.logger.Error("Failed to remove output file",
					slog.String("path", path),
					slog.String("error", err.Error()))
			}
		}

		return nil
	})

	if err != nil && !os.IsNotExist(err) {
		s.logger.Error("Error during output cleanup",
			slog.String("error", err.Error()))
	}
}
