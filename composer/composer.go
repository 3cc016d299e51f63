package composer

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/serisow/loopforge/progress"
)

// Composer turns one asset pair plus duration/style parameters into a
// finished video file, reporting incremental progress along the way.
type Composer struct {
	logger          *slog.Logger
	store           progress.Store
	runner          Runner
	assetsDir       string
	overlaysEnabled bool
}

func New(logger *slog.Logger, store progress.Store, runner Runner, assetsDir string, overlaysEnabled bool) *Composer {
	return &Composer{
		logger:          logger,
		store:           store,
		runner:          runner,
		assetsDir:       assetsDir,
		overlaysEnabled: overlaysEnabled,
	}
}

// Compose runs one composition to completion or failure. All failures come
// back inside the Result; nothing is raised across this boundary.
func (c *Composer) Compose(ctx context.Context, opts Options) Result {
	if opts.Audio == nil || opts.Visual == nil {
		return failure("composition requires both an audio and a visual asset")
	}
	if opts.Duration <= 0 {
		return failure("target duration must be positive, got %.1fs", opts.Duration)
	}
	if minDuration := c.minimumDuration(opts); opts.Duration < minDuration {
		return failure("target duration %.1fs is below the minimum %.1fs (fade overhead)",
			opts.Duration, minDuration)
	}
	if opts.OutputPath == "" {
		return failure("output path is required")
	}

	audioPath := filepath.Join(c.assetsDir, opts.Audio.Path)
	visualPath := filepath.Join(c.assetsDir, opts.Visual.Path)

	// Fail fast before paying encoder startup cost on a guaranteed failure.
	if _, err := os.Stat(audioPath); os.IsNotExist(err) {
		return failure("audio file not found: %s", audioPath)
	}
	if _, err := os.Stat(visualPath); os.IsNotExist(err) {
		return failure("visual file not found: %s", visualPath)
	}

	if err := os.MkdirAll(filepath.Dir(opts.OutputPath), 0755); err != nil {
		return failure("failed to create output directory: %v", err)
	}

	if opts.JobID != "" {
		c.store.Init(opts.JobID, opts.Duration)
	}

	c.logger.Info("Starting composition",
		slog.String("job_id", opts.JobID),
		slog.String("audio", opts.Audio.ID),
		slog.String("visual", opts.Visual.ID),
		slog.Float64("duration", opts.Duration),
		slog.String("quality", string(opts.Quality)))

	// Natural durations are diagnostics only; the encode is driven by the
	// target duration since both sources loop.
	if d, err := c.runner.Probe(ctx, audioPath); err == nil {
		c.logger.Debug("Probed audio loop", slog.String("path", audioPath), slog.Float64("duration", d))
	} else {
		c.logger.Warn("Audio probe failed", slog.String("error", err.Error()))
	}
	if d, err := c.runner.Probe(ctx, visualPath); err == nil {
		c.logger.Debug("Probed visual loop", slog.String("path", visualPath), slog.Float64("duration", d))
	} else {
		c.logger.Warn("Visual probe failed", slog.String("error", err.Error()))
	}

	settings := resolveQuality(opts.Quality)
	fb := &filterBuilder{opts: opts, settings: settings, overlays: c.overlaysEnabled}

	spec := EncodeSpec{
		VisualPath:   visualPath,
		AudioPath:    audioPath,
		VideoFilters: fb.videoFilters(),
		AudioFilters: fb.audioFilters(),
		Duration:     opts.Duration,
		VideoBitrate: settings.VideoBitrate,
		AudioBitrate: settings.AudioBitrate,
		CRF:          settings.CRF,
		Preset:       settings.Preset,
		OutputPath:   opts.OutputPath,
	}

	onProgress := func(currentTime, percent float64) {
		if opts.JobID != "" {
			c.store.Update(opts.JobID, currentTime, progress.StatusGenerating, "")
		}
	}

	if err := c.runner.Encode(ctx, spec, onProgress); err != nil {
		if opts.JobID != "" {
			c.store.Fail(opts.JobID, err.Error())
		}
		// Encoder failures are deterministic (bad input, bad filter graph,
		// missing codec); retrying would reproduce the same failure.
		return failure("video generation failed: %v", err)
	}

	info, err := os.Stat(opts.OutputPath)
	if err != nil {
		if opts.JobID != "" {
			c.store.Fail(opts.JobID, "encoder produced no output file")
		}
		return failure("FFmpeg did not create an output file: %v", err)
	}

	// Sanity check against the requested target.
	finalDuration := opts.Duration
	if d, err := c.runner.Probe(ctx, opts.OutputPath); err == nil {
		finalDuration = d
	} else {
		c.logger.Warn("Output probe failed", slog.String("error", err.Error()))
	}

	if opts.JobID != "" {
		c.store.Complete(opts.JobID, "")
	}

	c.logger.Info("Composition completed",
		slog.String("job_id", opts.JobID),
		slog.String("output_path", opts.OutputPath),
		slog.Float64("duration", finalDuration),
		slog.Int64("size", info.Size()))

	return Result{
		Success:    true,
		OutputPath: opts.OutputPath,
		Duration:   finalDuration,
		FileSize:   info.Size(),
	}
}

// minimumDuration is the fade overhead the target must clear so fade timing
// can never go negative.
func (c *Composer) minimumDuration(opts Options) float64 {
	var min float64
	if opts.FadeIn {
		min += fadeDuration
	}
	if opts.FadeOut {
		min += fadeDuration
	}
	return min
}
