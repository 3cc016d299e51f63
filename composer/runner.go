package composer

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
)

// ProgressFunc receives elapsed output time in seconds and the derived
// percent-of-target, capped at 100.
type ProgressFunc func(currentTime float64, percent float64)

// EncodeSpec is one fully resolved encoder invocation.
type EncodeSpec struct {
	VisualPath   string
	AudioPath    string
	VideoFilters []string
	AudioFilters []string
	Duration     float64
	VideoBitrate string
	AudioBitrate string
	CRF          int
	Preset       string
	OutputPath   string
}

// Runner abstracts the transcoding subprocess so composition logic can be
// tested without ffmpeg installed.
type Runner interface {
	Probe(ctx context.Context, path string) (float64, error)
	Encode(ctx context.Context, spec EncodeSpec, onProgress ProgressFunc) error
}

// FFmpegRunner drives ffmpeg/ffprobe via os/exec. Cancelling the context
// kills the subprocess.
type FFmpegRunner struct {
	logger      *slog.Logger
	ffmpegPath  string
	ffprobePath string

	timeRegex    *regexp.Regexp
	percentRegex *regexp.Regexp
}

func NewFFmpegRunner(logger *slog.Logger, ffmpegPath, ffprobePath string) *FFmpegRunner {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &FFmpegRunner{
		logger:      logger,
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		// Matches both "time=HH:MM:SS.ms" and "time=MM:SS.ms" stats fields.
		timeRegex: regexp.MustCompile(`time=\s*([0-9]+(?::[0-9]{2})+(?:\.[0-9]+)?)`),
		// Fallback when no timemark is present in a stats line.
		percentRegex: regexp.MustCompile(`progress=\s*([0-9.]+)%`),
	}
}

// Probe returns a media file's duration in seconds.
func (r *FFmpegRunner) Probe(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, r.ffprobePath,
		"-i", path,
		"-show_entries", "format=duration",
		"-v", "quiet",
		"-of", "csv=p=0")
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe execution failed: %w", err)
	}

	durationStr := strings.TrimSpace(string(output))
	duration, err := strconv.ParseFloat(durationStr, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration: %w", err)
	}

	return duration, nil
}

// Encode runs one looped transcode to the target duration, forwarding stderr
// stats lines to the progress callback as they arrive.
func (r *FFmpegRunner) Encode(ctx context.Context, spec EncodeSpec, onProgress ProgressFunc) error {
	args := r.buildArgs(spec)

	r.logger.Debug("Executing FFmpeg command", slog.Any("args", args))

	cmd := exec.CommandContext(ctx, r.ffmpegPath, args...)
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to get stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start FFmpeg: %w", err)
	}

	var lastLines []string
	scanner := bufio.NewScanner(stderr)
	scanner.Split(scanStatsLines)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		// Keep a short tail of output for error reporting.
		lastLines = append(lastLines, line)
		if len(lastLines) > 10 {
			lastLines = lastLines[1:]
		}

		if onProgress == nil {
			continue
		}
		if t, ok := r.parseTimemark(line); ok {
			onProgress(t, percentOfTarget(t, spec.Duration))
		} else if pct, ok := r.parsePercent(line); ok {
			// The raw percent is scaled against the target duration; the
			// encoder's own percent-of-input is meaningless under looping.
			t := pct / 100 * spec.Duration
			onProgress(t, percentOfTarget(t, spec.Duration))
		}
	}

	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("encode cancelled: %w", ctx.Err())
		}
		r.logger.Error("FFmpeg execution failed",
			slog.String("error", err.Error()),
			slog.String("stderr_tail", strings.Join(lastLines, "\n")))
		return fmt.Errorf("FFmpeg execution failed: %s: %w", strings.Join(lastLines, "; "), err)
	}

	return nil
}

func (r *FFmpegRunner) buildArgs(spec EncodeSpec) []string {
	args := []string{
		// Both inputs repeat forever; the -t flag truncates the output at the
		// target duration. This is what stretches short loops to hours.
		"-stream_loop", "-1", "-i", spec.VisualPath,
		"-stream_loop", "-1", "-i", spec.AudioPath,
		"-vf", strings.Join(spec.VideoFilters, ","),
		"-af", strings.Join(spec.AudioFilters, ","),
		"-t", fmt.Sprintf("%.3f", spec.Duration),
		"-c:v", "libx264",
		"-preset", spec.Preset,
		"-crf", strconv.Itoa(spec.CRF),
		"-b:v", spec.VideoBitrate,
		"-c:a", "aac",
		"-b:a", spec.AudioBitrate,
		"-pix_fmt", "yuv420p",
		"-movflags", "+faststart",
		"-y", spec.OutputPath,
	}
	return args
}

// parseTimemark extracts the elapsed output time from a stats line.
// Supports HH:MM:SS(.ms) and MM:SS(.ms) forms.
func (r *FFmpegRunner) parseTimemark(line string) (float64, bool) {
	matches := r.timeRegex.FindStringSubmatch(line)
	if len(matches) < 2 {
		return 0, false
	}
	return timemarkToSeconds(matches[1])
}

func (r *FFmpegRunner) parsePercent(line string) (float64, bool) {
	matches := r.percentRegex.FindStringSubmatch(line)
	if len(matches) < 2 {
		return 0, false
	}
	pct, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, false
	}
	return pct, true
}

func timemarkToSeconds(mark string) (float64, bool) {
	parts := strings.Split(mark, ":")

	var hours, minutes, seconds float64
	var err error
	switch len(parts) {
	case 3:
		if hours, err = strconv.ParseFloat(parts[0], 64); err != nil {
			return 0, false
		}
		if minutes, err = strconv.ParseFloat(parts[1], 64); err != nil {
			return 0, false
		}
		if seconds, err = strconv.ParseFloat(parts[2], 64); err != nil {
			return 0, false
		}
	case 2:
		if minutes, err = strconv.ParseFloat(parts[0], 64); err != nil {
			return 0, false
		}
		if seconds, err = strconv.ParseFloat(parts[1], 64); err != nil {
			return 0, false
		}
	default:
		return 0, false
	}

	return hours*3600 + minutes*60 + seconds, true
}

func percentOfTarget(currentTime, target float64) float64 {
	if target <= 0 {
		return 0
	}
	pct := currentTime / target * 100
	if pct > 100 {
		pct = 100
	}
	return pct
}

// scanStatsLines splits on both \n and \r, since ffmpeg rewrites its stats
// line in place with carriage returns.
func scanStatsLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
