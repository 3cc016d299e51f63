package composer

import (
	"fmt"

	"github.com/serisow/loopforge/asset"
)

// TextOverlay is one caller-supplied drawtext element.
type TextOverlay struct {
	Text            string  `json:"text"`
	Position        string  `json:"position"`
	FontSize        int     `json:"font_size"`
	FontColor       string  `json:"font_color"`
	BackgroundColor string  `json:"background_color,omitempty"`
	Opacity         float64 `json:"opacity,omitempty"`
	StartTime       float64 `json:"start_time,omitempty"`
	EndTime         float64 `json:"end_time,omitempty"`
}

// Options is the full request descriptor for one composition. It is built by
// the caller and read-only inside the composer.
type Options struct {
	Audio  *asset.AudioAsset
	Visual *asset.VisualAsset

	// Duration is the target output length in seconds. The looped inputs are
	// stretched to cover it regardless of their natural durations.
	Duration   float64
	OutputPath string
	Quality    QualityTier

	Title    string
	Subtitle string

	Watermark    bool
	ShowDuration bool
	FadeIn       bool
	FadeOut      bool

	Grading  GradingPreset
	Overlays []TextOverlay

	// JobID correlates progress updates with later polls. Empty disables
	// progress reporting for this call.
	JobID string
}

// Result is the terminal value of one composition request. Failures are
// carried in the Error field, never raised across the call boundary.
type Result struct {
	Success    bool    `json:"success"`
	OutputPath string  `json:"output_path,omitempty"`
	Duration   float64 `json:"duration,omitempty"`
	FileSize   int64   `json:"file_size,omitempty"`
	Error      string  `json:"error,omitempty"`
}

func failure(format string, args ...interface{}) Result {
	return Result{Success: false, Error: fmt.Sprintf(format, args...)}
}
