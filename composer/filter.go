package composer

import (
	"fmt"
	"strings"
)

const fadeDuration = 2.0

// filterBuilder assembles the -vf and -af chains for one composition.
type filterBuilder struct {
	opts     Options
	settings qualitySettings
	overlays bool
}

// videoFilters builds the video filter chain. The scale+pad base filter is
// always present, so the chain can never be empty — an empty chain would
// produce a malformed encoder command.
func (fb *filterBuilder) videoFilters() []string {
	w, h := fb.settings.Width, fb.settings.Height

	filters := []string{
		fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease", w, h),
		fmt.Sprintf("pad=%d:%d:(ow-iw)/2:(oh-ih)/2", w, h),
		"setsar=1",
	}

	if g, ok := gradingTable[fb.opts.Grading]; ok {
		filters = append(filters, g)
	}

	if fb.opts.FadeIn {
		filters = append(filters, fmt.Sprintf("fade=t=in:st=0:d=%g", fadeDuration))
	}
	if fb.opts.FadeOut {
		filters = append(filters,
			fmt.Sprintf("fade=t=out:st=%.3f:d=%g", fb.opts.Duration-fadeDuration, fadeDuration))
	}

	if fb.overlays {
		filters = append(filters, fb.overlayFilters()...)
	}

	return filters
}

// audioFilters builds the audio chain. The filter-level infinite loop is
// applied in addition to the input-level stream loop; the filter-graph loop
// is the one that holds up reliably across container formats.
func (fb *filterBuilder) audioFilters() []string {
	filters := []string{"aloop=loop=-1:size=2e9"}

	if fb.opts.FadeIn {
		filters = append(filters, fmt.Sprintf("afade=t=in:st=0:d=%g", fadeDuration))
	}
	if fb.opts.FadeOut {
		filters = append(filters,
			fmt.Sprintf("afade=t=out:st=%.3f:d=%g", fb.opts.Duration-fadeDuration, fadeDuration))
	}

	return filters
}

// overlayFilters renders the standard text elements plus any caller-supplied
// overlays. Only reached when the overlay capability flag is on.
func (fb *filterBuilder) overlayFilters() []string {
	var filters []string

	if fb.opts.Title != "" {
		filters = append(filters, drawText(fb.opts.Title, "top", 64, "white", "", 0, 0))
	}
	if fb.opts.Subtitle != "" {
		filters = append(filters, drawText(fb.opts.Subtitle, "below_title", 36, "white", "", 0, 0))
	}
	if fb.opts.ShowDuration {
		badge := formatDurationBadge(fb.opts.Duration)
		filters = append(filters, drawText(badge, "top_right", 28, "white", "black@0.5", 0, 0))
	}
	if fb.opts.Watermark {
		filters = append(filters, drawText("loopforge", "bottom_right", 24, "white@0.6", "", 0, 0))
	}

	for _, o := range fb.opts.Overlays {
		size := o.FontSize
		if size <= 0 {
			size = 40
		}
		color := o.FontColor
		if color == "" {
			color = "white"
		}
		filters = append(filters,
			drawText(o.Text, o.Position, size, color, o.BackgroundColor, o.StartTime, o.EndTime))
	}

	return filters
}

// drawText builds one drawtext filter with position expressions in ffmpeg's
// coordinate language.
func drawText(text, position string, fontSize int, fontColor, backgroundColor string, start, end float64) string {
	filter := fmt.Sprintf("drawtext=text='%s':fontsize=%d:fontcolor=%s:%s",
		escapeDrawText(text), fontSize, fontColor, textPosition(position))

	if backgroundColor != "" {
		filter += fmt.Sprintf(":box=1:boxcolor=%s:boxborderw=8", backgroundColor)
	}
	if end > start {
		filter += fmt.Sprintf(":enable='between(t,%.3f,%.3f)'", start, end)
	}

	return filter
}

func textPosition(position string) string {
	margin := 40

	switch position {
	case "top":
		return fmt.Sprintf("x=(w-text_w)/2:y=%d", margin)
	case "below_title":
		return fmt.Sprintf("x=(w-text_w)/2:y=%d", margin+90)
	case "bottom":
		return fmt.Sprintf("x=(w-text_w)/2:y=h-text_h-%d", margin)
	case "center":
		return "x=(w-text_w)/2:y=(h-text_h)/2"
	case "top_left":
		return fmt.Sprintf("x=%d:y=%d", margin, margin)
	case "top_right":
		return fmt.Sprintf("x=w-text_w-%d:y=%d", margin, margin)
	case "bottom_left":
		return fmt.Sprintf("x=%d:y=h-text_h-%d", margin, margin)
	case "bottom_right":
		return fmt.Sprintf("x=w-text_w-%d:y=h-text_h-%d", margin, margin)
	default:
		return fmt.Sprintf("x=(w-text_w)/2:y=h-text_h-%d", margin)
	}
}

// escapeDrawText escapes the characters drawtext treats as syntax.
func escapeDrawText(text string) string {
	text = strings.ReplaceAll(text, "\\", "\\\\")
	text = strings.ReplaceAll(text, ":", "\\:")
	text = strings.ReplaceAll(text, "'", "\\'")
	return text
}

func formatDurationBadge(seconds float64) string {
	total := int(seconds)
	hours := total / 3600
	minutes := (total % 3600) / 60
	if hours > 0 {
		return fmt.Sprintf("%dh %02dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}
