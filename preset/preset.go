// Package preset provides convenience wrappers that fix content type,
// subtitle text, and quality tier for common long-form compositions, then
// delegate to the composer.
package preset

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/serisow/loopforge/asset"
	"github.com/serisow/loopforge/composer"
)

// Quality above this many minutes is downgraded to bound file size.
const downgradeThresholdMinutes = 120

type Presets struct {
	logger    *slog.Logger
	catalog   *asset.Catalog
	composer  *composer.Composer
	outputDir string
}

func New(logger *slog.Logger, catalog *asset.Catalog, c *composer.Composer, outputDir string) *Presets {
	return &Presets{
		logger:    logger,
		catalog:   catalog,
		composer:  c,
		outputDir: outputDir,
	}
}

// SleepVideo renders the standard 8-hour sleep composition.
func (p *Presets) SleepVideo(ctx context.Context, title, jobID string) composer.Result {
	return p.generate(ctx, "sleep", title, "Deep sleep sounds for relaxation", 8*60, composer.QualityMedium, composer.GradingCool, jobID)
}

// RainVideo renders a rain composition of the requested length.
func (p *Presets) RainVideo(ctx context.Context, title string, minutes int, jobID string) composer.Result {
	return p.generate(ctx, "rain", title, "Relaxing rain sounds", minutes, composer.QualityHigh, composer.GradingCool, jobID)
}

// AmbientVideo renders an ambient composition of the requested length.
func (p *Presets) AmbientVideo(ctx context.Context, title string, minutes int, jobID string) composer.Result {
	return p.generate(ctx, "ambient", title, "Calming ambient soundscape", minutes, composer.QualityHigh, composer.GradingWarm, jobID)
}

// Generate renders a composition for an arbitrary content-type label. This is
// the path the worker uses for queued jobs.
func (p *Presets) Generate(ctx context.Context, contentType, title string, minutes int, jobID string) composer.Result {
	grading := composer.GradingNatural
	switch asset.ClassifyContentType(contentType) {
	case asset.ContentRain, asset.ContentSleep:
		grading = composer.GradingCool
	case asset.ContentAmbient:
		grading = composer.GradingWarm
	}
	return p.generate(ctx, contentType, title, "", minutes, composer.QualityHigh, grading, jobID)
}

func (p *Presets) generate(ctx context.Context, contentType, title, subtitle string, minutes int, quality composer.QualityTier, grading composer.GradingPreset, jobID string) composer.Result {
	pair := p.catalog.RandomPair(contentType)
	if pair == nil {
		return composer.Result{
			Success: false,
			Error:   fmt.Sprintf("no matching assets found for content type: %s", contentType),
		}
	}

	quality = capQualityForDuration(quality, minutes)

	p.logger.Info("Preset selected asset pair",
		slog.String("content_type", contentType),
		slog.String("audio", pair.Audio.ID),
		slog.String("visual", pair.Visual.ID),
		slog.String("template", pair.TemplateName),
		slog.String("quality", string(quality)))

	return p.composer.Compose(ctx, composer.Options{
		Audio:      pair.Audio,
		Visual:     pair.Visual,
		Duration:   float64(minutes) * 60,
		OutputPath: p.outputPath(jobID),
		Quality:    quality,
		Title:      title,
		Subtitle:   subtitle,
		FadeIn:     true,
		FadeOut:    true,
		Grading:    grading,
		JobID:      jobID,
	})
}

// capQualityForDuration downgrades the tier for very long renders. Applied
// uniformly by every preset so an 8-hour high-quality render cannot slip
// through one wrapper.
func capQualityForDuration(quality composer.QualityTier, minutes int) composer.QualityTier {
	if minutes > downgradeThresholdMinutes && quality == composer.QualityHigh {
		return composer.QualityMedium
	}
	return quality
}

func (p *Presets) outputPath(jobID string) string {
	if jobID == "" {
		jobID = fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return filepath.Join(p.outputDir, time.Now().Format("2006-01"), fmt.Sprintf("video_%s.mp4", jobID))
}
