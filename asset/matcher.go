package asset

import (
	"math/rand"
	"strings"
)

// ContentType is the typed classification used inside the engine. Upstream
// callers send free-text labels; ClassifyContentType is the boundary shim
// that maps them onto this enum.
type ContentType string

const (
	ContentRain    ContentType = "rain"
	ContentSleep   ContentType = "sleep"
	ContentAmbient ContentType = "ambient"
	ContentGeneric ContentType = "generic"
)

// ClassifyContentType maps a free-text content-type label onto a ContentType.
// Rules are checked in order; unrecognized labels degrade to ContentGeneric
// rather than failing, so new upstream labels still produce a valid pair.
func ClassifyContentType(label string) ContentType {
	l := strings.ToLower(label)
	switch {
	case strings.Contains(l, "rain"):
		return ContentRain
	case strings.Contains(l, "sleep"), strings.Contains(l, "white_noise"):
		return ContentSleep
	case strings.Contains(l, "ambient"):
		return ContentAmbient
	default:
		return ContentGeneric
	}
}

// templateName derives the overlay template from the raw label. This is a
// second, independent classification from the audio/visual affinity rules.
func templateName(label string) string {
	l := strings.ToLower(label)
	switch {
	case strings.Contains(l, "facts"), strings.Contains(l, "educational"):
		return "facts_template"
	case strings.Contains(l, "ambient"):
		return "ambient_template"
	default:
		return "sleep_template"
	}
}

// RandomPair selects a compatible (audio, visual) pair for the given
// free-text content-type label. Selection among matches is uniform-random.
// Returns nil only when a filtered set is empty; unrecognized labels fall
// back to the full catalogs.
func (c *Catalog) RandomPair(contentType string) *Pair {
	var audio []AudioAsset
	var visuals []VisualAsset

	switch ClassifyContentType(contentType) {
	case ContentRain:
		audio = c.audioByType(AudioRain)
		visuals = c.visualsByType(VisualRain)
	case ContentSleep:
		audio = append(c.audioByType(AudioSleep), c.audioByType(AudioWhiteNoise)...)
		visuals = append(c.visualsByType(VisualAbstract), c.visualsByType(VisualNature)...)
	case ContentAmbient:
		audio = c.audioByType(AudioAmbient)
		visuals = c.visualsByType(VisualNature)
	default:
		audio = c.Audio
		visuals = c.Visuals
	}

	if len(audio) == 0 || len(visuals) == 0 {
		return nil
	}

	a := audio[rand.Intn(len(audio))]
	v := visuals[rand.Intn(len(visuals))]

	return &Pair{
		Audio:        &a,
		Visual:       &v,
		TemplateName: templateName(contentType),
	}
}

// PairByID is the deterministic variant for caller-specified assets.
// Returns nil if either id is unresolvable. With no label to classify,
// the template follows the chosen audio's type.
func (c *Catalog) PairByID(audioID, visualID string) *Pair {
	a, ok := c.AudioAsset(audioID)
	if !ok {
		return nil
	}
	v, ok := c.VisualAsset(visualID)
	if !ok {
		return nil
	}
	return &Pair{Audio: a, Visual: v, TemplateName: templateForAudio(a.Type)}
}

func templateForAudio(t AudioType) string {
	if t == AudioAmbient {
		return "ambient_template"
	}
	return "sleep_template"
}

func (c *Catalog) audioByType(t AudioType) []AudioAsset {
	var out []AudioAsset
	for _, a := range c.Audio {
		if a.Type == t {
			out = append(out, a)
		}
	}
	return out
}

func (c *Catalog) visualsByType(t VisualType) []VisualAsset {
	var out []VisualAsset
	for _, v := range c.Visuals {
		if v.Type == t {
			out = append(out, v)
		}
	}
	return out
}
