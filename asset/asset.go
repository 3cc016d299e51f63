package asset

// AudioType classifies the semantic family of an audio asset.
type AudioType string

const (
	AudioRain       AudioType = "rain"
	AudioAmbient    AudioType = "ambient"
	AudioSleep      AudioType = "sleep"
	AudioWhiteNoise AudioType = "white_noise"
	AudioVoice      AudioType = "voice"
)

// VisualType classifies the semantic family of a visual asset.
type VisualType string

const (
	VisualRain     VisualType = "rain"
	VisualNature   VisualType = "nature"
	VisualAbstract VisualType = "abstract"
	VisualTemplate VisualType = "template"
)

// AudioAsset is a short loopable audio source registered in the catalog.
// Catalog entries are immutable after process start.
type AudioAsset struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Path     string    `json:"path"`
	Type     AudioType `json:"type"`
	Duration float64   `json:"duration,omitempty"`
	Loopable bool      `json:"loopable"`
}

// VisualAsset is a short loopable video source registered in the catalog.
type VisualAsset struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Path       string     `json:"path"`
	Type       VisualType `json:"type"`
	Loopable   bool       `json:"loopable"`
	Resolution string     `json:"resolution"`
}

// Pair is a compatible (audio, visual) combination selected for one
// composition job. It lives only for the duration of that job.
type Pair struct {
	Audio        *AudioAsset
	Visual       *VisualAsset
	TemplateName string
}

// Catalog holds the static asset registries. The default catalog mirrors the
// public/assets directory layout; tests may construct smaller catalogs.
type Catalog struct {
	Audio   []AudioAsset
	Visuals []VisualAsset
}

// AudioAsset performs an exact-key lookup. Absence is an expected condition,
// reported through the second return value rather than an error.
func (c *Catalog) AudioAsset(id string) (*AudioAsset, bool) {
	for i := range c.Audio {
		if c.Audio[i].ID == id {
			return &c.Audio[i], true
		}
	}
	return nil, false
}

// VisualAsset performs an exact-key lookup over the visual registry.
func (c *Catalog) VisualAsset(id string) (*VisualAsset, bool) {
	for i := range c.Visuals {
		if c.Visuals[i].ID == id {
			return &c.Visuals[i], true
		}
	}
	return nil, false
}
