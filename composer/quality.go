package composer

// QualityTier names a fixed encoder settings tuple. Callers pick a tier, not
// raw encoder parameters, which keeps output size and CPU time predictable.
type QualityTier string

const (
	QualityHigh   QualityTier = "high"
	QualityMedium QualityTier = "medium"
	QualityLow    QualityTier = "low"
)

type qualitySettings struct {
	VideoBitrate string
	AudioBitrate string
	Width        int
	Height       int
	CRF          int
	Preset       string
}

var qualityTable = map[QualityTier]qualitySettings{
	QualityHigh: {
		VideoBitrate: "8000k",
		AudioBitrate: "320k",
		Width:        1920,
		Height:       1080,
		CRF:          18,
		Preset:       "slow",
	},
	QualityMedium: {
		VideoBitrate: "4000k",
		AudioBitrate: "192k",
		Width:        1920,
		Height:       1080,
		CRF:          23,
		Preset:       "medium",
	},
	QualityLow: {
		VideoBitrate: "2000k",
		AudioBitrate: "128k",
		Width:        1280,
		Height:       720,
		CRF:          28,
		Preset:       "fast",
	},
}

// resolveQuality maps a tier onto its settings tuple. Unknown tiers resolve
// to medium so a bad label never produces a malformed encoder invocation.
func resolveQuality(tier QualityTier) qualitySettings {
	if s, ok := qualityTable[tier]; ok {
		return s
	}
	return qualityTable[QualityMedium]
}

// GradingPreset names a color grading filter tuple.
type GradingPreset string

const (
	GradingWarm      GradingPreset = "warm"
	GradingCool      GradingPreset = "cool"
	GradingNatural   GradingPreset = "natural"
	GradingCinematic GradingPreset = "cinematic"
)

// gradingTable maps presets to ffmpeg eq filter expressions
// (saturation/brightness/contrast/gamma).
var gradingTable = map[GradingPreset]string{
	GradingWarm:      "eq=saturation=1.2:brightness=0.03:contrast=1.05:gamma=0.95",
	GradingCool:      "eq=saturation=0.9:brightness=-0.02:contrast=1.1:gamma=1.05",
	GradingNatural:   "eq=saturation=1.0:brightness=0.0:contrast=1.0:gamma=1.0",
	GradingCinematic: "eq=saturation=1.1:brightness=-0.05:contrast=1.2:gamma=0.9",
}
