package asset

// DefaultCatalog returns the built-in asset registry. Paths are relative to
// the configured assets directory and follow the audio/<type> and
// visuals/<type> folder layout.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Audio: []AudioAsset{
			{
				ID:       "rain_gentle",
				Name:     "Gentle Rain",
				Path:     "audio/rain/gentle_rain.mp3",
				Type:     AudioRain,
				Duration: 600,
				Loopable: true,
			},
			{
				ID:       "rain_thunder",
				Name:     "Rain with Thunder",
				Path:     "audio/rain/rain_thunder.mp3",
				Type:     AudioRain,
				Duration: 600,
				Loopable: true,
			},
			{
				ID:       "rain_roof",
				Name:     "Rain on Roof",
				Path:     "audio/rain/rain_on_roof.mp3",
				Type:     AudioRain,
				Duration: 480,
				Loopable: true,
			},
			{
				ID:       "ambient_forest",
				Name:     "Forest Ambience",
				Path:     "audio/ambient/forest.mp3",
				Type:     AudioAmbient,
				Duration: 720,
				Loopable: true,
			},
			{
				ID:       "ambient_ocean",
				Name:     "Ocean Waves",
				Path:     "audio/ambient/ocean_waves.mp3",
				Type:     AudioAmbient,
				Duration: 540,
				Loopable: true,
			},
			{
				ID:       "sleep_deep",
				Name:     "Deep Sleep Tones",
				Path:     "audio/sleep/deep_sleep.mp3",
				Type:     AudioSleep,
				Duration: 900,
				Loopable: true,
			},
			{
				ID:       "sleep_delta",
				Name:     "Delta Waves",
				Path:     "audio/sleep/delta_waves.mp3",
				Type:     AudioSleep,
				Duration: 600,
				Loopable: true,
			},
			{
				ID:       "white_noise_soft",
				Name:     "Soft White Noise",
				Path:     "audio/sleep/white_noise.mp3",
				Type:     AudioWhiteNoise,
				Duration: 300,
				Loopable: true,
			},
		},
		Visuals: []VisualAsset{
			{
				ID:         "rain_window",
				Name:       "Rain on Window",
				Path:       "visuals/rain/rain_window.mp4",
				Type:       VisualRain,
				Loopable:   true,
				Resolution: "1080p",
			},
			{
				ID:         "rain_street",
				Name:       "Rainy Street",
				Path:       "visuals/rain/rainy_street.mp4",
				Type:       VisualRain,
				Loopable:   true,
				Resolution: "1080p",
			},
			{
				ID:         "nature_forest",
				Name:       "Misty Forest",
				Path:       "visuals/nature/misty_forest.mp4",
				Type:       VisualNature,
				Loopable:   true,
				Resolution: "1080p",
			},
			{
				ID:         "nature_waves",
				Name:       "Ocean Waves",
				Path:       "visuals/nature/ocean_waves.mp4",
				Type:       VisualNature,
				Loopable:   true,
				Resolution: "4k",
			},
			{
				ID:         "abstract_flow",
				Name:       "Abstract Flow",
				Path:       "visuals/abstract/abstract_flow.mp4",
				Type:       VisualAbstract,
				Loopable:   true,
				Resolution: "1080p",
			},
			{
				ID:         "abstract_stars",
				Name:       "Drifting Stars",
				Path:       "visuals/abstract/drifting_stars.mp4",
				Type:       VisualAbstract,
				Loopable:   true,
				Resolution: "720p",
			},
		},
	}
}
