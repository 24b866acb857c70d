package config

import "github.com/mgpai22/reelcap/internal/subtitle"

const (
	defaultGranularity = "phrase"
	defaultLayout      = "standard"
	defaultProvider    = "openai"
	defaultOutputDir   = "outputs"
	defaultLogFormat   = "console"
	defaultConcurrency = 2

	maxLeadOffset = 5.0
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Captions: Captions{
			Granularity: defaultGranularity,
			Layout:      defaultLayout,
			LeadOffset:  subtitle.DefaultLeadOffset,
		},
		Transcribe: Transcribe{
			Provider: defaultProvider,
		},
		Output: Output{
			Dir:         defaultOutputDir,
			Concurrency: defaultConcurrency,
		},
		Logging: Logging{
			Format: defaultLogFormat,
		},
	}
}
