package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mgpai22/reelcap/internal/config"
	"github.com/mgpai22/reelcap/internal/subtitle"
	"github.com/mgpai22/reelcap/internal/transcribe"
)

func addCaptionFlags(cmd *cobra.Command) {
	cmd.Flags().
		StringP("granularity", "g", "", "Caption granularity: phrase or word (default from config: phrase)")
	cmd.Flags().
		String("layout", "", "Caption layout: standard or centered (default from config: standard)")
	cmd.Flags().
		Float64("lead-offset", subtitle.DefaultLeadOffset, "Seconds added to each cue's displayed start")
}

func addTranscribeFlags(cmd *cobra.Command) {
	cmd.Flags().
		StringP("provider", "p", "", "Transcription provider: openai or gemini")
	cmd.Flags().
		StringP("api-key", "k", "", "Provider API key (or set OPENAI_API_KEY / GEMINI_API_KEY)")
	cmd.Flags().
		String("model", "", "Model to use for transcription")
	cmd.Flags().
		StringP("language", "l", "", "Language of the audio (e.g., en, es, fr)")
}

// applyFlags copies explicitly set flags over the loaded config and
// re-validates the result.
func applyFlags(cmd *cobra.Command, c *config.Config) error {
	flags := cmd.Flags()
	setString := func(name string, dst *string) {
		if f := flags.Lookup(name); f != nil && f.Changed {
			*dst, _ = flags.GetString(name)
		}
	}

	setString("granularity", &c.Captions.Granularity)
	setString("layout", &c.Captions.Layout)
	setString("provider", &c.Transcribe.Provider)
	setString("model", &c.Transcribe.Model)
	setString("language", &c.Transcribe.Language)

	if f := flags.Lookup("lead-offset"); f != nil && f.Changed {
		c.Captions.LeadOffset, _ = flags.GetFloat64("lead-offset")
	}
	if f := flags.Lookup("keep-document"); f != nil && f.Changed {
		c.Output.KeepDocument, _ = flags.GetBool("keep-document")
	}
	if f := flags.Lookup("concurrency"); f != nil && f.Changed {
		c.Output.Concurrency, _ = flags.GetInt("concurrency")
	}

	if err := c.Normalize(); err != nil {
		return err
	}
	return c.Validate()
}

func newRecognizer(cmd *cobra.Command, c *config.Config) (transcribe.Recognizer, error) {
	apiKey, _ := cmd.Flags().GetString("api-key")
	if apiKey == "" {
		apiKey = c.APIKey()
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf(
			"%s API key is required: use --api-key flag or set %s environment variable",
			c.Transcribe.Provider,
			c.APIKeyEnv(),
		)
	}

	return transcribe.Factory(cmd.Context(), transcribe.Provider(c.Transcribe.Provider), apiKey, transcribe.Options{
		Language: c.Transcribe.Language,
		Model:    c.Transcribe.Model,
		Prompt:   c.Transcribe.Prompt,
	})
}

func requireFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", path)
	}
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}
