package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/mgpai22/reelcap/internal/subtitle"
)

// Captions controls cue timing and placement.
type Captions struct {
	Granularity string  `toml:"granularity"`
	Layout      string  `toml:"layout"`
	LeadOffset  float64 `toml:"lead_offset"`
	Font        string  `toml:"font"`
	FontSize    int     `toml:"font_size"`
}

// Transcribe selects the speech recognition provider.
type Transcribe struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	Language string `toml:"language"`
	Prompt   string `toml:"prompt"`
}

// Output controls where documents and rendered videos are written.
type Output struct {
	Dir          string `toml:"dir"`
	KeepDocument bool   `toml:"keep_document"`
	Concurrency  int    `toml:"concurrency"`
}

// Logging contains configuration for log output.
type Logging struct {
	Verbose bool   `toml:"verbose"`
	Format  string `toml:"format"`
}

// Config encapsulates all configuration values for reelcap.
type Config struct {
	Captions   Captions   `toml:"captions"`
	Transcribe Transcribe `toml:"transcribe"`
	Output     Output     `toml:"output"`
	Logging    Logging    `toml:"logging"`
}

// Load reads the config file at path, or the first default location that
// exists when path is empty. A missing file yields defaults. The returned
// bool reports whether a file was read.
func Load(path string) (*Config, bool, error) {
	cfg := Default()

	resolved, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, false, err
	}

	if exists {
		data, err := os.ReadFile(resolved)
		if err != nil {
			return nil, false, fmt.Errorf("open config: %w", err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, false, fmt.Errorf("parse config %s: %w", resolved, err)
		}
	}

	if err := cfg.Normalize(); err != nil {
		return nil, false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, false, err
	}

	return &cfg, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "", false, fmt.Errorf("config file not found: %s", path)
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	candidates := []string{"reelcap.toml", "~/.config/reelcap/config.toml"}
	for _, candidate := range candidates {
		expanded, err := expandPath(candidate)
		if err != nil {
			continue
		}
		if info, err := os.Stat(expanded); err == nil && !info.IsDir() {
			return expanded, true, nil
		}
	}

	return "", false, nil
}

// Normalize lower-cases enum-like fields and expands the output directory.
func (c *Config) Normalize() error {
	c.Captions.Granularity = strings.ToLower(strings.TrimSpace(c.Captions.Granularity))
	c.Captions.Layout = strings.ToLower(strings.TrimSpace(c.Captions.Layout))
	c.Transcribe.Provider = strings.ToLower(strings.TrimSpace(c.Transcribe.Provider))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))

	if c.Captions.Granularity == "" {
		c.Captions.Granularity = defaultGranularity
	}
	if c.Captions.Layout == "" {
		c.Captions.Layout = defaultLayout
	}
	if c.Transcribe.Provider == "" {
		c.Transcribe.Provider = defaultProvider
	}
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	if c.Output.Concurrency <= 0 {
		c.Output.Concurrency = defaultConcurrency
	}
	if strings.TrimSpace(c.Output.Dir) == "" {
		c.Output.Dir = defaultOutputDir
	}

	dir, err := expandPath(c.Output.Dir)
	if err != nil {
		return fmt.Errorf("output.dir: %w", err)
	}
	c.Output.Dir = dir
	return nil
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if _, err := c.CaptionOptions(); err != nil {
		return err
	}
	switch c.Transcribe.Provider {
	case "openai", "gemini":
	default:
		return fmt.Errorf("transcribe.provider: unsupported provider %q (use openai or gemini)", c.Transcribe.Provider)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: must be console or json, got %q", c.Logging.Format)
	}
	return nil
}

// CaptionOptions converts the captions section into generation options.
func (c *Config) CaptionOptions() (subtitle.Options, error) {
	granularity, err := subtitle.ParseGranularity(c.Captions.Granularity)
	if err != nil {
		return subtitle.Options{}, fmt.Errorf("captions.granularity: %w", err)
	}
	layout, err := subtitle.ParseLayout(c.Captions.Layout)
	if err != nil {
		return subtitle.Options{}, fmt.Errorf("captions.layout: %w", err)
	}
	if c.Captions.LeadOffset < -maxLeadOffset || c.Captions.LeadOffset > maxLeadOffset {
		return subtitle.Options{}, fmt.Errorf(
			"captions.lead_offset: must be within ±%.0f seconds, got %v",
			maxLeadOffset,
			c.Captions.LeadOffset,
		)
	}

	if c.Captions.FontSize < 0 {
		return subtitle.Options{}, fmt.Errorf("captions.font_size: must be positive, got %d", c.Captions.FontSize)
	}

	opts := subtitle.Options{
		Granularity: granularity,
		Layout:      layout,
		LeadOffset:  c.Captions.LeadOffset,
	}
	if font := strings.TrimSpace(c.Captions.Font); font != "" || c.Captions.FontSize > 0 {
		style := subtitle.DefaultStyle(layout)
		if font != "" {
			style.FontName = font
		}
		if c.Captions.FontSize > 0 {
			style.FontSize = c.Captions.FontSize
		}
		opts.Style = &style
	}
	return opts, nil
}

// APIKey returns the environment key for the configured provider.
func (c *Config) APIKey() string {
	switch c.Transcribe.Provider {
	case "gemini":
		return os.Getenv("GEMINI_API_KEY")
	default:
		return os.Getenv("OPENAI_API_KEY")
	}
}

// APIKeyEnv names the environment variable APIKey reads.
func (c *Config) APIKeyEnv() string {
	if c.Transcribe.Provider == "gemini" {
		return "GEMINI_API_KEY"
	}
	return "OPENAI_API_KEY"
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}
