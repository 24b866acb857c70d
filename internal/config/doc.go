// Package config loads, normalizes, and validates reelcap configuration.
//
// Settings come from an optional TOML file (reelcap.toml in the working
// directory or ~/.config/reelcap/config.toml), fall back to repository
// defaults, and are finally overridden by command-line flags. Provider API
// keys are never read from the file; they come from flags or the
// OPENAI_API_KEY / GEMINI_API_KEY environment variables.
package config
