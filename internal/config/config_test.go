package config_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mgpai22/reelcap/internal/config"
	"github.com/mgpai22/reelcap/internal/subtitle"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reelcap.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefaultCaptionOptions(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Normalize(); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	opts, err := cfg.CaptionOptions()
	if err != nil {
		t.Fatalf("CaptionOptions: %v", err)
	}
	want := subtitle.DefaultOptions()
	if opts.Granularity != want.Granularity || opts.Layout != want.Layout || opts.LeadOffset != want.LeadOffset {
		t.Errorf("default options %+v, want %+v", opts, want)
	}
	if opts.Style != nil {
		t.Errorf("no style override expected, got %+v", opts.Style)
	}
	if !filepath.IsAbs(cfg.Output.Dir) {
		t.Errorf("output dir not absolute: %q", cfg.Output.Dir)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
[captions]
granularity = "word"
layout = "Reels"
lead_offset = -0.25

[transcribe]
provider = "gemini"
model = "gemini-2.5-flash"

[output]
keep_document = true
`)

	cfg, found, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !found {
		t.Error("expected config file to be reported as found")
	}

	opts, err := cfg.CaptionOptions()
	if err != nil {
		t.Fatalf("CaptionOptions: %v", err)
	}
	if opts.Granularity != subtitle.GranularityWord {
		t.Errorf("granularity = %v", opts.Granularity)
	}
	if opts.Layout != subtitle.LayoutCentered {
		t.Errorf("layout = %v", opts.Layout)
	}
	if opts.LeadOffset != -0.25 {
		t.Errorf("lead offset = %v", opts.LeadOffset)
	}
	if cfg.Transcribe.Provider != "gemini" || !cfg.Output.KeepDocument {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.Output.Concurrency != 2 {
		t.Errorf("concurrency default not applied: %d", cfg.Output.Concurrency)
	}
	if cfg.APIKeyEnv() != "GEMINI_API_KEY" {
		t.Errorf("APIKeyEnv = %q", cfg.APIKeyEnv())
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"layout", "[captions]\nlayout = \"diagonal\"\n", "captions.layout"},
		{"granularity", "[captions]\ngranularity = \"letter\"\n", "captions.granularity"},
		{"offset", "[captions]\nlead_offset = -9.0\n", "captions.lead_offset"},
		{"font size", "[captions]\nfont_size = -4\n", "captions.font_size"},
		{"provider", "[transcribe]\nprovider = \"whisper-local\"\n", "transcribe.provider"},
		{"syntax", "[captions\n", "parse config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := config.Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadMissingExplicitPath(t *testing.T) {
	_, _, err := config.Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestCaptionFontOverridesStyle(t *testing.T) {
	cfg, _, err := config.Load(writeConfig(t, `
[captions]
layout = "centered"
font = "Helvetica"
font_size = 64
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	opts, err := cfg.CaptionOptions()
	if err != nil {
		t.Fatalf("CaptionOptions: %v", err)
	}
	if opts.Style == nil {
		t.Fatal("expected a style override")
	}

	var buf strings.Builder
	if _, err := subtitle.Generate(context.Background(), subtitle.FromSlice(nil), &buf, opts); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(buf.String(), "Style: Default,Helvetica,64,") {
		t.Errorf("font not applied:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), ",5,0,0,0,1\n") {
		t.Errorf("centered placement lost:\n%s", buf.String())
	}
}
