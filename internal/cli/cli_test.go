package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/mgpai22/reelcap/internal/config"
	"github.com/mgpai22/reelcap/internal/subtitle"
)

func newFlagCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	addCaptionFlags(cmd)
	addTranscribeFlags(cmd)
	cmd.Flags().Bool("keep-document", false, "")
	cmd.Flags().Int("concurrency", 2, "")
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	return cmd
}

func TestApplyFlagsOverridesConfig(t *testing.T) {
	c := config.Default()
	c.Captions.Layout = "centered"
	c.Transcribe.Provider = "gemini"

	cmd := newFlagCommand(t,
		"--granularity", "word",
		"--lead-offset", "0",
		"--provider", "openai",
		"--keep-document",
		"--concurrency", "4",
	)
	if err := applyFlags(cmd, &c); err != nil {
		t.Fatalf("applyFlags: %v", err)
	}

	opts, err := c.CaptionOptions()
	if err != nil {
		t.Fatalf("CaptionOptions: %v", err)
	}
	if opts.Granularity != subtitle.GranularityWord {
		t.Errorf("Granularity = %v, want word", opts.Granularity)
	}
	if opts.Layout != subtitle.LayoutCentered {
		t.Errorf("unset flag must keep config layout, got %v", opts.Layout)
	}
	if opts.LeadOffset != 0 {
		t.Errorf("LeadOffset = %v, want 0", opts.LeadOffset)
	}
	if c.Transcribe.Provider != "openai" {
		t.Errorf("Provider = %q", c.Transcribe.Provider)
	}
	if !c.Output.KeepDocument || c.Output.Concurrency != 4 {
		t.Errorf("output flags not applied: %+v", c.Output)
	}
}

func TestApplyFlagsRejectsUnknownLayout(t *testing.T) {
	c := config.Default()
	cmd := newFlagCommand(t, "--layout", "diagonal")
	if err := applyFlags(cmd, &c); err == nil {
		t.Error("expected error for unknown layout")
	}
}

func TestNewRecognizerRequiresKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	c := config.Default()
	cmd := newFlagCommand(t)
	_, err := newRecognizer(cmd, &c)
	if err == nil || !strings.Contains(err.Error(), "OPENAI_API_KEY") {
		t.Errorf("expected missing key error naming OPENAI_API_KEY, got %v", err)
	}
}

func TestCueTableRender(t *testing.T) {
	tbl := &cueTable{}
	_ = tbl.WriteCue(subtitle.Cue{Start: 0, End: 1.5, Text: "hello"})
	_ = tbl.WriteCue(subtitle.Cue{Start: 3, End: 2, Text: strings.Repeat("x", 100)})

	out := tbl.Render()
	for _, want := range []string{"0:00:01.50", "hello", "1.50s", "-1.00s !", "..."} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		limit int
		want  string
	}{
		{"short", 10, "short"},
		{"  padded  ", 10, "padded"},
		{"abcdefghijkl", 8, "abcde..."},
		{"héllo wörld", 8, "héllo..."},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.limit); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.limit, got, tt.want)
		}
	}
}

func TestCuesCommandFromSegmentsFile(t *testing.T) {
	dir := t.TempDir()
	segPath := filepath.Join(dir, "segments.json")
	cfgPath := filepath.Join(dir, "reelcap.toml")
	docPath := filepath.Join(dir, "captions.ass")

	if err := os.WriteFile(segPath, []byte(`[
		{"start": 0.0, "end": 1.0, "text": "hi"},
		{"start": 0.95, "end": 2.0, "text": "there"}
	]`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cfgPath, []byte("[captions]\nlead_offset = 0.0\nlayout = \"centered\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"cues", segPath, "--config", cfgPath, "-o", docPath})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("cues: %v", err)
	}

	text := out.String()
	if !strings.Contains(text, "Segments: 2  Cues: 2  Skipped: 0  Collapsed: 0  Last end: 0:00:02.00") {
		t.Errorf("unexpected summary:\n%s", text)
	}
	if !strings.Contains(text, "Document written") {
		t.Errorf("expected document path in output:\n%s", text)
	}

	doc, err := subtitle.OpenDocument(docPath)
	if err != nil {
		t.Fatalf("OpenDocument: %v", err)
	}
	if len(doc.Dialogues) != 2 {
		t.Fatalf("expected 2 dialogues, got %d", len(doc.Dialogues))
	}
	if doc.Dialogues[1].Start != 1.0 {
		t.Errorf("overlap should be pushed to 1.0, got %v", doc.Dialogues[1].Start)
	}
	if doc.Styles[0].Alignment != 5 || doc.Styles[0].MarginV != 0 {
		t.Errorf("centered layout expected, got %+v", doc.Styles[0])
	}
}
