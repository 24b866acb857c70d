package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mgpai22/reelcap/internal/audio"
	"github.com/mgpai22/reelcap/internal/subtitle"
	"github.com/mgpai22/reelcap/internal/transcribe"
)

var cuesCmd = &cobra.Command{
	Use:   "cues [media_file|segments.json|document.ass]",
	Short: "Preview resolved caption cues without rendering",
	Long: `Print the cues a burn would produce as a table.

The input may be an audio or video file (transcribed with the configured
provider), a JSON array of {"start","end","text"} segments, or an existing
.ass document, which is printed as written.

With --output the caption document is also written to that path.

Examples:
  reelcap cues clip.mp4 --granularity word
  reelcap cues segments.json --lead-offset 0
  reelcap cues segments.json -o captions.ass --layout centered
  reelcap cues final.ass`,
	Args: cobra.ExactArgs(1),
	RunE: runCues,
}

func init() {
	rootCmd.AddCommand(cuesCmd)

	addCaptionFlags(cuesCmd)
	addTranscribeFlags(cuesCmd)
}

func runCues(cmd *cobra.Command, args []string) error {
	input := args[0]
	if err := requireFile(input); err != nil {
		return err
	}
	// --output names a document here, not a directory
	documentPath, _ := cmd.Flags().GetString("output")

	out := cmd.OutOrStdout()
	ext := strings.ToLower(filepath.Ext(input))

	if ext == ".ass" || ext == ".ssa" {
		doc, err := subtitle.OpenDocument(input)
		if err != nil {
			return err
		}
		t := &cueTable{cues: doc.Cues()}
		fmt.Fprintln(out, t.Render())
		return nil
	}

	if err := applyFlags(cmd, cfg); err != nil {
		return err
	}
	opts, err := cfg.CaptionOptions()
	if err != nil {
		return err
	}

	segments, err := loadSegments(cmd, input)
	if err != nil {
		return err
	}

	var stats subtitle.Stats
	t := &cueTable{}
	if err := subtitle.EachCue(cmd.Context(), subtitle.FromSlice(segments), opts, &stats, t); err != nil {
		return err
	}
	fmt.Fprintln(out, t.Render())
	fmt.Fprintf(out, "Segments: %d  Cues: %d  Skipped: %d  Collapsed: %d  Last end: %s\n",
		stats.Segments, stats.Cues, stats.SkippedSegments, stats.CollapsedCues,
		subtitle.FormatTimecode(stats.LastEnd))

	if documentPath != "" {
		if _, err := subtitle.WriteDocument(cmd.Context(), documentPath, subtitle.FromSlice(segments), opts); err != nil {
			return err
		}
		absPath, _ := filepath.Abs(documentPath)
		fmt.Fprintf(out, "Document written: %s\n", absPath)
	}

	return nil
}

// loadSegments reads segments from a JSON file or transcribes media.
func loadSegments(cmd *cobra.Command, input string) ([]subtitle.Segment, error) {
	if strings.EqualFold(filepath.Ext(input), ".json") {
		return transcribe.SegmentsFromFile(input)
	}
	if !audio.IsMediaFile(input) {
		return nil, fmt.Errorf("unsupported file type: %s (expected media, .json or .ass)", filepath.Ext(input))
	}

	recognizer, err := newRecognizer(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create recognizer: %w", err)
	}

	ctx := cmd.Context()
	audioPath, cleanup, err := prepareAudio(ctx, input)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	logger.Infow("Transcribing audio", "input", input, "provider", cfg.Transcribe.Provider)

	var segments []subtitle.Segment
	for seg, err := range recognizer.Recognize(ctx, audioPath) {
		if err != nil {
			return nil, fmt.Errorf("transcription failed: %w", err)
		}
		segments = append(segments, seg)
	}
	return segments, nil
}

func prepareAudio(ctx context.Context, input string) (string, func(), error) {
	tempDir, err := os.MkdirTemp("", "reelcap-*")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	cleanup := func() { _ = os.RemoveAll(tempDir) }

	audioPath := filepath.Join(tempDir, "audio.mp3")
	if err := audio.CompressAudio(ctx, input, audioPath, audio.DefaultCompressionOptions()); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to prepare audio: %w", err)
	}
	return audioPath, cleanup, nil
}
