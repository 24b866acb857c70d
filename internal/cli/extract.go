package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mgpai22/reelcap/internal/audio"
)

var extractCmd = &cobra.Command{
	Use:   "extract [video_file]",
	Short: "Extract the audio that would be sent for transcription",
	Long: `Extract the audio track from a video file and save it as a separate audio file.

The defaults match what burn sends to the transcription provider: mono,
16 kHz mp3. Supported output formats: wav, mp3, aac, flac.

Examples:
  reelcap extract clip.mp4
  reelcap extract clip.mp4 -o audio.wav -f wav
  reelcap extract clip.mp4 --format flac --sample-rate 44100 --channels 2`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
	addExtractFlags(extractCmd)
}

func addExtractFlags(cmd *cobra.Command) {
	defaults := audio.DefaultCompressionOptions()
	cmd.Flags().
		StringP("format", "f", defaults.Format, "Output audio format (wav, mp3, aac, flac)")
	cmd.Flags().
		IntP("sample-rate", "r", defaults.SampleRate, "Sample rate in Hz (e.g., 16000, 44100, 48000)")
	cmd.Flags().
		Int("channels", defaults.Channels, "Number of audio channels (1=mono, 2=stereo)")
	cmd.Flags().
		StringP("bitrate", "b", defaults.Bitrate, "Bitrate for lossy formats (e.g., 64k, 128k)")
}

var validExtractFormats = map[string]bool{
	"wav":  true,
	"mp3":  true,
	"aac":  true,
	"flac": true,
}

func runExtract(cmd *cobra.Command, args []string) error {
	videoPath := args[0]
	if err := requireFile(videoPath); err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	sampleRate, _ := cmd.Flags().GetInt("sample-rate")
	channels, _ := cmd.Flags().GetInt("channels")
	bitrate, _ := cmd.Flags().GetString("bitrate")
	outputPath, _ := cmd.Flags().GetString("output")

	format = strings.ToLower(format)
	if !validExtractFormats[format] {
		return fmt.Errorf(
			"invalid format %q: supported formats are wav, mp3, aac, flac",
			format,
		)
	}
	if outputPath == "" {
		outputPath = strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + "." + format
	}

	logger.Infow("Extracting audio",
		"video", videoPath,
		"output", outputPath,
		"format", format,
		"sample_rate", sampleRate,
		"channels", channels,
	)

	ctx := cmd.Context()
	opts := audio.CompressionOptions{
		Format:     format,
		SampleRate: sampleRate,
		Channels:   channels,
		Bitrate:    bitrate,
	}
	if err := audio.CompressAudio(ctx, videoPath, outputPath, opts); err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	if duration, err := audio.GetDuration(ctx, outputPath); err == nil {
		logger.Debugw("Extracted audio duration", "duration", duration.String())
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Fprintf(cmd.OutOrStdout(), "Audio extracted successfully: %s\n", absOutput)

	return nil
}
