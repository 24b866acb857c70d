package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mgpai22/reelcap/internal/audio"
	"github.com/mgpai22/reelcap/internal/compose"
	"github.com/mgpai22/reelcap/internal/config"
	"github.com/mgpai22/reelcap/internal/pipeline"
)

var burnCmd = &cobra.Command{
	Use:   "burn [video_file...]",
	Short: "Transcribe videos and burn captions into them",
	Long: `Transcribe each video, build a caption document and burn it into a copy of
the video named final-<name> in the output directory.

Each video is an independent run. Several videos are processed in parallel,
up to --concurrency at a time.

Examples:
  reelcap burn clip.mp4
  reelcap burn clip.mp4 --granularity word --layout centered
  reelcap burn a.mp4 b.mp4 c.mp4 -o captioned --concurrency 3
  reelcap burn clip.mp4 --provider gemini --keep-document`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBurn,
}

func init() {
	rootCmd.AddCommand(burnCmd)

	addBurnFlags(burnCmd)
}

func addBurnFlags(cmd *cobra.Command) {
	addCaptionFlags(cmd)
	addTranscribeFlags(cmd)
	cmd.Flags().
		Bool("keep-document", false, "Keep the generated .ass document next to the output")
	cmd.Flags().
		Int("concurrency", 2, "Number of videos processed in parallel")
}

func runBurn(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("output") {
		cfg.Output.Dir, _ = cmd.Flags().GetString("output")
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return err
	}
	for _, path := range args {
		if err := requireFile(path); err != nil {
			return err
		}
		if !audio.IsVideoFile(path) {
			return fmt.Errorf("unsupported file type: %s (expected a video file)", filepath.Ext(path))
		}
	}

	if err := checkTargets(args, cfg.Output.Dir, cfg.Output.KeepDocument); err != nil {
		return err
	}

	captions, err := cfg.CaptionOptions()
	if err != nil {
		return err
	}
	runner, err := newRunner(cmd, cfg)
	if err != nil {
		return err
	}

	logger.Infow("Starting caption burn",
		"videos", len(args),
		"provider", cfg.Transcribe.Provider,
		"granularity", captions.Granularity.String(),
		"layout", captions.Layout.String(),
		"output_dir", cfg.Output.Dir,
		"concurrency", cfg.Output.Concurrency,
	)

	results := make([]*pipeline.Result, len(args))

	g, gctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(cfg.Output.Concurrency)
	for i, videoPath := range args {
		g.Go(func() error {
			res, err := runner.Run(gctx, pipeline.Request{
				VideoPath:    videoPath,
				OutputDir:    cfg.Output.Dir,
				KeepDocument: cfg.Output.KeepDocument,
				Captions:     captions,
			})
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		var renderErr *compose.RenderError
		if errors.As(err, &renderErr) && renderErr.Diagnostics != "" {
			fmt.Fprint(cmd.ErrOrStderr(), renderErr.Diagnostics)
		}
		return err
	}

	out := cmd.OutOrStdout()
	for _, res := range results {
		absOutput, _ := filepath.Abs(res.OutputPath)
		fmt.Fprintf(out, "Captions burned successfully: %s\n", absOutput)
		fmt.Fprintf(out, "  Cues: %d\n", res.Stats.Cues)
		if res.DocumentPath != "" {
			fmt.Fprintf(out, "  Document: %s\n", res.DocumentPath)
		}
	}

	return nil
}

// newRunner builds the runner for a burn; tests replace it.
var newRunner = func(cmd *cobra.Command, c *config.Config) (*pipeline.Runner, error) {
	recognizer, err := newRecognizer(cmd, c)
	if err != nil {
		return nil, fmt.Errorf("failed to create recognizer: %w", err)
	}
	return &pipeline.Runner{
		Recognizer: recognizer,
		Compositor: compose.NewFFmpegCompositor(),
		Logger:     logger.Named("burn"),
	}, nil
}

// checkTargets rejects batches where two videos would write the same
// output video, or the same document when documents are kept.
func checkTargets(videos []string, outputDir string, keepDocument bool) error {
	seen := make(map[string]string, len(videos))
	claim := func(target, video string) error {
		key := target
		if abs, err := filepath.Abs(target); err == nil {
			key = abs
		}
		if prev, ok := seen[key]; ok {
			return fmt.Errorf("%s and %s would both write %s", prev, video, target)
		}
		seen[key] = video
		return nil
	}

	for _, video := range videos {
		output, document := pipeline.Targets(video, outputDir)
		if err := claim(output, video); err != nil {
			return err
		}
		if keepDocument {
			if err := claim(document, video); err != nil {
				return err
			}
		}
	}
	return nil
}
