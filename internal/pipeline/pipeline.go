// Package pipeline runs one burn-in: recognise speech in a video, write the
// caption document and composite it onto the video.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mgpai22/reelcap/internal/audio"
	"github.com/mgpai22/reelcap/internal/compose"
	"github.com/mgpai22/reelcap/internal/logging"
	"github.com/mgpai22/reelcap/internal/subtitle"
	"github.com/mgpai22/reelcap/internal/transcribe"
)

// OutputPrefix is prepended to the video's file name for the rendered copy.
const OutputPrefix = "final-"

// ErrTargetInUse is returned when another in-flight run of the same Runner
// writes the same output video or kept document.
var ErrTargetInUse = errors.New("output target already in use by another run")

// Request describes one video to caption.
type Request struct {
	VideoPath    string
	OutputDir    string
	KeepDocument bool
	Captions     subtitle.Options
}

// Result reports where a run wrote its output.
type Result struct {
	RunID        string
	OutputPath   string
	DocumentPath string // empty unless the document was kept
	Stats        subtitle.Stats
	Elapsed      time.Duration
}

// PrepareFunc converts the input media into the file handed to the
// recognizer.
type PrepareFunc func(ctx context.Context, inputPath, outputPath string) error

// Runner holds the capabilities a run depends on. Recognizer and Compositor
// are required.
type Runner struct {
	Recognizer transcribe.Recognizer
	Compositor compose.Compositor
	Logger     *logging.Logger

	// Prepare defaults to mono 16 kHz mp3 extraction with ffmpeg.
	Prepare PrepareFunc

	// absolute paths claimed by in-flight runs
	active sync.Map
}

// Targets returns the rendered video path and the kept document path for a
// video. An empty outputDir means the video's own directory.
func Targets(videoPath, outputDir string) (outputPath, documentPath string) {
	if outputDir == "" {
		outputDir = filepath.Dir(videoPath)
	}
	name := filepath.Base(videoPath)
	base := strings.TrimSuffix(name, filepath.Ext(name))
	return filepath.Join(outputDir, OutputPrefix+name), filepath.Join(outputDir, base+".ass")
}

// claim reserves paths for one run; release must be called when it ends.
func (r *Runner) claim(paths ...string) (release func(), err error) {
	var held []string
	release = func() {
		for _, p := range held {
			r.active.Delete(p)
		}
	}

	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = filepath.Clean(p)
		}
		if _, taken := r.active.LoadOrStore(abs, struct{}{}); taken {
			release()
			return nil, fmt.Errorf("%w: %s", ErrTargetInUse, p)
		}
		held = append(held, abs)
	}
	return release, nil
}

func (r *Runner) logger() *logging.Logger {
	if r.Logger == nil {
		return logging.Nop()
	}
	return r.Logger
}

func (r *Runner) prepare() PrepareFunc {
	if r.Prepare != nil {
		return r.Prepare
	}
	return func(ctx context.Context, in, out string) error {
		return audio.CompressAudio(ctx, in, out, audio.DefaultCompressionOptions())
	}
}

// Run captions one video. Every call gets a fresh cursor and its own work
// dir. A concurrent run that would write the same output video or kept
// document fails with ErrTargetInUse.
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	if r.Recognizer == nil {
		return nil, errors.New("pipeline: recognizer is required")
	}
	if r.Compositor == nil {
		return nil, errors.New("pipeline: compositor is required")
	}

	started := time.Now()
	runID := uuid.NewString()
	name := filepath.Base(req.VideoPath)
	log := r.logger().With("run_id", runID, "video", name)

	if _, err := os.Stat(req.VideoPath); err != nil {
		return nil, fmt.Errorf("video file not found: %s", req.VideoPath)
	}
	if !audio.IsVideoFile(req.VideoPath) {
		return nil, fmt.Errorf("unsupported file type: %s (expected a video file)", filepath.Ext(name))
	}

	outputPath, keptPath := Targets(req.VideoPath, req.OutputDir)
	targets := []string{outputPath}
	if req.KeepDocument {
		targets = append(targets, keptPath)
	}
	release, err := r.claim(targets...)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	workDir, err := os.MkdirTemp("", "reelcap-"+runID[:8]+"-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer func() {
		_ = os.RemoveAll(workDir)
	}()

	log.Infow("Extracting audio")
	audioPath := filepath.Join(workDir, "audio.mp3")
	if err := r.prepare()(ctx, req.VideoPath, audioPath); err != nil {
		return nil, fmt.Errorf("failed to extract audio: %w", err)
	}

	opts := req.Captions
	opts.OnCollapsed = func(c subtitle.Cue) {
		log.Debugw("Cue has no duration after overlap resolution",
			"start", subtitle.FormatTimecode(c.Start),
			"end", subtitle.FormatTimecode(c.End),
			"text", c.Text,
		)
	}

	// an unkept document lives and dies with the run's work dir
	docPath := filepath.Join(workDir, filepath.Base(keptPath))
	if req.KeepDocument {
		docPath = keptPath
	}

	log.Infow("Transcribing audio",
		"granularity", opts.Granularity.String(),
		"layout", opts.Layout.String(),
	)
	stats, err := subtitle.WriteDocument(ctx, docPath, r.Recognizer.Recognize(ctx, audioPath), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to generate captions: %w", err)
	}

	log.Infow("Caption document written",
		"document", docPath,
		"segments", stats.Segments,
		"cues", stats.Cues,
		"skipped_segments", stats.SkippedSegments,
		"last_end", subtitle.FormatTimecode(stats.LastEnd),
	)
	if stats.CollapsedCues > 0 {
		log.Debugw("Collapsed cues emitted", "count", stats.CollapsedCues)
	}

	log.Infow("Burning captions", "output", outputPath)

	rendered, err := r.Compositor.Render(ctx, docPath, req.VideoPath, outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", name, err)
	}

	res := &Result{
		RunID:      runID,
		OutputPath: rendered,
		Stats:      stats,
		Elapsed:    time.Since(started),
	}
	if req.KeepDocument {
		res.DocumentPath = docPath
	}

	log.Infow("Run complete", "output", rendered, "elapsed", res.Elapsed.Round(time.Millisecond).String())
	return res, nil
}
