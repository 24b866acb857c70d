// Package compose burns a finished subtitle document into a video.
package compose

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	ffmpegbin "github.com/mgpai22/reelcap/internal/ffmpeg"
)

// Compositor renders a subtitle document onto a video and returns the path
// of the rendered file.
type Compositor interface {
	Render(ctx context.Context, documentPath, videoPath, outputPath string) (string, error)
}

// RenderError carries the compositor's diagnostic output unmodified.
type RenderError struct {
	Diagnostics string
	Err         error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("ffmpeg failed: %v", e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// FFmpegCompositor burns ASS documents with the ffmpeg "ass" filter,
// re-encoding video to yuv420p and copying audio.
type FFmpegCompositor struct {
	// FFmpegPath overrides binary discovery when set.
	FFmpegPath string
}

func NewFFmpegCompositor() *FFmpegCompositor {
	return &FFmpegCompositor{}
}

// Render makes a single ffmpeg attempt; a non-zero exit returns *RenderError.
func (c *FFmpegCompositor) Render(
	ctx context.Context,
	documentPath, videoPath, outputPath string,
) (string, error) {
	if _, err := os.Stat(videoPath); os.IsNotExist(err) {
		return "", fmt.Errorf("video file not found: %s", videoPath)
	}
	if _, err := os.Stat(documentPath); os.IsNotExist(err) {
		return "", fmt.Errorf("subtitle document not found: %s", documentPath)
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	bin := c.FFmpegPath
	if bin == "" {
		found, err := ffmpegbin.FFmpegPath()
		if err != nil {
			return "", err
		}
		bin = found
	}

	// ffmpeg-go's Run and Compile take no context, so only its args are used
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, BurnArgs(documentPath, videoPath, outputPath)...)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", &RenderError{Diagnostics: stderr.String(), Err: err}
	}

	return outputPath, nil
}

// BurnArgs returns the ffmpeg arguments that burn documentPath into videoPath.
func BurnArgs(documentPath, videoPath, outputPath string) []string {
	kwargs := ffmpeg.KwArgs{
		"vf":  fmt.Sprintf("ass='%s',format=yuv420p", escapeFilterPath(documentPath)),
		"c:a": "copy",
	}

	return ffmpeg.Input(filepath.ToSlash(videoPath)).
		Output(filepath.ToSlash(outputPath), kwargs).
		OverWriteOutput().
		GetArgs()
}

// filter arguments treat ':' and quotes specially; backslashes become slashes
func escapeFilterPath(path string) string {
	path = strings.ReplaceAll(path, "\\", "/")
	path = strings.ReplaceAll(path, "'", "'\\''")
	return strings.ReplaceAll(path, ":", "\\:")
}
