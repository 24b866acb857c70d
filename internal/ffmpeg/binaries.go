// Package ffmpeg locates the ffmpeg and ffprobe executables.
package ffmpeg

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
)

const (
	ffmpegEnv  = "REELCAP_FFMPEG_PATH"
	ffprobeEnv = "REELCAP_FFPROBE_PATH"
)

// ErrNotFound is returned when a binary is neither configured nor on PATH.
var ErrNotFound = errors.New("binary not found")

type BinaryPaths struct {
	FFmpeg  string
	FFprobe string
}

var (
	ensureOnce sync.Once
	ensureErr  error
	ensurePath BinaryPaths
)

// Ensure resolves both binaries once per process.
func Ensure() (BinaryPaths, error) {
	ensureOnce.Do(func() {
		ensurePath, ensureErr = resolve(os.Getenv, exec.LookPath)
	})
	return ensurePath, ensureErr
}

func FFmpegPath() (string, error) {
	paths, err := Ensure()
	if err != nil {
		return "", err
	}
	return paths.FFmpeg, nil
}

func FFprobePath() (string, error) {
	paths, err := Ensure()
	if err != nil {
		return "", err
	}
	return paths.FFprobe, nil
}

func resolve(getenv func(string) string, lookPath func(string) (string, error)) (BinaryPaths, error) {
	ffmpegPath, err := locate("ffmpeg", ffmpegEnv, getenv, lookPath)
	if err != nil {
		return BinaryPaths{}, err
	}
	ffprobePath, err := locate("ffprobe", ffprobeEnv, getenv, lookPath)
	if err != nil {
		return BinaryPaths{}, err
	}
	return BinaryPaths{FFmpeg: ffmpegPath, FFprobe: ffprobePath}, nil
}

func locate(
	name, env string,
	getenv func(string) string,
	lookPath func(string) (string, error),
) (string, error) {
	if configured := getenv(env); configured != "" {
		if !fileExists(configured) {
			return "", fmt.Errorf("%s points to missing file %s: %w", env, configured, ErrNotFound)
		}
		return configured, nil
	}

	found, err := lookPath(name)
	if err != nil {
		return "", fmt.Errorf("%s: %w (install it or set %s)", name, ErrNotFound, env)
	}
	return found, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir() && info.Size() > 0
}
