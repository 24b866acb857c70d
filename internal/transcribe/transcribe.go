// Package transcribe adapts speech recognition providers to lazily consumed
// segment sequences.
package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"os"

	"github.com/mgpai22/reelcap/internal/subtitle"
)

// Recognizer turns a media file into an ordered, single-pass sequence of
// recognised segments. A non-nil error ends the sequence.
type Recognizer interface {
	Recognize(ctx context.Context, mediaPath string) iter.Seq2[subtitle.Segment, error]
}

// transcription service provider
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
)

// transcription options
type Options struct {
	Language string // Source language of audio
	Model    string
	Prompt   string
}

// creates a recognizer for provider
func Factory(
	ctx context.Context,
	provider Provider,
	apiKey string,
	opts Options,
) (Recognizer, error) {
	switch provider {
	case ProviderOpenAI:
		return NewOpenAIRecognizer(apiKey, opts)
	case ProviderGemini:
		return NewGeminiRecognizer(ctx, apiKey, opts)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

// StaticRecognizer replays a fixed list of segments for every media file.
type StaticRecognizer struct {
	Segments []subtitle.Segment
}

func FromSegments(segments []subtitle.Segment) *StaticRecognizer {
	return &StaticRecognizer{Segments: segments}
}

func (r *StaticRecognizer) Recognize(ctx context.Context, _ string) iter.Seq2[subtitle.Segment, error] {
	return func(yield func(subtitle.Segment, error) bool) {
		for _, seg := range r.Segments {
			if err := ctx.Err(); err != nil {
				yield(subtitle.Segment{}, err)
				return
			}
			if !yield(seg, nil) {
				return
			}
		}
	}
}

// SegmentsFromJSON reads a JSON array of {"start","end","text"} objects.
func SegmentsFromJSON(r io.Reader) ([]subtitle.Segment, error) {
	var segments []subtitle.Segment
	if err := json.NewDecoder(r).Decode(&segments); err != nil {
		return nil, fmt.Errorf("failed to parse segments: %w", err)
	}
	if err := checkSpans(segments); err != nil {
		return nil, err
	}
	return segments, nil
}

// checkSpans rejects segments that start before zero or end before they start.
func checkSpans(segments []subtitle.Segment) error {
	for i, seg := range segments {
		if seg.Start < 0 || seg.End < seg.Start {
			return fmt.Errorf("segment %d has invalid span %.3f-%.3f", i, seg.Start, seg.End)
		}
	}
	return nil
}

// SegmentsFromFile reads segments saved as JSON at path.
func SegmentsFromFile(path string) ([]subtitle.Segment, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open segments file: %w", err)
	}
	defer file.Close()

	return SegmentsFromJSON(file)
}

// yields segments produced by a single blocking provider call
func deferred(fetch func() ([]subtitle.Segment, error)) iter.Seq2[subtitle.Segment, error] {
	return func(yield func(subtitle.Segment, error) bool) {
		segments, err := fetch()
		if err != nil {
			yield(subtitle.Segment{}, err)
			return
		}
		for _, seg := range segments {
			if !yield(seg, nil) {
				return
			}
		}
	}
}
