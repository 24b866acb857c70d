package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"os"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/mgpai22/reelcap/internal/audio"
	"github.com/mgpai22/reelcap/internal/subtitle"
)

// OpenAIRecognizer uses the OpenAI audio transcription API with segment
// timestamps.
type OpenAIRecognizer struct {
	client  openai.Client
	model   string
	options Options
}

// segment from OpenAI Whisper verbose_json response
type whisperSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// verbose_json response structure from Whisper
type whisperVerboseResponse struct {
	Text     string           `json:"text"`
	Segments []whisperSegment `json:"segments"`
	Language string           `json:"language"`
	Duration float64          `json:"duration"`
}

func NewOpenAIRecognizer(apiKey string, opts Options) (*OpenAIRecognizer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	model := opts.Model
	if model == "" {
		model = "whisper-1"
	}

	return &OpenAIRecognizer{
		client:  openai.NewClient(option.WithAPIKey(apiKey)),
		model:   model,
		options: opts,
	}, nil
}

func (r *OpenAIRecognizer) Recognize(ctx context.Context, mediaPath string) iter.Seq2[subtitle.Segment, error] {
	return deferred(func() ([]subtitle.Segment, error) {
		return r.transcribe(ctx, mediaPath)
	})
}

func (r *OpenAIRecognizer) transcribe(ctx context.Context, audioPath string) ([]subtitle.Segment, error) {
	file, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer file.Close()

	params := openai.AudioTranscriptionNewParams{
		File:                   file,
		Model:                  openai.AudioModel(r.model),
		ResponseFormat:         openai.AudioResponseFormatVerboseJSON,
		TimestampGranularities: []string{"segment"},
	}
	if r.options.Language != "" {
		params.Language = openai.String(r.options.Language)
	}
	if r.options.Prompt != "" {
		params.Prompt = openai.String(r.options.Prompt)
	}

	resp, err := r.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}

	var fallback float64
	if d, err := audio.GetDuration(ctx, audioPath); err == nil {
		fallback = d.Seconds()
	}

	segments, err := parseVerboseJSONResponse(resp.RawJSON(), fallback)
	if err != nil {
		text := strings.TrimSpace(resp.Text)
		if text == "" {
			return nil, err
		}
		segments = []subtitle.Segment{{Start: 0, End: fallback, Text: text}}
	}

	return segments, nil
}

func parseVerboseJSONResponse(rawJSON string, fallbackDuration float64) ([]subtitle.Segment, error) {
	if rawJSON == "" {
		return nil, fmt.Errorf("empty response")
	}

	var verboseResp whisperVerboseResponse
	if err := json.Unmarshal([]byte(rawJSON), &verboseResp); err != nil {
		return nil, fmt.Errorf("failed to parse verbose_json response: %w", err)
	}

	if len(verboseResp.Segments) == 0 {
		text := strings.TrimSpace(verboseResp.Text)
		if text == "" {
			return nil, fmt.Errorf("no segments or text in response")
		}
		end := fallbackDuration
		if verboseResp.Duration > 0 {
			end = verboseResp.Duration
		}
		return []subtitle.Segment{{Start: 0, End: end, Text: text}}, nil
	}

	segments := make([]subtitle.Segment, 0, len(verboseResp.Segments))
	for _, seg := range verboseResp.Segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		segments = append(segments, subtitle.Segment{
			Start: seg.Start,
			End:   seg.End,
			Text:  text,
		})
	}

	if err := checkSpans(segments); err != nil {
		return nil, err
	}
	return segments, nil
}
