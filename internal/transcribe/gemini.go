package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"os"
	"regexp"
	"sort"
	"strings"

	"google.golang.org/genai"

	"github.com/mgpai22/reelcap/internal/subtitle"
)

var jsonFenceRegex = regexp.MustCompile("```(?:json)?\\s*")

// GeminiRecognizer asks a Gemini model for a timestamped JSON transcript.
type GeminiRecognizer struct {
	client  *genai.Client
	model   string
	options Options
}

// segment from Gemini's JSON response
type transcriptSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

func NewGeminiRecognizer(ctx context.Context, apiKey string, opts Options) (*GeminiRecognizer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := opts.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}

	return &GeminiRecognizer{
		client:  client,
		model:   model,
		options: opts,
	}, nil
}

func (r *GeminiRecognizer) Recognize(ctx context.Context, mediaPath string) iter.Seq2[subtitle.Segment, error] {
	return deferred(func() ([]subtitle.Segment, error) {
		return r.transcribe(ctx, mediaPath)
	})
}

func (r *GeminiRecognizer) transcribe(ctx context.Context, audioPath string) ([]subtitle.Segment, error) {
	if _, err := os.Stat(audioPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("audio file not found: %s", audioPath)
	}

	uploadedFile, err := r.client.Files.UploadFromPath(ctx, audioPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to upload audio file: %w", err)
	}
	defer func() {
		_, _ = r.client.Files.Delete(context.WithoutCancel(ctx), uploadedFile.Name, nil)
	}()

	parts := []*genai.Part{
		genai.NewPartFromText(buildTranscriptionPrompt(r.options)),
		genai.NewPartFromURI(uploadedFile.URI, uploadedFile.MIMEType),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	result, err := r.client.Models.GenerateContent(ctx, r.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}

	segments, err := parseTranscriptionResponse(result)
	if err != nil {
		return nil, fmt.Errorf("failed to parse transcription: %w", err)
	}
	return segments, nil
}

// creates the prompt for transcription
func buildTranscriptionPrompt(opts Options) string {
	var sb strings.Builder

	sb.WriteString("Generate a detailed transcript of this audio. ")
	sb.WriteString("For each sentence or phrase, provide the start timestamp, end timestamp, and the exact text spoken. ")
	sb.WriteString("Format your response as a JSON array with objects containing 'start', 'end', and 'text' fields, ")
	sb.WriteString("where 'start' and 'end' are timestamps in seconds (as numbers). ")
	sb.WriteString("Segments must be in chronological order. ")

	if opts.Language != "" {
		sb.WriteString(fmt.Sprintf("The audio is in %s. ", opts.Language))
	}

	if opts.Prompt != "" {
		sb.WriteString(opts.Prompt)
		sb.WriteString(" ")
	}

	sb.WriteString("Return ONLY the JSON array, no other text or markdown formatting.")

	return sb.String()
}

// parses Gemini's response into segments
func parseTranscriptionResponse(result *genai.GenerateContentResponse) ([]subtitle.Segment, error) {
	if result == nil || len(result.Candidates) == 0 {
		return nil, fmt.Errorf("empty response from Gemini")
	}

	var sb strings.Builder
	for _, candidate := range result.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			sb.WriteString(part.Text)
		}
	}

	if sb.Len() == 0 {
		return nil, fmt.Errorf("no text in Gemini response")
	}

	found, err := extractTranscriptSegments(sb.String())
	if err != nil {
		return nil, err
	}

	segments := make([]subtitle.Segment, len(found))
	for i, ts := range found {
		segments[i] = subtitle.Segment{
			Start: ts.Start,
			End:   ts.End,
			Text:  strings.TrimSpace(ts.Text),
		}
	}
	if err := checkSpans(segments); err != nil {
		return nil, err
	}
	return segments, nil
}

// extractTranscriptSegments finds the first JSON value in text that holds a
// usable segment array, either directly or nested under any object key.
func extractTranscriptSegments(text string) ([]transcriptSegment, error) {
	text = cleanJSONResponse(text)

	for i := 0; i < len(text); i++ {
		if text[i] != '[' && text[i] != '{' {
			continue
		}

		var raw json.RawMessage
		if err := json.NewDecoder(strings.NewReader(text[i:])).Decode(&raw); err != nil {
			continue
		}
		if segments, ok := findSegments(raw); ok {
			return segments, nil
		}
	}

	return nil, fmt.Errorf("no transcript segments found in response: %s", truncateString(text, 200))
}

func findSegments(raw json.RawMessage) ([]transcriptSegment, bool) {
	var segments []transcriptSegment
	if err := json.Unmarshal(raw, &segments); err == nil {
		return segments, validateSegments(segments)
	}

	var object map[string]json.RawMessage
	if err := json.Unmarshal(raw, &object); err != nil {
		return nil, false
	}

	keys := make([]string, 0, len(object))
	for k := range object {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if segments, ok := findSegments(object[k]); ok {
			return segments, true
		}
	}
	return nil, false
}

// at least one segment must carry a timestamp or text
func validateSegments(segments []transcriptSegment) bool {
	for _, seg := range segments {
		if seg.Start != 0 || seg.End != 0 || seg.Text != "" {
			return true
		}
	}
	return false
}

// removes markdown formatting from the response
func cleanJSONResponse(s string) string {
	s = jsonFenceRegex.ReplaceAllString(strings.TrimSpace(s), "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// truncates a string to maxLen characters
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
