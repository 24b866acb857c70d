package transcribe

import "testing"

func TestParseVerboseJSONResponse(t *testing.T) {
	tests := []struct {
		name             string
		rawJSON          string
		fallbackDuration float64
		wantCount        int
		wantErr          bool
	}{
		{
			name: "valid verbose_json with segments",
			rawJSON: `{
				"text": "Hello world. How are you today?",
				"segments": [
					{"start": 0.0, "end": 1.5, "text": "Hello world."},
					{"start": 1.5, "end": 3.0, "text": "How are you today?"}
				],
				"language": "en",
				"duration": 3.0
			}`,
			fallbackDuration: 5,
			wantCount:        2,
		},
		{
			name: "verbose_json with no segments but has text",
			rawJSON: `{
				"text": "This is a transcription without segments.",
				"segments": [],
				"duration": 2.5
			}`,
			fallbackDuration: 5,
			wantCount:        1,
		},
		{
			name: "verbose_json with null segments",
			rawJSON: `{
				"text": "Transcription text only.",
				"segments": null,
				"duration": 1.0
			}`,
			fallbackDuration: 5,
			wantCount:        1,
		},
		{
			name: "empty text segments filtered out",
			rawJSON: `{
				"text": "Hello world",
				"segments": [
					{"start": 0.0, "end": 0.5, "text": ""},
					{"start": 0.5, "end": 1.5, "text": "Hello world"},
					{"start": 1.5, "end": 2.0, "text": "   "}
				],
				"duration": 2.0
			}`,
			fallbackDuration: 5,
			wantCount:        1,
		},
		{
			name: "segment ending before it starts",
			rawJSON: `{
				"text": "Hello",
				"segments": [{"start": 3.0, "end": 1.0, "text": "Hello"}]
			}`,
			fallbackDuration: 5,
			wantErr:          true,
		},
		{
			name:             "empty response",
			rawJSON:          "",
			fallbackDuration: 5,
			wantErr:          true,
		},
		{
			name:             "invalid JSON",
			rawJSON:          `{"text": "incomplete`,
			fallbackDuration: 5,
			wantErr:          true,
		},
		{
			name:             "no segments and no text",
			rawJSON:          `{"text": "", "segments": [], "duration": 0}`,
			fallbackDuration: 5,
			wantErr:          true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segments, err := parseVerboseJSONResponse(tt.rawJSON, tt.fallbackDuration)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(segments) != tt.wantCount {
				t.Errorf("got %d segments, want %d", len(segments), tt.wantCount)
			}
			for i, seg := range segments {
				if seg.Text == "" {
					t.Errorf("segment %d has empty text", i)
				}
			}
		})
	}
}

func TestParseVerboseJSONResponseTimestamps(t *testing.T) {
	rawJSON := `{
		"text": "Hello world. Goodbye.",
		"segments": [
			{"start": 1.5, "end": 3.0, "text": " Hello world."},
			{"start": 3.0, "end": 5.5, "text": " Goodbye."}
		],
		"duration": 5.5
	}`

	segments, err := parseVerboseJSONResponse(rawJSON, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}
	if segments[0].Start != 1.5 || segments[0].End != 3.0 {
		t.Errorf("segment 0 span %v-%v", segments[0].Start, segments[0].End)
	}
	if segments[1].Text != "Goodbye." {
		t.Errorf("segment 1 text %q", segments[1].Text)
	}
}

func TestFallbackSingleSegment(t *testing.T) {
	segments, err := parseVerboseJSONResponse(`{"text": "No segments here.", "duration": 10.5}`, 15)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(segments) != 1 {
		t.Fatalf("expected 1 fallback segment, got %d", len(segments))
	}
	if segments[0].Start != 0 || segments[0].End != 10.5 {
		t.Errorf("fallback span %v-%v, want 0-10.5", segments[0].Start, segments[0].End)
	}

	segments, err = parseVerboseJSONResponse(`{"text": "No duration either."}`, 15)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if segments[0].End != 15 {
		t.Errorf("fallback end = %v, want probed duration 15", segments[0].End)
	}
}

func TestNewOpenAIRecognizerRequiresKey(t *testing.T) {
	if _, err := NewOpenAIRecognizer("", Options{}); err == nil {
		t.Error("expected error for missing API key")
	}

	r, err := NewOpenAIRecognizer("sk-test", Options{})
	if err != nil {
		t.Fatalf("NewOpenAIRecognizer: %v", err)
	}
	if r.model != "whisper-1" {
		t.Errorf("default model = %q", r.model)
	}
}
