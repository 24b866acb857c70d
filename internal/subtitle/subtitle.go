package subtitle

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultLeadOffset shows every cue 100ms ahead of the recognised start.
const DefaultLeadOffset = -0.1

var (
	ErrUnknownGranularity = errors.New("unknown caption granularity")
	ErrUnknownLayout      = errors.New("unknown caption layout")
)

// represents one recognised speech segment, times in seconds
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// represents one displayed cue, times in seconds
type Cue struct {
	Start float64
	End   float64
	Text  string
}

// Duration reports End-Start; it is negative or zero for collapsed cues.
func (c Cue) Duration() float64 {
	return c.End - c.Start
}

// selects whether a segment becomes one cue or one cue per word
type Granularity int

const (
	GranularityPhrase Granularity = iota
	GranularityWord
)

func (g Granularity) String() string {
	switch g {
	case GranularityPhrase:
		return "phrase"
	case GranularityWord:
		return "word"
	default:
		return fmt.Sprintf("granularity(%d)", int(g))
	}
}

// ParseGranularity accepts "phrase" (or "sentence") and "word".
func ParseGranularity(s string) (Granularity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "phrase", "sentence":
		return GranularityPhrase, nil
	case "word":
		return GranularityWord, nil
	default:
		return 0, fmt.Errorf("%w: %q (use phrase or word)", ErrUnknownGranularity, s)
	}
}

// on-screen placement preset applied to every cue of a run
type Layout int

const (
	LayoutStandard Layout = iota
	LayoutCentered
)

func (l Layout) String() string {
	switch l {
	case LayoutStandard:
		return "standard"
	case LayoutCentered:
		return "centered"
	default:
		return fmt.Sprintf("layout(%d)", int(l))
	}
}

// ParseLayout accepts "standard" (or "normal") and "centered" (or "reels").
func ParseLayout(s string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standard", "normal":
		return LayoutStandard, nil
	case "centered", "centred", "reels":
		return LayoutCentered, nil
	default:
		return 0, fmt.Errorf("%w: %q (use standard or centered)", ErrUnknownLayout, s)
	}
}
