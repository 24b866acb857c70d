package subtitle

import "strings"

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// SplitSegment expands seg into raw cue candidates. Phrase granularity gives
// a single cue; word granularity slices the segment evenly across its
// whitespace-separated tokens. The lead offset moves only the displayed start
// of each candidate, never the slice boundaries.
func SplitSegment(seg Segment, granularity Granularity, offset float64) []Cue {
	if granularity == GranularityWord {
		return splitWords(seg, offset)
	}

	return []Cue{{
		Start: seg.Start + offset,
		End:   seg.End,
		Text:  cleanText(seg.Text),
	}}
}

func splitWords(seg Segment, offset float64) []Cue {
	words := strings.Fields(seg.Text)
	if len(words) == 0 {
		return nil
	}

	perWord := (seg.End - seg.Start) / float64(len(words))
	cues := make([]Cue, len(words))
	for i, word := range words {
		nominal := seg.Start + float64(i)*perWord
		cues[i] = Cue{
			Start: nominal + offset,
			End:   nominal + perWord,
			Text:  word,
		}
	}

	return cues
}

func cleanText(text string) string {
	return strings.TrimSpace(lineBreaks.Replace(text))
}
