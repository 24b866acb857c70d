package cli

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/mgpai22/reelcap/internal/subtitle"
)

const maxCueTextWidth = 60

// cueTable collects resolved cues for display.
type cueTable struct {
	cues []subtitle.Cue
}

func (t *cueTable) WriteCue(cue subtitle.Cue) error {
	t.cues = append(t.cues, cue)
	return nil
}

func (t *cueTable) Flush() error { return nil }

func (t *cueTable) Render() string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Start", "End", "Duration", "Text"})

	for i, cue := range t.cues {
		duration := fmt.Sprintf("%.2fs", cue.Duration())
		if subtitle.Collapsed(cue) {
			duration += " !"
		}
		tw.AppendRow(table.Row{
			i + 1,
			subtitle.FormatTimecode(cue.Start),
			subtitle.FormatTimecode(cue.End),
			duration,
			truncate(cue.Text, maxCueTextWidth),
		})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 5, WidthMax: maxCueTextWidth},
	})

	return tw.Render()
}

func truncate(s string, limit int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-3]) + "..."
}
