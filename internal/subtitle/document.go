package subtitle

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const (
	DefaultStyleName = "Default"

	playResX = 1920
	playResY = 1080
)

// font and colour palette of the single style record
type Style struct {
	Name           string
	FontName       string
	FontSize       int
	PrimaryColor   string
	SecondaryColor string
	OutlineColor   string
	BackColor      string
	Bold           bool
	Italic         bool
	BorderStyle    int
	Outline        int
	Shadow         int
	Placement      Placement
}

// returns the white-on-outline Arial 48 style for the given layout
func DefaultStyle(layout Layout) Style {
	return Style{
		Name:           DefaultStyleName,
		FontName:       "Arial",
		FontSize:       48,
		PrimaryColor:   "&H00FFFFFF",
		SecondaryColor: "&H000000FF",
		OutlineColor:   "&H00000000",
		BackColor:      "&H64000000",
		BorderStyle:    1,
		Outline:        2,
		Shadow:         0,
		Placement:      ResolveStyle(layout),
	}
}

// Assembler streams an ASS document: header first, then one Dialogue line
// per cue in the order cues are written.
type Assembler struct {
	w           *bufio.Writer
	style       Style
	wroteHeader bool
}

func NewAssembler(w io.Writer, style Style) *Assembler {
	if style.Name == "" {
		style.Name = DefaultStyleName
	}
	return &Assembler{
		w:     bufio.NewWriter(w),
		style: style,
	}
}

// WriteHeader emits the script info, style and events format sections.
// It is called implicitly by the first WriteCue.
func (a *Assembler) WriteHeader() error {
	if a.wroteHeader {
		return nil
	}
	a.wroteHeader = true

	s := a.style
	var sb strings.Builder

	sb.WriteString("[Script Info]\n")
	sb.WriteString("ScriptType: v4.00+\n")
	sb.WriteString("Collisions: Normal\n")
	sb.WriteString(fmt.Sprintf("PlayResX: %d\n", playResX))
	sb.WriteString(fmt.Sprintf("PlayResY: %d\n\n", playResY))

	sb.WriteString("[V4+ Styles]\n")
	sb.WriteString("Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding\n")
	sb.WriteString(fmt.Sprintf("Style: %s,%s,%d,%s,%s,%s,%s,%d,%d,0,0,100,100,0,0,%d,%d,%d,%d,0,0,%d,1\n\n",
		s.Name, s.FontName, s.FontSize,
		s.PrimaryColor, s.SecondaryColor, s.OutlineColor, s.BackColor,
		assFlag(s.Bold), assFlag(s.Italic),
		s.BorderStyle, s.Outline, s.Shadow,
		s.Placement.Alignment, s.Placement.MarginV))

	sb.WriteString("[Events]\n")
	sb.WriteString("Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")

	_, err := a.w.WriteString(sb.String())
	return err
}

// WriteCue appends one Dialogue line for cue.
func (a *Assembler) WriteCue(cue Cue) error {
	if err := a.WriteHeader(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(a.w, "Dialogue: 0,%s,%s,%s,,0,0,0,,%s\n",
		FormatTimecode(cue.Start),
		FormatTimecode(cue.End),
		a.style.Name,
		escapeASSText(cue.Text))
	if err != nil {
		return err
	}
	return nil
}

// Flush writes the header if nothing has been written yet and flushes the
// buffered output.
func (a *Assembler) Flush() error {
	if err := a.WriteHeader(); err != nil {
		return err
	}
	return a.w.Flush()
}

func assFlag(on bool) int {
	if on {
		return -1
	}
	return 0
}

func escapeASSText(text string) string {
	return lineBreaks.Replace(text)
}
