package subtitle

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// parsed Style line
type StyleRecord struct {
	Name      string
	FontName  string
	FontSize  int
	Alignment int
	MarginV   int
}

// parsed Dialogue line
type Dialogue struct {
	Start float64
	End   float64
	Style string
	Text  string
}

// ASS document read back from disk
type Document struct {
	ScriptInfo map[string]string
	Styles     []StyleRecord
	Dialogues  []Dialogue
}

// Cues returns the document's dialogue lines as cues.
func (d *Document) Cues() []Cue {
	cues := make([]Cue, len(d.Dialogues))
	for i, dl := range d.Dialogues {
		cues[i] = Cue{Start: dl.Start, End: dl.End, Text: dl.Text}
	}
	return cues
}

func OpenDocument(path string) (*Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ASS file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	return ParseDocument(file)
}

// ParseDocument reads the script info, V4+ styles and events sections of an
// ASS document. Unknown sections are ignored.
func ParseDocument(r io.Reader) (*Document, error) {
	doc := &Document{ScriptInfo: make(map[string]string)}

	var (
		section      string
		styleColumns []string
		eventColumns []string
		lineNum      int
	)

	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := scanner.Text()
		lineNum++
		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, ";") {
			continue
		}

		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			section = strings.ToLower(strings.Trim(trimmed, "[]"))
			continue
		}

		key, value, ok := strings.Cut(trimmed, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)

		switch section {
		case "script info":
			doc.ScriptInfo[key] = value

		case "v4+ styles", "v4 styles":
			switch key {
			case "Format":
				styleColumns = splitColumns(value)
			case "Style":
				if styleColumns == nil {
					return nil, fmt.Errorf("line %d: Style before Format", lineNum)
				}
				doc.Styles = append(doc.Styles, parseStyle(styleColumns, value))
			}

		case "events":
			switch key {
			case "Format":
				eventColumns = splitColumns(value)
				if indexOf(eventColumns, "Text") != len(eventColumns)-1 {
					return nil, fmt.Errorf("ASS file must have Text as the last event column")
				}
			case "Dialogue":
				if eventColumns == nil {
					return nil, fmt.Errorf("ASS file missing Format line in [Events] section")
				}
				dl, err := parseDialogue(eventColumns, value)
				if err != nil {
					return nil, fmt.Errorf("failed to parse Dialogue at line %d: %w", lineNum, err)
				}
				doc.Dialogues = append(doc.Dialogues, dl)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading ASS file: %w", err)
	}

	return doc, nil
}

func parseStyle(columns []string, value string) StyleRecord {
	fields := splitASSFields(value, len(columns))
	get := func(name string) string {
		if i := indexOf(columns, name); i >= 0 && i < len(fields) {
			return strings.TrimSpace(fields[i])
		}
		return ""
	}
	atoi := func(name string) int {
		n, _ := strconv.Atoi(get(name))
		return n
	}

	return StyleRecord{
		Name:      get("Name"),
		FontName:  get("Fontname"),
		FontSize:  atoi("Fontsize"),
		Alignment: atoi("Alignment"),
		MarginV:   atoi("MarginV"),
	}
}

func parseDialogue(columns []string, value string) (Dialogue, error) {
	fields := splitASSFields(value, len(columns))
	if len(fields) < len(columns) {
		return Dialogue{}, fmt.Errorf("expected %d fields, got %d", len(columns), len(fields))
	}

	startIdx, endIdx := indexOf(columns, "Start"), indexOf(columns, "End")
	if startIdx < 0 || endIdx < 0 {
		return Dialogue{}, fmt.Errorf("event format missing Start or End column")
	}

	var dl Dialogue
	var err error
	if dl.Start, err = parseTimecode(fields[startIdx]); err != nil {
		return dl, err
	}
	if dl.End, err = parseTimecode(fields[endIdx]); err != nil {
		return dl, err
	}
	if i := indexOf(columns, "Style"); i >= 0 {
		dl.Style = fields[i]
	}
	dl.Text = fields[len(fields)-1]

	return dl, nil
}

func splitColumns(value string) []string {
	columns := strings.Split(value, ",")
	for i, col := range columns {
		columns[i] = strings.TrimSpace(col)
	}
	return columns
}

// splits into at most numFields parts; the last field keeps its commas
func splitASSFields(content string, numFields int) []string {
	if numFields <= 0 {
		return nil
	}
	return strings.SplitN(content, ",", numFields)
}

func indexOf(columns []string, name string) int {
	for i, col := range columns {
		if strings.EqualFold(col, name) {
			return i
		}
	}
	return -1
}

// parseTimecode reads H:MM:SS.CC back into seconds.
func parseTimecode(ts string) (float64, error) {
	parts := strings.Split(strings.TrimSpace(ts), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", ts)
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hours in %q: %w", ts, err)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minutes in %q: %w", ts, err)
	}

	secPart, centiPart, ok := strings.Cut(parts[2], ".")
	if !ok {
		return 0, fmt.Errorf("invalid seconds in %q", ts)
	}
	seconds, err := strconv.Atoi(secPart)
	if err != nil {
		return 0, fmt.Errorf("invalid seconds in %q: %w", ts, err)
	}
	centis, err := strconv.Atoi(centiPart)
	if err != nil {
		return 0, fmt.Errorf("invalid centiseconds in %q: %w", ts, err)
	}

	return float64(hours*3600+minutes*60+seconds) + float64(centis)/100, nil
}
