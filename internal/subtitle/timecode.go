package subtitle

import (
	"fmt"
	"math"
)

// FormatTimecode renders seconds as an ASS H:MM:SS.CC timestamp.
// Centiseconds are truncated, so 59.999 renders as 0:00:59.99.
// Callers must pass a non-negative value.
func FormatTimecode(seconds float64) string {
	hours := int(math.Floor(seconds / 3600))
	minutes := int(math.Floor(math.Mod(seconds, 3600) / 60))
	secs := int(math.Floor(math.Mod(seconds, 60)))
	centis := int(math.Floor(math.Mod(seconds, 1) * 100))

	return fmt.Sprintf("%d:%02d:%02d.%02d", hours, minutes, secs, centis)
}
