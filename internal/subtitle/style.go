package subtitle

const (
	alignBottomCenter = 2
	alignMiddleCenter = 5

	standardMarginV = 100
)

// screen placement derived from a Layout
type Placement struct {
	Alignment int
	MarginV   int
}

// ResolveStyle maps a layout preset to its ASS alignment code and
// vertical margin.
func ResolveStyle(layout Layout) Placement {
	if layout == LayoutCentered {
		return Placement{Alignment: alignMiddleCenter, MarginV: 0}
	}
	return Placement{Alignment: alignBottomCenter, MarginV: standardMarginV}
}
