package subtitle

// Cursor carries the end of the last emitted cue through one generation run.
// The zero value is ready to use and starts a fresh run.
type Cursor struct {
	lastEnd float64
	set     bool
}

// LastEnd returns the end of the last resolved cue, if any.
func (c *Cursor) LastEnd() (float64, bool) {
	return c.lastEnd, c.set
}

// Resolve clamps cue against time zero and the previous cue, then advances
// the cursor to its end. A cue pushed past its own end is returned as is;
// callers can detect it with Collapsed.
func (c *Cursor) Resolve(cue Cue) Cue {
	if cue.Start < 0 {
		cue.Start = 0
	}
	if c.set && cue.Start < c.lastEnd {
		cue.Start = c.lastEnd
	}

	c.lastEnd = cue.End
	c.set = true

	return cue
}

// Collapsed reports whether cue has zero or negative duration.
func Collapsed(cue Cue) bool {
	return cue.Start >= cue.End
}
