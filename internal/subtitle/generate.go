package subtitle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
)

// ErrUpstream marks a failure of the segment source while a document was
// being generated.
var ErrUpstream = errors.New("segment source failed")

// settings for one generation run
type Options struct {
	Granularity Granularity
	Layout      Layout
	LeadOffset  float64
	Style       *Style // overrides DefaultStyle(Layout) when set

	// OnCollapsed, when set, sees every emitted cue whose start is not
	// before its end.
	OnCollapsed func(Cue)
}

func DefaultOptions() Options {
	return Options{
		Granularity: GranularityPhrase,
		Layout:      LayoutStandard,
		LeadOffset:  DefaultLeadOffset,
	}
}

func (o Options) style() Style {
	if o.Style != nil {
		s := *o.Style
		s.Placement = ResolveStyle(o.Layout)
		return s
	}
	return DefaultStyle(o.Layout)
}

// counters describing one generation run
type Stats struct {
	Segments        int
	Cues            int
	SkippedSegments int
	CollapsedCues   int
	LastEnd         float64
}

// Generate consumes segments once, in order, and streams the resolved cues
// as an ASS document to w. Each call owns a fresh cursor.
func Generate(
	ctx context.Context,
	segments iter.Seq2[Segment, error],
	w io.Writer,
	opts Options,
) (Stats, error) {
	var stats Stats
	err := EachCue(ctx, segments, opts, &stats, NewAssembler(w, opts.style()))
	return stats, err
}

// receives resolved cues from EachCue
type CueSink interface {
	WriteCue(cue Cue) error
	Flush() error
}

// EachCue runs the split and resolve stages over segments and hands every
// resolved cue to sink. stats may be nil.
func EachCue(
	ctx context.Context,
	segments iter.Seq2[Segment, error],
	opts Options,
	stats *Stats,
	sink CueSink,
) error {
	if stats == nil {
		stats = &Stats{}
	}

	var cursor Cursor
	for seg, err := range segments {
		if err != nil {
			return fmt.Errorf("%w after %d segments: %w", ErrUpstream, stats.Segments, err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		stats.Segments++

		candidates := SplitSegment(seg, opts.Granularity, opts.LeadOffset)
		if len(candidates) == 0 {
			stats.SkippedSegments++
			continue
		}

		for _, candidate := range candidates {
			cue := cursor.Resolve(candidate)
			if Collapsed(cue) {
				stats.CollapsedCues++
				if opts.OnCollapsed != nil {
					opts.OnCollapsed(cue)
				}
			}
			if err := sink.WriteCue(cue); err != nil {
				return fmt.Errorf("failed to write cue %d: %w", stats.Cues+1, err)
			}
			stats.Cues++
		}
	}

	stats.LastEnd, _ = cursor.LastEnd()

	if err := sink.Flush(); err != nil {
		return fmt.Errorf("failed to flush document: %w", err)
	}
	return nil
}

// WriteDocument generates a document at path. Output goes to a temporary
// file in the same directory that is renamed into place only when the whole
// run succeeds, so a failed run never leaves a partial document at path.
func WriteDocument(
	ctx context.Context,
	path string,
	segments iter.Seq2[Segment, error],
	opts Options,
) (Stats, error) {
	if err := ensureDir(path); err != nil {
		return Stats{}, fmt.Errorf("failed to create document directory: %w", err)
	}

	doc, err := newPendingDocument(path)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to create document: %w", err)
	}
	defer func() {
		_ = doc.Cleanup()
	}()

	stats, err := Generate(ctx, segments, doc, opts)
	if err != nil {
		return stats, err
	}
	if err := doc.CloseAtomicallyReplace(); err != nil {
		return stats, fmt.Errorf("failed to finalize document: %w", err)
	}

	return stats, nil
}

// FromSlice adapts a slice to a single-pass segment sequence.
func FromSlice(segments []Segment) iter.Seq2[Segment, error] {
	return func(yield func(Segment, error) bool) {
		for _, seg := range segments {
			if !yield(seg, nil) {
				return
			}
		}
	}
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0755)
}
