// Package paginator orders the video collection by recency and exposes a
// growable visible window over it.
package paginator

import (
	"slices"

	"github.com/gauthierbraillon/stategallery/internal/catalog"
)

const (
	DefaultInitialSize = 6
	DefaultStep        = 6
)

// Option configures the Paginator.
type Option func(*Paginator)

// WithInitialSize sets the number of records visible before any load-more.
func WithInitialSize(n int) Option {
	return func(p *Paginator) {
		if n > 0 {
			p.initial = n
		}
	}
}

// WithStep sets how many records each load-more reveals.
func WithStep(n int) Option {
	return func(p *Paginator) {
		if n > 0 {
			p.step = n
		}
	}
}

// Paginator is a stable, growable prefix of the recency-sorted collection.
// It is not safe for concurrent use.
type Paginator struct {
	ordered []catalog.Video
	initial int
	step    int
	visible int
	prev    int
}

// New sorts videos by recency and opens the initial window.
func New(videos []catalog.Video, opts ...Option) *Paginator {
	p := &Paginator{
		ordered: SortByRecency(videos),
		initial: DefaultInitialSize,
		step:    DefaultStep,
	}

	for _, opt := range opts {
		opt(p)
	}

	p.visible = min(p.initial, len(p.ordered))
	return p
}

// SortByRecency returns a copy of videos with dated records first, newest
// first, followed by undated records in their input order.
func SortByRecency(videos []catalog.Video) []catalog.Video {
	sorted := slices.Clone(videos)
	slices.SortStableFunc(sorted, func(a, b catalog.Video) int {
		switch {
		case a.HasDate() && b.HasDate():
			return b.Published.Compare(a.Published)
		case a.HasDate():
			return -1
		case b.HasDate():
			return 1
		default:
			return 0
		}
	})
	return sorted
}

// Visible returns the records currently in the window.
func (p *Paginator) Visible() []catalog.Video {
	out := make([]catalog.Video, p.visible)
	copy(out, p.ordered)
	return out
}

// LoadMore grows the window by one step, capped at the collection size.
// Calls at the cap are no-ops.
func (p *Paginator) LoadMore() {
	p.prev = p.visible
	p.visible = min(p.visible+p.step, len(p.ordered))
}

// Added returns the records revealed by the most recent LoadMore, or the
// initial window when LoadMore has not been called yet.
func (p *Paginator) Added() []catalog.Video {
	out := make([]catalog.Video, p.visible-p.prev)
	copy(out, p.ordered[p.prev:p.visible])
	return out
}

// HasMore reports whether records remain outside the window.
func (p *Paginator) HasMore() bool {
	return p.visible < len(p.ordered)
}

// VisibleCount returns the window size.
func (p *Paginator) VisibleCount() int {
	return p.visible
}

// Total returns the collection size.
func (p *Paginator) Total() int {
	return len(p.ordered)
}

// OrderedIDs returns every record ID in display order.
func (p *Paginator) OrderedIDs() []string {
	ids := make([]string, len(p.ordered))
	for i, v := range p.ordered {
		ids[i] = v.ID
	}
	return ids
}
