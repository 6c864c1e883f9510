// Package gallery composes the visible window and per-video thumbnail
// resolution into the state video gallery.
package gallery

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gauthierbraillon/stategallery/internal/catalog"
	"github.com/gauthierbraillon/stategallery/internal/paginator"
	"github.com/gauthierbraillon/stategallery/internal/thumbnail"
	"github.com/gauthierbraillon/stategallery/internal/youtube"
)

// ErrUnknownVideo is returned when selecting a video that is not visible.
var ErrUnknownVideo = errors.New("unknown video")

// Resolver is the thumbnail resolution the gallery drives.
type Resolver interface {
	Resolve(ctx context.Context, videoID string) thumbnail.State
	State(videoID string) thumbnail.State
	Wait(ctx context.Context, videoID string) (thumbnail.State, error)
	Release(videoID string)
}

// Card is a visible video with its current thumbnail state.
type Card struct {
	Video     catalog.Video
	Thumbnail thumbnail.State
	WatchURL  string
}

// Summary counts the collection and the visible window.
type Summary struct {
	Total      int
	Displaying int
	HasMore    bool
}

// Option configures the Gallery.
type Option func(*Gallery)

// WithPageSize sets the initial window size and load-more step.
func WithPageSize(initial, step int) Option {
	return func(g *Gallery) {
		g.pagerOpts = append(g.pagerOpts, paginator.WithInitialSize(initial), paginator.WithStep(step))
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(g *Gallery) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// Gallery is one mounted instance of the video gallery.
type Gallery struct {
	session   string
	resolver  Resolver
	logger    *zap.Logger
	pagerOpts []paginator.Option

	mu       sync.Mutex
	pager    *paginator.Paginator
	started  bool
	closed   bool
	selected string
}

// New builds a gallery over videos. Thumbnail resolution begins with Start.
func New(videos []catalog.Video, resolver Resolver, opts ...Option) *Gallery {
	g := &Gallery{
		session:  uuid.NewString(),
		resolver: resolver,
		logger:   zap.NewNop(),
	}

	for _, opt := range opts {
		opt(g)
	}

	g.pager = paginator.New(videos, g.pagerOpts...)
	g.logger = g.logger.With(zap.String("session", g.session))
	return g
}

// Session returns the identifier used in this gallery's log lines.
func (g *Gallery) Session() string {
	return g.session
}

// Start begins thumbnail resolution for the visible window. Cards revealed
// by later LoadMore calls are resolved as they appear. It is a no-op after
// Close.
func (g *Gallery) Start(ctx context.Context) {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	g.started = true
	visible := g.pager.Visible()
	total := g.pager.Total()
	g.mu.Unlock()

	g.logger.Debug("Gallery mounted", zap.Int("total", total), zap.Int("visible", len(visible)))
	g.resolve(ctx, visible)
}

// LoadMore grows the window and, once started, begins resolution for the
// revealed cards. It reports whether anything was revealed.
func (g *Gallery) LoadMore(ctx context.Context) bool {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return false
	}
	g.pager.LoadMore()
	added := g.pager.Added()
	count := g.pager.VisibleCount()
	started := g.started
	g.mu.Unlock()

	if len(added) == 0 {
		return false
	}

	g.logger.Debug("Loaded more videos", zap.Int("added", len(added)), zap.Int("visible", count))
	if started {
		g.resolve(ctx, added)
	}
	return true
}

func (g *Gallery) resolve(ctx context.Context, videos []catalog.Video) {
	for _, v := range videos {
		g.resolver.Resolve(ctx, v.ExternalVideoID)
	}
}

// Cards returns the visible window joined with thumbnail states.
func (g *Gallery) Cards() []Card {
	g.mu.Lock()
	visible := g.pager.Visible()
	g.mu.Unlock()

	cards := make([]Card, 0, len(visible))
	for _, v := range visible {
		cards = append(cards, Card{
			Video:     v,
			Thumbnail: g.resolver.State(v.ExternalVideoID),
			WatchURL:  youtube.WatchURL(v.ExternalVideoID),
		})
	}
	return cards
}

// Summary returns the collection and window counts.
func (g *Gallery) Summary() Summary {
	g.mu.Lock()
	defer g.mu.Unlock()

	return Summary{
		Total:      g.pager.Total(),
		Displaying: g.pager.VisibleCount(),
		HasMore:    g.pager.HasMore(),
	}
}

// Wait blocks until every visible thumbnail has settled.
func (g *Gallery) Wait(ctx context.Context) error {
	g.mu.Lock()
	visible := g.pager.Visible()
	g.mu.Unlock()

	eg, egCtx := errgroup.WithContext(ctx)
	for _, v := range visible {
		id := v.ExternalVideoID
		eg.Go(func() error {
			if _, err := g.resolver.Wait(egCtx, id); err != nil {
				return fmt.Errorf("waiting for thumbnail of %s: %w", id, err)
			}
			return nil
		})
	}
	return eg.Wait()
}

// Select opens the player overlay for a visible video and returns its embed
// URL.
func (g *Gallery) Select(id string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, v := range g.pager.Visible() {
		if v.ID == id {
			g.selected = v.ExternalVideoID
			g.logger.Debug("Video overlay opened", zap.String("video_id", v.ExternalVideoID))
			return youtube.EmbedURL(v.ExternalVideoID), nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownVideo, id)
}

// Selected returns the external ID playing in the overlay, if any.
func (g *Gallery) Selected() (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.selected, g.selected != ""
}

// Deselect closes the player overlay.
func (g *Gallery) Deselect() {
	g.mu.Lock()
	g.selected = ""
	g.mu.Unlock()
}

// Close unmounts the gallery, abandoning every visible resolution. Start and
// LoadMore do nothing afterwards.
func (g *Gallery) Close() {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	g.closed = true
	visible := g.pager.Visible()
	g.selected = ""
	g.mu.Unlock()

	for _, v := range visible {
		g.resolver.Release(v.ExternalVideoID)
	}
	g.logger.Debug("Gallery unmounted")
}
