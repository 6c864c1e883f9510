package thumbnail

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/gauthierbraillon/stategallery/internal/youtube"
)

const DefaultTierTimeout = 5 * time.Second

// errThrottled marks probes that never reached the host because the shared
// limiter could not grant a token before ctx expires.
var errThrottled = errors.New("probe rate limit")

// Prober checks whether an image URL is served.
type Prober interface {
	Probe(ctx context.Context, url string) error
}

// URLFunc builds the image URL of videoID at tier.
type URLFunc func(videoID string, tier youtube.Tier) string

// Observer is notified after every committed state change.
type Observer func(videoID string, s State)

// Option configures the Resolver.
type Option func(*Resolver)

// WithTiers overrides the tier cascade.
func WithTiers(tiers []youtube.Tier) Option {
	return func(r *Resolver) {
		r.tiers = slices.Clone(tiers)
	}
}

// WithTierTimeout bounds each tier attempt; a timeout counts as a failure.
func WithTierTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		if d > 0 {
			r.tierTimeout = d
		}
	}
}

// WithLimiter gates every probe, across all videos, on limiter.
func WithLimiter(limiter *rate.Limiter) Option {
	return func(r *Resolver) {
		r.limiter = limiter
	}
}

// WithUpgrade toggles the background probe of the top tier after a lower
// tier loaded.
func WithUpgrade(enabled bool) Option {
	return func(r *Resolver) {
		r.upgrade = enabled
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithObserver registers fn for state change notifications. fn runs on the
// resolving goroutine and must not block.
func WithObserver(fn Observer) Option {
	return func(r *Resolver) {
		r.observer = fn
	}
}

// Resolver runs one independent tier cascade per video.
type Resolver struct {
	prober      Prober
	urlFor      URLFunc
	tiers       []youtube.Tier
	tierTimeout time.Duration
	limiter     *rate.Limiter
	upgrade     bool
	logger      *zap.Logger
	observer    Observer

	mu      sync.Mutex
	entries map[string]*entry
	version uint64
	closed  bool
	wg      sync.WaitGroup
}

type entry struct {
	version uint64
	state   State
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewResolver creates a resolver probing through prober.
func NewResolver(prober Prober, urlFor URLFunc, opts ...Option) *Resolver {
	r := &Resolver{
		prober:      prober,
		urlFor:      urlFor,
		tiers:       slices.Clone(youtube.Tiers),
		tierTimeout: DefaultTierTimeout,
		upgrade:     true,
		logger:      zap.NewNop(),
		entries:     make(map[string]*entry),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Resolve starts resolving videoID and returns its current state without
// blocking. Calling it again for a video that is resolving or resolved
// returns the existing state and issues no new probes.
//
// Cancelling ctx abandons the cascade; a later Resolve starts over.
func (r *Resolver) Resolve(ctx context.Context, videoID string) State {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return State{}
	}
	if e, ok := r.entries[videoID]; ok {
		s := e.state
		r.mu.Unlock()
		return s
	}

	r.version++
	runCtx, cancel := context.WithCancel(ctx)
	e := &entry{
		version: r.version,
		state:   Transition(State{}, Event{Kind: EventStart}, r.ladder(videoID)),
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	r.entries[videoID] = e
	r.wg.Add(1)
	s := e.state
	r.mu.Unlock()

	r.notify(videoID, s)
	go r.run(runCtx, videoID, e.version, s, e.done)
	return s
}

// State returns the current state of videoID, Unresolved if unknown.
func (r *Resolver) State(videoID string) State {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[videoID]; ok {
		return e.state
	}
	return State{}
}

// Wait blocks until the cascade for videoID, including any background
// upgrade, has finished or ctx is done.
func (r *Resolver) Wait(ctx context.Context, videoID string) (State, error) {
	r.mu.Lock()
	e, ok := r.entries[videoID]
	r.mu.Unlock()
	if !ok {
		return State{}, fmt.Errorf("thumbnail for %q is not being resolved", videoID)
	}

	select {
	case <-e.done:
		return r.State(videoID), nil
	case <-ctx.Done():
		return r.State(videoID), ctx.Err()
	}
}

// Release forgets videoID and abandons any in-flight probe for it. Late
// responses are discarded and the next Resolve starts over.
func (r *Resolver) Release(videoID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[videoID]; ok {
		e.cancel()
		delete(r.entries, videoID)
	}
}

// Close abandons every cascade and waits for their goroutines to exit.
// Resolve is a no-op afterwards.
func (r *Resolver) Close() {
	r.mu.Lock()
	r.closed = true
	for id, e := range r.entries {
		e.cancel()
		delete(r.entries, id)
	}
	r.mu.Unlock()

	r.wg.Wait()
}

func (r *Resolver) ladder(videoID string) Ladder {
	return Ladder{
		Tiers: r.tiers,
		URL: func(t youtube.Tier) string {
			return r.urlFor(videoID, t)
		},
	}
}

func (r *Resolver) run(ctx context.Context, videoID string, version uint64, s State, done chan struct{}) {
	defer r.wg.Done()
	defer close(done)

	ladder := r.ladder(videoID)
	log := r.logger.With(zap.String("video_id", videoID))

	for s.Phase == Loading {
		err := r.probe(ctx, s.URL)
		if ctx.Err() != nil || errors.Is(err, errThrottled) {
			log.Debug("Thumbnail resolution abandoned", zap.String("tier", string(s.Tier)), zap.Error(err))
			r.abandon(videoID, version)
			return
		}

		if err != nil {
			log.Debug("Thumbnail tier failed",
				zap.String("tier", string(s.Tier)),
				zap.Int("attempt", s.Attempts+1),
				zap.Error(err))
			s = Transition(s, Event{Kind: EventProbeFailed}, ladder)
		} else {
			s = Transition(s, Event{Kind: EventProbeSucceeded}, ladder)
		}

		if !r.commit(videoID, version, s) {
			return
		}
	}

	switch s.Phase {
	case Failed:
		log.Info("Thumbnail unavailable, using placeholder", zap.Int("attempts", s.Attempts))
		return
	case Loaded:
		log.Debug("Thumbnail loaded", zap.String("tier", string(s.Tier)), zap.Int("attempts", s.Attempts))
	}

	if !r.upgrade || !ladder.NeedsUpgrade(s) {
		return
	}

	top, _ := ladder.Top()
	if err := r.probe(ctx, ladder.URL(top)); err != nil || ctx.Err() != nil {
		log.Debug("Thumbnail upgrade skipped", zap.String("tier", string(top)), zap.Error(err))
		return
	}

	s = Transition(s, Event{Kind: EventUpgradeSucceeded}, ladder)
	if r.commit(videoID, version, s) {
		log.Debug("Thumbnail upgraded", zap.String("tier", string(top)))
	}
}

func (r *Resolver) probe(ctx context.Context, url string) error {
	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: %v", errThrottled, err)
		}
	}

	tierCtx, cancel := context.WithTimeout(ctx, r.tierTimeout)
	defer cancel()

	return r.prober.Probe(tierCtx, url)
}

// commit stores s if the entry still belongs to this cascade.
func (r *Resolver) commit(videoID string, version uint64, s State) bool {
	r.mu.Lock()
	e, ok := r.entries[videoID]
	if !ok || e.version != version {
		r.mu.Unlock()
		return false
	}
	e.state = s
	r.mu.Unlock()

	r.notify(videoID, s)
	return true
}

// abandon drops an unfinished entry so a later Resolve starts over.
func (r *Resolver) abandon(videoID string, version uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[videoID]; ok && e.version == version && !e.state.Terminal() {
		e.cancel()
		delete(r.entries, videoID)
	}
}

func (r *Resolver) notify(videoID string, s State) {
	if r.observer != nil {
		r.observer(videoID, s)
	}
}
