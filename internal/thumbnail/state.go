// Package thumbnail resolves a displayable thumbnail for a video by walking
// the image quality tiers until one is served.
//
// Resolution for each video is an explicit state machine:
//
//	Unresolved -> Loading(tier) -> Loaded(url)
//	                 |  ^
//	                 v  | next tier
//	               (probe failed) -> Failed once every tier is exhausted
//
// A Loaded state below the top tier may be upgraded in the background.
package thumbnail

import (
	"errors"

	"github.com/gauthierbraillon/stategallery/internal/youtube"
)

// ErrUnavailable is reported for videos whose every quality tier failed.
// It is not fatal: callers render a placeholder card instead.
var ErrUnavailable = errors.New("thumbnail unavailable")

// Phase is the coarse resolution state of a video thumbnail.
type Phase int

const (
	Unresolved Phase = iota
	Loading
	Loaded
	Failed
)

func (p Phase) String() string {
	switch p {
	case Unresolved:
		return "unresolved"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// State is the thumbnail state of one video.
type State struct {
	Phase Phase
	// Tier is the tier being probed while Loading, or the displayed tier once
	// Loaded.
	Tier youtube.Tier
	// URL is the candidate image while Loading and the displayed image once
	// Loaded.
	URL string
	// Attempts counts cascade probes; background upgrade probes are excluded.
	Attempts int
	// Upgraded is set when a background probe replaced the displayed image
	// with the top tier.
	Upgraded bool
}

// Terminal reports whether the cascade has finished.
func (s State) Terminal() bool {
	return s.Phase == Loaded || s.Phase == Failed
}

// Err returns ErrUnavailable for failed states and nil otherwise.
func (s State) Err() error {
	if s.Phase == Failed {
		return ErrUnavailable
	}
	return nil
}

// EventKind identifies a transition trigger.
type EventKind int

const (
	EventStart EventKind = iota
	EventProbeSucceeded
	EventProbeFailed
	EventUpgradeSucceeded
)

// Event drives Transition.
type Event struct {
	Kind EventKind
}

// Ladder is the ordered set of tiers tried for one video.
type Ladder struct {
	Tiers []youtube.Tier
	URL   func(youtube.Tier) string
}

// Top returns the most preferred tier.
func (l Ladder) Top() (youtube.Tier, bool) {
	if len(l.Tiers) == 0 {
		return "", false
	}
	return l.Tiers[0], true
}

// NeedsUpgrade reports whether s is displaying a tier below the top one.
func (l Ladder) NeedsUpgrade(s State) bool {
	top, ok := l.Top()
	return ok && s.Phase == Loaded && !s.Upgraded && s.Tier != top
}

func (l Ladder) loading(tier youtube.Tier, attempts int) State {
	return State{Phase: Loading, Tier: tier, URL: l.URL(tier), Attempts: attempts}
}

// Transition returns the state following s on ev. Events that do not apply
// to the current phase leave the state unchanged.
func Transition(s State, ev Event, l Ladder) State {
	switch ev.Kind {
	case EventStart:
		if s.Phase != Unresolved {
			return s
		}
		top, ok := l.Top()
		if !ok {
			return State{Phase: Failed}
		}
		return l.loading(top, 0)

	case EventProbeSucceeded:
		if s.Phase != Loading {
			return s
		}
		return State{Phase: Loaded, Tier: s.Tier, URL: s.URL, Attempts: s.Attempts + 1}

	case EventProbeFailed:
		if s.Phase != Loading {
			return s
		}
		// While Loading, Attempts is the position of the tier being probed.
		attempts := s.Attempts + 1
		if attempts >= len(l.Tiers) {
			return State{Phase: Failed, Attempts: attempts}
		}
		return l.loading(l.Tiers[attempts], attempts)

	case EventUpgradeSucceeded:
		if !l.NeedsUpgrade(s) {
			return s
		}
		top, _ := l.Top()
		return State{Phase: Loaded, Tier: top, URL: l.URL(top), Attempts: s.Attempts, Upgraded: true}
	}

	return s
}
