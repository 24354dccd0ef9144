// Package tracker decides, poll after poll, whether the panel must be redrawn.
package tracker

import (
	"github.com/genricoloni/spotink/internal/config"
	"github.com/genricoloni/spotink/internal/domain"
)

// State is the tracker state
type State int

const (
	// StateIdle means the idle screen is on the panel
	StateIdle State = iota
	// StateActive means a track or episode is on the panel
	StateActive
)

func (s State) String() string {
	if s == StateActive {
		return "active"
	}
	return "idle"
}

// Decision is the outcome of one observation
type Decision struct {
	// Render is true when the panel content must change
	Render bool
	// Snapshot to render; Kind is KindNone for an idle render
	Snapshot domain.Snapshot
}

// Idle reports whether the requested render is the idle screen
func (d Decision) Idle() bool {
	return !d.Snapshot.Playing()
}

// Tracker is the ACTIVE/IDLE state machine. The render identity only moves
// when Commit is called, which the scheduler does once the panel accepted the bitmap.
type Tracker struct {
	policy   config.FetchErrorPolicy
	identity domain.Identity
}

// NewTracker creates a tracker in the idle state
func NewTracker(cfg *config.Config) *Tracker {
	return New(cfg.FetchErrorPolicy)
}

// New creates a tracker in the idle state with the given fetch error policy
func New(policy config.FetchErrorPolicy) *Tracker {
	return &Tracker{policy: policy, identity: domain.NoSong}
}

// Observe compares a poll result against what is on screen.
// fetchErr is the provider error, if any; it is handled according to the policy.
func (t *Tracker) Observe(snap domain.Snapshot, fetchErr error) Decision {
	if fetchErr != nil {
		if t.policy == config.PolicyHold {
			return Decision{}
		}
		snap = domain.Nothing
	}

	if !snap.Playing() {
		if t.identity == domain.NoSong {
			return Decision{}
		}
		return Decision{Render: true, Snapshot: domain.Nothing}
	}

	if snap.Identity() == t.identity {
		return Decision{}
	}
	return Decision{Render: true, Snapshot: snap}
}

// Commit records that the decision's render reached the panel
func (t *Tracker) Commit(d Decision) {
	if !d.Render {
		return
	}
	t.identity = d.Snapshot.Identity()
}

// State returns the current state
func (t *Tracker) State() State {
	if t.identity == domain.NoSong {
		return StateIdle
	}
	return StateActive
}

// Identity returns what is currently on screen
func (t *Tracker) Identity() domain.Identity {
	return t.identity
}
