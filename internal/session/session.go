// Package session manages per-client slideshow state: position,
// playback flags, shuffle order, mapping context, and the auto-advance
// timer. All state access is serialized per session, and timer
// callbacks carry a generation token so a stale timer can never act on
// state that changed after it was armed.
package session

import (
	"sync"
	"time"

	"github.com/dshills/glideshow/internal/action"
	"github.com/dshills/glideshow/internal/input/gesture"
)

// ContextBrowsing is the default mapping context for new sessions.
const ContextBrowsing = "browsing"

// State is the mutable per-session state vector. It is only ever
// touched inside Session.Exec or Session.ExecTimer.
type State struct {
	// ID is the owning session's identifier.
	ID string
	// Total is the number of resources in the shared list.
	Total int
	// CurrentIndex is the index of the current resource.
	CurrentIndex int
	// Cursor is the position within Order when shuffling.
	Cursor int
	// Order is the shuffle permutation, nil when shuffle is off.
	Order []int
	// Paused suspends auto-advance.
	Paused bool
	// Repeat wraps navigation at the ends.
	Repeat bool
	// Shuffle enables shuffled traversal.
	Shuffle bool
	// SpeedSeconds is the auto-advance interval.
	SpeedSeconds float64
	// Context is the active mapping context.
	Context string
	// Hidden is the set of resource indexes hidden in this session.
	Hidden map[int]bool

	// shuffleGen counts shuffle activations for seed derivation.
	shuffleGen uint64
}

// Apply merges a state patch. Shuffle transitions are resolved here so
// the order, cursor, and current index change in the same critical
// section that flips the flag.
func (st *State) Apply(patch *action.StatePatch) {
	if patch == nil {
		return
	}

	if patch.Shuffle != nil && *patch.Shuffle != st.Shuffle {
		st.Shuffle = *patch.Shuffle
		if st.Shuffle {
			st.Order = NewOrder(st.ID, st.shuffleGen, st.Total)
			st.shuffleGen++
			st.Cursor = 0
			if len(st.Order) > 0 {
				st.CurrentIndex = st.Order[0]
			}
		} else {
			// The current resource stays; only the traversal order resets.
			st.Order = nil
			st.Cursor = 0
		}
	}

	if patch.Paused != nil {
		st.Paused = *patch.Paused
	}
	if patch.Repeat != nil {
		st.Repeat = *patch.Repeat
	}
	if patch.SpeedSeconds != nil {
		st.SpeedSeconds = *patch.SpeedSeconds
	}
	if patch.Context != nil {
		st.Context = *patch.Context
	}
	if patch.Order != nil {
		st.Order = append([]int(nil), (*patch.Order)...)
		if len(st.Order) == 0 {
			st.Order = nil
		}
	}
	if patch.Cursor != nil {
		st.Cursor = *patch.Cursor
	}
	if patch.CurrentIndex != nil {
		st.CurrentIndex = *patch.CurrentIndex
	}
	if patch.Hide != nil {
		if st.Hidden == nil {
			st.Hidden = make(map[int]bool)
		}
		st.Hidden[*patch.Hide] = true
	}
}

// Session owns one client's state and auto-advance timer.
type Session struct {
	// ID is the unique session identifier.
	ID string

	mu         sync.Mutex
	state      State
	closed     bool
	lastActive time.Time

	timer    *time.Timer
	timerGen uint64

	classifier *gesture.Classifier

	// onTimer is invoked outside the lock when an armed timer fires and
	// its generation is still current. The generation is passed along so
	// the eventual state mutation can re-validate it.
	onTimer func(id string, gen uint64)
}

// Exec runs fn with exclusive access to the session state. When fn
// returns true the auto-advance timer is re-armed from the (possibly
// updated) speed, invalidating any timer already in flight.
func (s *Session) Exec(fn func(st *State) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.lastActive = time.Now()
	if fn(&s.state) {
		s.armTimerLocked()
	}
}

// ExecTimer is Exec for timer-driven work: fn only runs when the
// generation token still matches and the session is not paused, so a
// timer armed before a user action can never override that action.
// Returns false when the timer was stale.
func (s *Session) ExecTimer(gen uint64, fn func(st *State) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || gen != s.timerGen || s.state.Paused {
		return false
	}
	s.lastActive = time.Now()
	if fn(&s.state) {
		s.armTimerLocked()
	}
	return true
}

// armTimerLocked replaces any pending timer with a fresh one. Caller
// must hold the lock.
func (s *Session) armTimerLocked() {
	s.timerGen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.state.Paused || s.state.SpeedSeconds <= 0 || s.onTimer == nil {
		return
	}

	gen := s.timerGen
	delay := time.Duration(s.state.SpeedSeconds * float64(time.Second))
	s.timer = time.AfterFunc(delay, func() {
		s.fire(gen)
	})
}

// fire forwards a timer expiry when its generation is still current.
// The actual state change happens through ExecTimer, which re-validates
// the generation under the lock.
func (s *Session) fire(gen uint64) {
	s.mu.Lock()
	stale := s.closed || gen != s.timerGen
	callback := s.onTimer
	s.mu.Unlock()

	if stale || callback == nil {
		return
	}
	callback(s.ID, gen)
}

// StopTimer cancels any pending auto-advance without touching state.
func (s *Session) StopTimer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timerGen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// Classifier returns the session's gesture classifier. The classifier
// carries its own lock, so it is safe to use without holding the
// session lock.
func (s *Session) Classifier() *gesture.Classifier {
	return s.classifier
}

// IdleSince returns the time of the session's last activity.
func (s *Session) IdleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// close marks the session dead and cancels its timer.
func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.timerGen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
