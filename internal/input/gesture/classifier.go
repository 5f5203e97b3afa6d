package gesture

import (
	"math"
	"sync"
	"time"
)

// Classifier turns a stream of contact events into gesture tokens. It
// is stateful across events within a gesture and across gestures for
// double-tap detection, so each session owns one Classifier.
//
// Classification is deterministic: the same event sequence with the
// same thresholds always yields the same tokens. When several gesture
// classes could match, the higher-priority class wins: multi-finger
// tap, then pinch, then two-finger swipe, then swipe, then double tap,
// then long press, then tap.
type Classifier struct {
	mu         sync.Mutex
	thresholds Thresholds

	active         bool
	startTime      time.Time
	origin         map[int]Contact // position where each contact first appeared
	latest         map[int]Contact // most recent position of each contact
	maxContacts    int
	moved          bool
	longPressFired bool

	// lastTap remembers the previous completed tap for double-tap pairing.
	lastTap struct {
		valid bool
		time  time.Time
		x, y  float64
	}
}

// NewClassifier creates a classifier with the given thresholds.
func NewClassifier(thresholds Thresholds) *Classifier {
	return &Classifier{thresholds: thresholds}
}

// Feed processes one contact event and returns the gesture token it
// completed, or "" when no gesture has resolved yet. A long press is
// the one gesture that fires while still held; once it fires, the
// eventual release emits nothing further.
func (c *Classifier) Feed(ev Event) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch ev.Phase {
	case PhaseStart:
		c.begin(ev)
		return ""
	case PhaseMove:
		if !c.active {
			return ""
		}
		c.track(ev)
		return c.checkLongPress(ev.Time)
	case PhaseEnd:
		if !c.active {
			return ""
		}
		c.track(ev)
		return c.finish(ev.Time)
	default:
		return ""
	}
}

// Reset abandons any gesture in progress and clears double-tap history.
func (c *Classifier) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = false
	c.lastTap.valid = false
}

func (c *Classifier) begin(ev Event) {
	c.active = true
	c.startTime = ev.Time
	c.origin = make(map[int]Contact, len(ev.Contacts))
	c.latest = make(map[int]Contact, len(ev.Contacts))
	c.maxContacts = 0
	c.moved = false
	c.longPressFired = false
	c.track(ev)
}

// track records new contacts at their first position and updates the
// latest position of known ones.
func (c *Classifier) track(ev Event) {
	for _, contact := range ev.Contacts {
		if _, seen := c.origin[contact.ID]; !seen {
			c.origin[contact.ID] = contact
		}
		c.latest[contact.ID] = contact
	}
	if n := len(c.origin); n > c.maxContacts {
		c.maxContacts = n
	}
	if !c.moved && c.maxTravel() > c.thresholds.TapMovement {
		c.moved = true
	}
}

// checkLongPress fires the long press once the hold threshold passes
// with a single stationary contact.
func (c *Classifier) checkLongPress(now time.Time) string {
	if c.longPressFired || c.moved || c.maxContacts != 1 {
		return ""
	}
	if now.Sub(c.startTime) < c.thresholds.LongPress {
		return ""
	}
	c.longPressFired = true
	c.lastTap.valid = false
	return TokenLongPress
}

// finish classifies the completed gesture from recorded state.
func (c *Classifier) finish(now time.Time) string {
	c.active = false
	duration := now.Sub(c.startTime)

	if c.longPressFired {
		return ""
	}

	// Multi-finger tap beats everything else. A long stationary hold of
	// three or more fingers is not a tap and resolves to nothing.
	if c.maxContacts >= 3 {
		c.lastTap.valid = false
		if c.moved || duration > c.thresholds.MultiTapDuration {
			return ""
		}
		if c.maxContacts >= 4 {
			return TokenFourFingerTap
		}
		return TokenThreeFingerTap
	}

	if c.maxContacts == 2 {
		if token := c.classifyPinch(); token != "" {
			c.lastTap.valid = false
			return token
		}
		if token := c.classifyTwoFingerSwipe(duration); token != "" {
			c.lastTap.valid = false
			return token
		}
		c.lastTap.valid = false
		return ""
	}

	if token := c.classifySwipe(duration); token != "" {
		c.lastTap.valid = false
		return token
	}

	if c.moved {
		// Moved too far for a tap but not far enough for a swipe.
		c.lastTap.valid = false
		return ""
	}

	if duration >= c.thresholds.LongPress {
		c.lastTap.valid = false
		return TokenLongPress
	}

	return c.classifyTap(now)
}

// classifyPinch detects a spread change between the two contacts.
func (c *Classifier) classifyPinch() string {
	a, b, ok := c.twoContacts()
	if !ok {
		return ""
	}
	startDist := distance(c.origin[a].X, c.origin[a].Y, c.origin[b].X, c.origin[b].Y)
	endDist := distance(c.latest[a].X, c.latest[a].Y, c.latest[b].X, c.latest[b].Y)

	delta := endDist - startDist
	if math.Abs(delta) < c.thresholds.PinchDistance {
		return ""
	}
	if delta > 0 {
		return TokenPinchOut
	}
	return TokenPinchIn
}

// classifyTwoFingerSwipe detects parallel travel of both contacts.
func (c *Classifier) classifyTwoFingerSwipe(duration time.Duration) string {
	if duration > c.thresholds.SwipeDuration {
		return ""
	}
	a, b, ok := c.twoContacts()
	if !ok {
		return ""
	}
	dx := ((c.latest[a].X - c.origin[a].X) + (c.latest[b].X - c.origin[b].X)) / 2
	dy := ((c.latest[a].Y - c.origin[a].Y) + (c.latest[b].Y - c.origin[b].Y)) / 2
	if distance(0, 0, dx, dy) < c.thresholds.SwipeDistance {
		return ""
	}
	switch direction(dx, dy) {
	case "left":
		return TokenTwoFingerSwipeLeft
	case "right":
		return TokenTwoFingerSwipeRight
	case "up":
		return TokenTwoFingerSwipeUp
	default:
		return TokenTwoFingerSwipeDown
	}
}

// classifySwipe detects single-contact directional travel.
func (c *Classifier) classifySwipe(duration time.Duration) string {
	if c.maxContacts != 1 || duration > c.thresholds.SwipeDuration {
		return ""
	}
	id, ok := c.soleContact()
	if !ok {
		return ""
	}
	dx := c.latest[id].X - c.origin[id].X
	dy := c.latest[id].Y - c.origin[id].Y
	if distance(0, 0, dx, dy) < c.thresholds.SwipeDistance {
		return ""
	}
	switch direction(dx, dy) {
	case "left":
		return TokenSwipeLeft
	case "right":
		return TokenSwipeRight
	case "up":
		return TokenSwipeUp
	default:
		return TokenSwipeDown
	}
}

// classifyTap emits a double tap when this tap pairs with the previous
// one, otherwise records it and emits a plain tap.
func (c *Classifier) classifyTap(now time.Time) string {
	id, ok := c.soleContact()
	if !ok {
		c.lastTap.valid = false
		return ""
	}
	x, y := c.latest[id].X, c.latest[id].Y

	if c.lastTap.valid &&
		now.Sub(c.lastTap.time) <= c.thresholds.DoubleTapWindow &&
		distance(x, y, c.lastTap.x, c.lastTap.y) <= c.thresholds.DoubleTapDistance {
		c.lastTap.valid = false
		return TokenDoubleTap
	}

	c.lastTap.valid = true
	c.lastTap.time = now
	c.lastTap.x = x
	c.lastTap.y = y
	return TokenTap
}

// maxTravel returns the largest displacement of any contact from its origin.
func (c *Classifier) maxTravel() float64 {
	var max float64
	for id, start := range c.origin {
		end, ok := c.latest[id]
		if !ok {
			continue
		}
		if d := distance(start.X, start.Y, end.X, end.Y); d > max {
			max = d
		}
	}
	return max
}

// twoContacts returns the IDs of the two tracked contacts.
func (c *Classifier) twoContacts() (int, int, bool) {
	ids := make([]int, 0, 2)
	for id := range c.origin {
		ids = append(ids, id)
		if len(ids) == 2 {
			return ids[0], ids[1], true
		}
	}
	return 0, 0, false
}

// soleContact returns the ID of the only tracked contact.
func (c *Classifier) soleContact() (int, bool) {
	for id := range c.origin {
		if len(c.origin) == 1 {
			return id, true
		}
		break
	}
	return 0, false
}

func distance(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return math.Sqrt(dx*dx + dy*dy)
}

// direction picks the dominant axis of a displacement.
func direction(dx, dy float64) string {
	if math.Abs(dx) >= math.Abs(dy) {
		if dx < 0 {
			return "left"
		}
		return "right"
	}
	if dy < 0 {
		return "up"
	}
	return "down"
}
